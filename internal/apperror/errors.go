// Package apperror defines the error taxonomy shared by every board mutation.
//
// There are four kinds. Validation errors are raised before any storage access,
// Forbidden when the caller's role lacks a capability, NotFound when the entity
// is absent or hidden from the caller, and Domain when a business rule refuses
// the change. None of them are retried.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindDomain     Kind = "domain"
)

// Domain error codes.
const (
	CodeDefaultColumnProtected  = "default_column_protected"
	CodeCommentNotAuthor        = "comment_not_author"
	CodeCommentEditWindowClosed = "comment_edit_window_closed"
	CodeInvitationNotPending    = "invitation_not_pending"
	CodeInvitationExpired       = "invitation_expired"
	CodeInvitationEmailMismatch = "invitation_email_mismatch"
	CodeAssigneeNameTaken       = "assignee_name_taken"
	CodeCannotRemoveOwner       = "cannot_remove_owner"
	CodeNeighbourNotInColumn    = "neighbour_not_in_column"
	CodeAssigneeBoardMismatch   = "assignee_board_mismatch"
	CodeEmailTaken              = "email_taken"
	CodeInvalidCredentials      = "invalid_credentials"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_input", Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Code: "forbidden", Message: fmt.Sprintf(format, args...)}
}

// NotFound names the missing entity, e.g. NotFound("column").
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Code: entity + "_not_found", Message: entity + " not found"}
}

func Domain(code, format string, args ...any) *Error {
	return &Error{Kind: KindDomain, Code: code, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into an *Error if it carries one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" for errors outside the taxonomy.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// HTTPStatus maps err to the status code handlers respond with.
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDomain:
		if appErr.Code == CodeInvalidCredentials {
			return http.StatusUnauthorized
		}
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
