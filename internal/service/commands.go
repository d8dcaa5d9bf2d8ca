package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"collabkanban/internal/apperror"
	"collabkanban/internal/invitation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type normalizer interface {
	normalize(s *sanitizer)
}

type selfValidator interface {
	selfValidate() error
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("%s", err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return apperror.Validation("%s", strings.Join(msgs, "; "))
}

// Position is shared by move commands: an explicit order or the neighbours
// the element is dropped between.
type Position struct {
	Order    *float64   `json:"order"`
	AfterID  *uuid.UUID `json:"after_id"`
	BeforeID *uuid.UUID `json:"before_id"`
}

func (p Position) selfValidate() error {
	if p.Order == nil && p.AfterID == nil && p.BeforeID == nil {
		return apperror.Validation("order or a neighbour is required")
	}
	if p.Order != nil && (math.IsNaN(*p.Order) || math.IsInf(*p.Order, 0)) {
		return apperror.Validation("order must be a finite number")
	}
	return nil
}

type CreateBoard struct {
	Name  string `json:"name" validate:"required,max=255"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (c *CreateBoard) normalize(s *sanitizer) { c.Name = s.plain(c.Name) }

type UpdateBoard struct {
	BoardID uuid.UUID `json:"board_id" validate:"required"`
	Name    *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Color   *string   `json:"color" validate:"omitempty,hexcolor"`
}

func (c *UpdateBoard) normalize(s *sanitizer) { c.Name = s.plainPtr(c.Name) }

type CreateColumn struct {
	BoardID uuid.UUID `json:"board_id" validate:"required"`
	Name    string    `json:"name" validate:"required,max=255"`
	Color   string    `json:"color" validate:"omitempty,hexcolor"`
}

func (c *CreateColumn) normalize(s *sanitizer) { c.Name = s.plain(c.Name) }

type UpdateColumn struct {
	ColumnID   uuid.UUID `json:"column_id" validate:"required"`
	Name       *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Color      *string   `json:"color" validate:"omitempty,hexcolor"`
	IsExpanded *bool     `json:"is_expanded"`
	// Shortcut is a single character; an empty string clears it.
	Shortcut *string `json:"shortcut" validate:"omitempty,max=1"`
}

func (c *UpdateColumn) normalize(s *sanitizer) {
	c.Name = s.plainPtr(c.Name)
	c.Shortcut = s.plainPtr(c.Shortcut)
}

func (c *UpdateColumn) selfValidate() error {
	if c.Name == nil && c.Color == nil && c.IsExpanded == nil && c.Shortcut == nil {
		return apperror.Validation("nothing to update")
	}
	return nil
}

type MoveColumn struct {
	ColumnID uuid.UUID `json:"column_id" validate:"required"`
	Position
}

type DeleteColumn struct {
	ColumnID uuid.UUID `json:"column_id" validate:"required"`
	BoardID  uuid.UUID `json:"board_id" validate:"required"`
}

// UpsertItem creates a card when ID is nil and updates it otherwise.
type UpsertItem struct {
	ID       *uuid.UUID `json:"id"`
	ColumnID uuid.UUID  `json:"column_id" validate:"required"`
	Title    string     `json:"title" validate:"required,max=1024"`
	Content  *string    `json:"content" validate:"omitempty,max=20000"`
	Order    *float64   `json:"order"`
}

func (c *UpsertItem) normalize(s *sanitizer) {
	c.Title = s.plain(c.Title)
	c.Content = s.richPtr(c.Content)
}

func (c *UpsertItem) selfValidate() error {
	if c.Order != nil && (math.IsNaN(*c.Order) || math.IsInf(*c.Order, 0)) {
		return apperror.Validation("order must be a finite number")
	}
	return nil
}

type MoveItem struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	ColumnID uuid.UUID `json:"column_id" validate:"required"`
	Position
}

type DeleteItem struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

type UpdateItemAssignee struct {
	ItemID     uuid.UUID  `json:"item_id" validate:"required"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
}

type CreateComment struct {
	ItemID  uuid.UUID `json:"item_id" validate:"required"`
	Content string    `json:"content" validate:"required,max=10000"`
}

func (c *CreateComment) normalize(s *sanitizer) { c.Content = s.rich(c.Content) }

type UpdateComment struct {
	CommentID uuid.UUID `json:"comment_id" validate:"required"`
	Content   string    `json:"content" validate:"required,max=10000"`
}

func (c *UpdateComment) normalize(s *sanitizer) { c.Content = s.rich(c.Content) }

type DeleteComment struct {
	CommentID uuid.UUID `json:"comment_id" validate:"required"`
}

type InviteUser struct {
	BoardID uuid.UUID `json:"board_id" validate:"required"`
	Email   string    `json:"email" validate:"required,email"`
	Role    string    `json:"role" validate:"omitempty,oneof=editor admin"`
}

func (c *InviteUser) normalize(*sanitizer) {
	c.Email = invitation.NormalizeEmail(c.Email)
}

type AcceptInvitation struct {
	InvitationID uuid.UUID `json:"invitation_id" validate:"required"`
}

type DeclineInvitation struct {
	InvitationID uuid.UUID `json:"invitation_id" validate:"required"`
}

type RemoveMember struct {
	BoardID   uuid.UUID `json:"board_id" validate:"required"`
	AccountID uuid.UUID `json:"account_id" validate:"required"`
}

type CreateVirtualAssignee struct {
	BoardID uuid.UUID `json:"board_id" validate:"required"`
	Name    string    `json:"name" validate:"required,max=255"`
}

func (c *CreateVirtualAssignee) normalize(s *sanitizer) { c.Name = s.plain(c.Name) }

type Register struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (c *Register) normalize(s *sanitizer) {
	c.Email = invitation.NormalizeEmail(c.Email)
	c.Name = s.plain(c.Name)
}

type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Login) normalize(*sanitizer) {
	c.Email = invitation.NormalizeEmail(c.Email)
}
