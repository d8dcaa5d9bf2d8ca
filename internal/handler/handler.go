// Package handler exposes the board service over HTTP with gin.
package handler

import (
	"net/http"

	"collabkanban/internal/apperror"
	"collabkanban/internal/logger"
	"collabkanban/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError maps the error taxonomy to a status. Anything outside it is a 500
// and its details stay in the log.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		c.JSON(apperror.HTTPStatus(err), ErrorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}
	logger.FromContext(c.Request.Context(), logger.Nop()).Errorw("unhandled error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

func currentAccount(c *gin.Context) (uuid.UUID, bool) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
		return uuid.Nil, false
	}
	return accountID, true
}

func pathID(c *gin.Context, param, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " ID format", Code: "invalid_input"})
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body into cmd. An empty body leaves cmd untouched.
func bindJSON(c *gin.Context, cmd any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(cmd); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "invalid_input"})
		return false
	}
	return true
}
