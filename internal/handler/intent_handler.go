package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"collabkanban/internal/apperror"
	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IntentRequest is a named mutation with its payload, the single write entry
// point used by the board client.
type IntentRequest struct {
	Intent  string          `json:"intent" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

type IntentResponse struct {
	Intent string `json:"intent"`
	Result any    `json:"result"`
}

type intentFunc func(ctx context.Context, accountID uuid.UUID, payload json.RawMessage) (any, error)

type IntentHandler struct {
	intents map[string]intentFunc
}

func NewIntentHandler(svc *service.Service) *IntentHandler {
	return &IntentHandler{intents: map[string]intentFunc{
		"createBoard": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.CreateBoard
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.CreateBoard(ctx, accountID, cmd)
		},
		"updateBoard": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.UpdateBoard
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.UpdateBoard(ctx, accountID, cmd)
		},
		"deleteBoard": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd struct {
				BoardID uuid.UUID `json:"board_id"`
			}
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return nil, svc.DeleteBoard(ctx, accountID, cmd.BoardID)
		},
		"createColumn": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.CreateColumn
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.CreateColumn(ctx, accountID, cmd)
		},
		"updateColumn": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.UpdateColumn
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.UpdateColumn(ctx, accountID, cmd)
		},
		"moveColumn": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.MoveColumn
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.MoveColumn(ctx, accountID, cmd)
		},
		"deleteColumn": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.DeleteColumn
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return nil, svc.DeleteColumn(ctx, accountID, cmd)
		},
		"createItem": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.UpsertItem
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			cmd.ID = nil
			return svc.UpsertItem(ctx, accountID, cmd)
		},
		"updateItem": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.UpsertItem
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			if cmd.ID == nil {
				return nil, apperror.Validation("id is required")
			}
			return svc.UpsertItem(ctx, accountID, cmd)
		},
		"moveItem": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.MoveItem
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.MoveItem(ctx, accountID, cmd)
		},
		"deleteCard": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.DeleteItem
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return nil, svc.DeleteItem(ctx, accountID, cmd)
		},
		"updateItemAssignee": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.UpdateItemAssignee
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.UpdateItemAssignee(ctx, accountID, cmd)
		},
		"createComment": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.CreateComment
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.CreateComment(ctx, accountID, cmd)
		},
		"updateComment": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.UpdateComment
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.UpdateComment(ctx, accountID, cmd)
		},
		"deleteComment": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.DeleteComment
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return nil, svc.DeleteComment(ctx, accountID, cmd)
		},
		"inviteUser": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.InviteUser
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.InviteUser(ctx, accountID, cmd)
		},
		"acceptInvitation": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.AcceptInvitation
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.AcceptInvitation(ctx, accountID, cmd)
		},
		"declineInvitation": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.DeclineInvitation
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.DeclineInvitation(ctx, accountID, cmd)
		},
		"removeBoardMember": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.RemoveMember
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return nil, svc.RemoveMember(ctx, accountID, cmd)
		},
		"createVirtualAssignee": func(ctx context.Context, accountID uuid.UUID, raw json.RawMessage) (any, error) {
			var cmd service.CreateVirtualAssignee
			if err := decodePayload(raw, &cmd); err != nil {
				return nil, err
			}
			return svc.CreateVirtualAssignee(ctx, accountID, cmd)
		},
	}}
}

// Intents lists the accepted intent names in alphabetical order.
func (h *IntentHandler) Intents() []string {
	names := make([]string, 0, len(h.intents))
	for name := range h.intents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch godoc
// @Summary      Apply a named mutation
// @Description  Validates, authorizes and applies the intent in one transaction and records an activity entry
// @Tags         Intents
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      IntentRequest  true  "Intent"
// @Success      200      {object}  IntentResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      403      {object}  ErrorResponse
// @Failure      404      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Router       /intents [post]
func (h *IntentHandler) Dispatch(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	var req IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Code: "invalid_input"})
		return
	}

	fn, exists := h.intents[req.Intent]
	if !exists {
		respondError(c, apperror.Validation("unknown intent %q", req.Intent))
		return
	}

	result, err := fn(c.Request.Context(), accountID, req.Payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, IntentResponse{Intent: req.Intent, Result: result})
}

func decodePayload(raw json.RawMessage, cmd any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, cmd); err != nil {
		return apperror.Validation("invalid payload: %s", err.Error())
	}
	return nil
}
