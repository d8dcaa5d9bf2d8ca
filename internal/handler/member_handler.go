package handler

import (
	"net/http"

	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler управляет приглашениями и участниками доски
type MemberHandler struct {
	svc *service.Service
}

func NewMemberHandler(svc *service.Service) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// Invite godoc
// @Summary   Invite an email to the board
// @Tags      Members
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id       path      string              true  "Board ID"
// @Param     request  body      service.InviteUser  true  "Invitation"
// @Success   201      {object}  model.BoardInvitation
// @Router    /boards/{id}/invitations [post]
func (h *MemberHandler) Invite(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	var req service.InviteUser
	if !bindJSON(c, &req) {
		return
	}
	req.BoardID = boardID

	inv, err := h.svc.InviteUser(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// BoardInvitations возвращает приглашения доски с учетом истечения срока
func (h *MemberHandler) BoardInvitations(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	views, err := h.svc.BoardInvitations(c.Request.Context(), accountID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// MyInvitations возвращает активные приглашения текущего пользователя
func (h *MemberHandler) MyInvitations(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}

	invs, err := h.svc.PendingInvitations(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invs)
}

func (h *MemberHandler) Accept(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	invitationID, ok := pathID(c, "id", "invitation")
	if !ok {
		return
	}

	member, err := h.svc.AcceptInvitation(c.Request.Context(), accountID, service.AcceptInvitation{InvitationID: invitationID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Decline(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	invitationID, ok := pathID(c, "id", "invitation")
	if !ok {
		return
	}

	inv, err := h.svc.DeclineInvitation(c.Request.Context(), accountID, service.DeclineInvitation{InvitationID: invitationID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Remove удаляет участника; владельца удалить нельзя
func (h *MemberHandler) Remove(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "account_id", "account")
	if !ok {
		return
	}

	err := h.svc.RemoveMember(c.Request.Context(), accountID, service.RemoveMember{BoardID: boardID, AccountID: memberID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
