package handler

import (
	"net/http"

	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

type AssigneeHandler struct {
	svc *service.Service
}

func NewAssigneeHandler(svc *service.Service) *AssigneeHandler {
	return &AssigneeHandler{svc: svc}
}

// Create adds a virtual assignee to the board
func (h *AssigneeHandler) Create(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	var req service.CreateVirtualAssignee
	if !bindJSON(c, &req) {
		return
	}
	req.BoardID = boardID

	assignee, err := h.svc.CreateVirtualAssignee(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignee)
}
