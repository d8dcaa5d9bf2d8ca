package handler

import (
	"net/http"

	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	svc *service.Service
}

func NewItemHandler(svc *service.Service) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// Create godoc
// @Summary   Create a card
// @Tags      Cards
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     request  body      service.UpsertItem  true  "Card"
// @Success   201      {object}  model.Item
// @Router    /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	var req service.UpsertItem
	if !bindJSON(c, &req) {
		return
	}
	req.ID = nil

	item, err := h.svc.UpsertItem(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}
	var req service.UpsertItem
	if !bindJSON(c, &req) {
		return
	}
	req.ID = &itemID

	item, err := h.svc.UpsertItem(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Move godoc
// @Summary   Move a card to a column and position
// @Tags      Cards
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id       path      string            true  "Card ID"
// @Param     request  body      service.MoveItem  true  "Target"
// @Success   200      {object}  model.Item
// @Router    /items/{id}/move [post]
func (h *ItemHandler) Move(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}
	var req service.MoveItem
	if !bindJSON(c, &req) {
		return
	}
	req.ID = itemID

	item, err := h.svc.MoveItem(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), accountID, service.DeleteItem{ItemID: itemID}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ItemHandler) Assign(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}
	var req service.UpdateItemAssignee
	if !bindJSON(c, &req) {
		return
	}
	req.ItemID = itemID

	item, err := h.svc.UpdateItemAssignee(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
