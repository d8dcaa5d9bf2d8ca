package handler

import (
	"net/http"

	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

type ColumnHandler struct {
	svc *service.Service
}

func NewColumnHandler(svc *service.Service) *ColumnHandler {
	return &ColumnHandler{svc: svc}
}

// Create godoc
// @Summary   Append a column to the board
// @Tags      Columns
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id       path      string               true  "Board ID"
// @Param     request  body      service.CreateColumn true  "Column"
// @Success   201      {object}  model.Column
// @Failure   403      {object}  ErrorResponse
// @Router    /boards/{id}/columns [post]
func (h *ColumnHandler) Create(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	var req service.CreateColumn
	if !bindJSON(c, &req) {
		return
	}
	req.BoardID = boardID

	column, err := h.svc.CreateColumn(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, column)
}

func (h *ColumnHandler) Update(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}
	var req service.UpdateColumn
	if !bindJSON(c, &req) {
		return
	}
	req.ColumnID = columnID

	column, err := h.svc.UpdateColumn(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

func (h *ColumnHandler) Move(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "id", "column")
	if !ok {
		return
	}
	var req service.MoveColumn
	if !bindJSON(c, &req) {
		return
	}
	req.ColumnID = columnID

	column, err := h.svc.MoveColumn(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, column)
}

// Delete godoc
// @Summary   Delete a column, moving its cards to the default column
// @Tags      Columns
// @Security  BearerAuth
// @Param     id         path  string  true  "Board ID"
// @Param     column_id  path  string  true  "Column ID"
// @Success   204
// @Failure   409  {object}  ErrorResponse
// @Router    /boards/{id}/columns/{column_id} [delete]
func (h *ColumnHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	columnID, ok := pathID(c, "column_id", "column")
	if !ok {
		return
	}

	err := h.svc.DeleteColumn(c.Request.Context(), accountID, service.DeleteColumn{ColumnID: columnID, BoardID: boardID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
