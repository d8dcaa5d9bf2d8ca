package handler

import (
	"net/http"
	"strconv"

	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	svc *service.Service
}

func NewBoardHandler(svc *service.Service) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// Create godoc
// @Summary   Create a board with its default column
// @Tags      Boards
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     request  body      service.CreateBoard  true  "Board"
// @Success   201      {object}  model.Board
// @Router    /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	var req service.CreateBoard
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.svc.CreateBoard(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

// GetAll godoc
// @Summary   Boards the caller owns or belongs to
// @Tags      Boards
// @Security  BearerAuth
// @Produce   json
// @Success   200  {array}  model.Board
// @Router    /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boards, err := h.svc.ListBoards(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, boards)
}

// GetByID godoc
// @Summary   Board snapshot with ordered columns and cards
// @Tags      Boards
// @Security  BearerAuth
// @Produce   json
// @Param     id   path      string  true  "Board ID"
// @Success   200  {object}  service.BoardSnapshot
// @Failure   404  {object}  ErrorResponse
// @Router    /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	snap, err := h.svc.GetBoard(c.Request.Context(), accountID, boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *BoardHandler) Update(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	var req service.UpdateBoard
	if !bindJSON(c, &req) {
		return
	}
	req.BoardID = boardID

	board, err := h.svc.UpdateBoard(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}

	if err := h.svc.DeleteBoard(c.Request.Context(), accountID, boardID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activity godoc
// @Summary   Activity feed, newest first
// @Tags      Boards
// @Security  BearerAuth
// @Produce   json
// @Param     id     path   string  true   "Board ID"
// @Param     limit  query  int     false  "Page size"
// @Success   200    {array}  model.Activity
// @Router    /boards/{id}/activity [get]
func (h *BoardHandler) Activity(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	feed, err := h.svc.ListActivity(c.Request.Context(), accountID, boardID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}
