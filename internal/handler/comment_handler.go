package handler

import (
	"net/http"

	"collabkanban/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.Service
}

func NewCommentHandler(svc *service.Service) *CommentHandler {
	return &CommentHandler{svc: svc}
}

func (h *CommentHandler) List(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), accountID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) Create(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id", "card")
	if !ok {
		return
	}
	var req service.CreateComment
	if !bindJSON(c, &req) {
		return
	}
	req.ItemID = itemID

	comment, err := h.svc.CreateComment(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update godoc
// @Summary      Edit a comment
// @Description  Only the author, and only within the edit window
// @Tags         Comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Comment ID"
// @Param        request  body      service.UpdateComment  true  "Content"
// @Success      200      {object}  model.Comment
// @Failure      409      {object}  ErrorResponse
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id", "comment")
	if !ok {
		return
	}
	var req service.UpdateComment
	if !bindJSON(c, &req) {
		return
	}
	req.CommentID = commentID

	comment, err := h.svc.UpdateComment(c.Request.Context(), accountID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	accountID, ok := currentAccount(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "id", "comment")
	if !ok {
		return
	}

	if err := h.svc.DeleteComment(c.Request.Context(), accountID, service.DeleteComment{CommentID: commentID}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
