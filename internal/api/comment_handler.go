package api

import (
	"net/http"

	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment thread requests
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comments").Logger(),
	}
}

type createCommentRequest struct {
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parent_comment_id"`
	QuotedCommentID *string `json:"quoted_comment_id"`
	QuotedText      *string `json:"quoted_text"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

type voteRequest struct {
	Direction models.Direction `json:"direction"`
}

// CreateItemComment handles POST /v1/items/:id/comments
func (h *CommentHandler) CreateItemComment(c *gin.Context) {
	h.create(c, models.TargetItem)
}

// CreatePageComment handles POST /v1/pages/:id/comments
func (h *CommentHandler) CreatePageComment(c *gin.Context) {
	h.create(c, models.TargetPage)
}

func (h *CommentHandler) create(c *gin.Context, targetType models.TargetType) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}

	comment, err := h.services.Comments.AddComment(c.Request.Context(), &models.CreateCommentInput{
		Target:          models.Target{ID: c.Param("id"), Type: targetType},
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
		QuotedCommentID: req.QuotedCommentID,
		QuotedText:      req.QuotedText,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListItemComments handles GET /v1/items/:id/comments
func (h *CommentHandler) ListItemComments(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := h.services.Comments.GetComments(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListPageComments handles GET /v1/pages/:id/comments
func (h *CommentHandler) ListPageComments(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := h.services.Comments.GetPageComments(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListReplies handles GET /v1/comments/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	replies, err := h.services.Comments.GetReplies(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// EditComment handles PATCH /v1/comments/:id
func (h *CommentHandler) EditComment(c *gin.Context) {
	var req editCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}

	comment, err := h.services.Comments.EditComment(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment handles DELETE /v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	if err := h.services.Comments.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Vote handles POST /v1/comments/:id/vote
func (h *CommentHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}

	result, err := h.services.Votes.VoteComment(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
