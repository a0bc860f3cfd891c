package api

import (
	"encoding/json"
	"net/http"

	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReviewHandler handles review requests
type ReviewHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(services *service.Services, log zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		services: services,
		log:      log.With().Str("handler", "reviews").Logger(),
	}
}

// reviewRequest keeps the rating as a raw number so fractional or missing
// ratings are reported as invalid ratings instead of malformed JSON.
type reviewRequest struct {
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Rating  json.Number `json:"rating"`
}

func (r *reviewRequest) input() (*models.ReviewInput, error) {
	rating, err := r.Rating.Int64()
	if err != nil {
		return nil, models.NewDomainError(models.ErrInvalidRating, "rating must be an integer between 1 and 10")
	}
	return &models.ReviewInput{Title: r.Title, Content: r.Content, Rating: int(rating)}, nil
}

func (h *ReviewHandler) bind(c *gin.Context) (*models.ReviewInput, bool) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return nil, false
	}
	in, err := req.input()
	if err != nil {
		writeError(c, h.log, err)
		return nil, false
	}
	return in, true
}

// CreateReview handles POST /v1/items/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	review, err := h.services.Reviews.AddReview(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// EditReview handles PATCH /v1/reviews/:id
func (h *ReviewHandler) EditReview(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}

	review, err := h.services.Reviews.EditReview(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.services.Reviews.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListReviews handles GET /v1/items/:id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	page, limit, ok := pageParams(c)
	if !ok {
		return
	}

	result, err := h.services.Reviews.GetReviews(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Summary handles GET /v1/items/:id/reviews/summary
func (h *ReviewHandler) Summary(c *gin.Context) {
	summary, err := h.services.Reviews.RatingSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Vote handles POST /v1/reviews/:id/vote
func (h *ReviewHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}

	result, err := h.services.Votes.VoteReview(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
