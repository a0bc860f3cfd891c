package api

import (
	"net/http"

	"github.com/discussion-engine-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles moderation and maintenance requests.
// Authorization is enforced by the services.
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

type bannedWordRequest struct {
	Word string `json:"word"`
}

// DeleteReview handles DELETE /v1/admin/reviews/:id
func (h *AdminHandler) DeleteReview(c *gin.Context) {
	if err := h.services.Reviews.AdminDeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MigrateLegacyComments handles POST /v1/admin/migrations/legacy-comments
func (h *AdminHandler) MigrateLegacyComments(c *gin.Context) {
	result, err := h.services.Migration.MigrateLegacyComments(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMigrationJob handles GET /v1/admin/migrations/:job_id
func (h *AdminHandler) GetMigrationJob(c *gin.Context) {
	job, err := h.services.Migration.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListBannedWords handles GET /v1/admin/banned-words
func (h *AdminHandler) ListBannedWords(c *gin.Context) {
	words, err := h.services.BannedWords.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"words": words})
}

// AddBannedWord handles POST /v1/admin/banned-words
func (h *AdminHandler) AddBannedWord(c *gin.Context) {
	var req bannedWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "body", "invalid JSON body")
		return
	}

	added, err := h.services.BannedWords.Add(c.Request.Context(), req.Word)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"word": req.Word, "added": added})
}

// RemoveBannedWord handles DELETE /v1/admin/banned-words/:word
func (h *AdminHandler) RemoveBannedWord(c *gin.Context) {
	removed, err := h.services.BannedWords.Remove(c.Request.Context(), c.Param("word"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": errorBody{Code: "NOT_FOUND", Message: "word is not banned"}})
		return
	}
	c.Status(http.StatusNoContent)
}
