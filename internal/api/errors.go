package api

import (
	"errors"
	"net/http"

	"github.com/discussion-engine-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// errorBody is the JSON error envelope
type errorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []models.FieldError `json:"fields,omitempty"`
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateReview):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidRating), errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Infrastructure errors are logged and hidden from the client.
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)
	body := errorBody{Code: models.ErrorCode(err)}

	var de *models.DomainError
	switch {
	case status == http.StatusInternalServerError:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		body.Message = "internal server error"
	case errors.Is(err, models.ErrUnauthenticated):
		body.Message = "please sign in"
	case errors.As(err, &de):
		body.Message = de.Message
		body.Fields = de.Fields
	default:
		body.Message = err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

// badRequest renders a validation error for a malformed request
func badRequest(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errorBody{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Fields:  []models.FieldError{{Field: field, Message: message}},
	}})
}
