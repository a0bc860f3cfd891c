package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/discussion-engine-api/internal/models"
)

// ValidateCommentInput validates the fields of a new comment
func ValidateCommentInput(in *models.CreateCommentInput) []models.FieldError {
	var errors []models.FieldError

	if in.Target.Type == "" {
		errors = append(errors, models.FieldError{Field: "target_type", Message: "target_type is required"})
	} else if !models.ValidTargetTypes[in.Target.Type] {
		errors = append(errors, models.FieldError{
			Field:   "target_type",
			Message: "invalid target_type, must be one of: item, page",
			Value:   string(in.Target.Type),
		})
	}

	if strings.TrimSpace(in.Target.ID) == "" {
		errors = append(errors, models.FieldError{Field: "target_id", Message: "target_id is required"})
	}

	errors = append(errors, ValidateContent("content", in.Content)...)

	if in.ParentCommentID != nil && strings.TrimSpace(*in.ParentCommentID) == "" {
		errors = append(errors, models.FieldError{Field: "parent_comment_id", Message: "parent_comment_id must not be empty"})
	}

	if in.QuotedCommentID != nil && strings.TrimSpace(*in.QuotedCommentID) == "" {
		errors = append(errors, models.FieldError{Field: "quoted_comment_id", Message: "quoted_comment_id must not be empty"})
	}

	if in.QuotedText != nil {
		if in.QuotedCommentID == nil {
			errors = append(errors, models.FieldError{
				Field:   "quoted_text",
				Message: "quoted_text requires quoted_comment_id",
			})
		} else if utf8.RuneCountInString(*in.QuotedText) > models.MaxContentLength {
			errors = append(errors, models.FieldError{
				Field:   "quoted_text",
				Message: fmt.Sprintf("quoted_text must be at most %d characters", models.MaxContentLength),
			})
		}
	}

	return errors
}

// ValidateContent checks that a body is non-empty after trimming and within the length limit
func ValidateContent(field, content string) []models.FieldError {
	if strings.TrimSpace(content) == "" {
		return []models.FieldError{{Field: field, Message: field + " is required"}}
	}
	if n := utf8.RuneCountInString(content); n > models.MaxContentLength {
		return []models.FieldError{{
			Field:   field,
			Message: fmt.Sprintf("%s must be at most %d characters", field, models.MaxContentLength),
			Value:   n,
		}}
	}
	return nil
}

// ValidateReviewInput validates title and content of a review. The rating is
// checked separately by ValidateRating because it maps to its own error kind.
func ValidateReviewInput(in *models.ReviewInput) []models.FieldError {
	var errors []models.FieldError

	if n := utf8.RuneCountInString(in.Title); n > models.MaxTitleLength {
		errors = append(errors, models.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", models.MaxTitleLength),
			Value:   n,
		})
	}

	errors = append(errors, ValidateContent("content", in.Content)...)
	return errors
}

// ValidateRating reports whether rating is an integer in [MinRating, MaxRating]
func ValidateRating(rating int) bool {
	return rating >= models.MinRating && rating <= models.MaxRating
}

// ValidateDirection validates a vote direction
func ValidateDirection(direction models.Direction) []models.FieldError {
	if direction == "" {
		return []models.FieldError{{Field: "direction", Message: "direction is required"}}
	}
	if !models.ValidDirections[direction] {
		return []models.FieldError{{
			Field:   "direction",
			Message: "invalid direction, must be one of: up, down",
			Value:   string(direction),
		}}
	}
	return nil
}
