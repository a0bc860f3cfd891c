package models

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the discussion engine. Callers match them with errors.Is.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrDuplicateReview  = errors.New("duplicate review")
	ErrInvalidRating    = errors.New("invalid rating")
	ErrInvalidReference = errors.New("invalid reference")
)

// FieldError describes a single rejected input field
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// DomainError carries a user-facing message on top of one of the error kinds above
type DomainError struct {
	Kind    error
	Message string
	Fields  []FieldError
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

// NewDomainError builds a DomainError of the given kind
func NewDomainError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

// NewValidationError builds a ValidationError listing the offending fields
func NewValidationError(fields []FieldError) *DomainError {
	msg := "invalid input"
	if len(fields) > 0 {
		msg = fields[0].Field + ": " + fields[0].Message
	}
	return &DomainError{Kind: ErrValidation, Message: msg, Fields: fields}
}

// ErrorCode returns the stable wire code for an error kind
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicateReview):
		return "DUPLICATE_REVIEW"
	case errors.Is(err, ErrInvalidRating):
		return "INVALID_RATING"
	case errors.Is(err, ErrInvalidReference):
		return "INVALID_REFERENCE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
