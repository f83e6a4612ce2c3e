package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/valentine-service/internal/errors"
	"github.com/SAP-F-2025/valentine-service/internal/link"
	"github.com/SAP-F-2025/valentine-service/internal/payload"
	"github.com/SAP-F-2025/valentine-service/internal/ratelimit"
	"github.com/SAP-F-2025/valentine-service/internal/view"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")

	// Link errors
	ErrInvalidPayload           = payload.ErrInvalidPayload
	ErrMissingField             = link.ErrMissingField
	ErrIncompleteQuizDefinition = link.ErrIncompleteQuizDefinition
	ErrClipboardUnavailable     = view.ErrClipboardUnavailable
	ErrRateLimited              = ratelimit.ErrRateLimited

	// Quiz errors
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrNoHint             = errors.New("question has no hint")
	ErrNoQuiz             = errors.New("link carries no quiz")

	// Import errors
	ErrImportFormat = errors.New("unsupported or malformed quiz file")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// RateLimitError carries when the client may retry.
type RateLimitError struct {
	Limit      int   `json:"limit"`
	RetryAfter int64 `json:"retry_after_seconds"`
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d requests exceeded, retry in %ds", e.Limit, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuestionOutOfRange) ||
		errors.Is(err, ErrNoHint) ||
		errors.Is(err, ErrNoQuiz)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrIncompleteQuizDefinition) ||
		errors.Is(err, ErrImportFormat) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsInvalidPayload checks if error comes from a token that failed to decode
func IsInvalidPayload(err error) bool {
	return errors.Is(err, ErrInvalidPayload)
}

// IsRateLimited checks if error represents an exhausted rate limit
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
