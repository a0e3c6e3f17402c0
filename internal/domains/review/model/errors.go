package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeReviewNotFound    = "REV001"
	ErrCodeEditWindowClosed  = "REV002"
	ErrCodeInvalidInput      = "REV003"
	ErrCodeNotOwner          = "REV004"
	ErrCodeExtraInfoNotFound = "REV005"
	ErrCodeExportNotFound    = "REV006"
)

var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrEditWindowClosed  = errors.New("review is no longer editable")
	ErrNotOwner          = errors.New("review belongs to another user")
	ErrExtraInfoNotFound = errors.New("review extra info not found")
	ErrExportNotFound    = errors.New("export not found")
)

// ValidationError is a field-level rejection of a submission: a bad target
// token, a disallowed content type, a missing required rating.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
