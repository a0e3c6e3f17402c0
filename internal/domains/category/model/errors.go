package model

import "errors"

// Error codes
const (
	ErrCodeCategoryNotFound = "CAT001"
	ErrCodeChoiceNotFound   = "CAT002"
	ErrCodeInvalidInput     = "CAT003"
)

var (
	ErrCategoryNotFound = errors.New("rating category not found")
	ErrChoiceNotFound   = errors.New("rating choice not found")
)
