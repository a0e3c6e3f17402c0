package model

import "errors"

// Error codes
const (
	ErrCodeInvalidToken       = "CTY001"
	ErrCodeUnknownContentType = "CTY002"
	ErrCodeObjectNotFound     = "CTY003"
)

var (
	// ErrInvalidToken is the parse failure for malformed target tokens.
	// Surfaced to the caller immediately, never silently defaulted.
	ErrInvalidToken = errors.New("target token does not match type:<id>-id:<id>")

	ErrUnknownContentType = errors.New("content type is not registered")
	ErrObjectNotFound     = errors.New("target object not found")
)
