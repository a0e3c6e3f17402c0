package model

import "errors"

// Error codes
const (
	ErrCodeFilterNotFound = "FLT001"
	ErrCodeInvalidInput   = "FLT002"
)

var (
	ErrFilterNotFound = errors.New("content filter not found")
)
