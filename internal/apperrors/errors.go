package apperrors

import "errors"

// Sentinel errors shared by every layer. Handlers map them to HTTP
// status codes in exactly one place (helpers.ErrorFrom).
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage unavailable")
	ErrRegistry     = errors.New("admin registry unavailable")
	ErrTimeout      = errors.New("operation timed out")
)
