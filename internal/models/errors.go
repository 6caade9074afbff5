package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers map each sentinel to one HTTP status.
var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrNotFound              = errors.New("not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Sentinel errors for entity lookups.
var (
	ErrClaimNotFound      = fmt.Errorf("claim %w", ErrNotFound)
	ErrSupplementNotFound = fmt.Errorf("supplement %w", ErrNotFound)
	ErrPartyNotFound      = fmt.Errorf("party %w", ErrNotFound)
)

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return NewValidationError(field, "exceeds maximum length of %d", maxLen)
}

// TransitionError is returned when a status change is not allowed from the current status.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s cannot move from %q to %q", e.Entity, e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
