package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidLoanStatus is returned when a loan status is not one of the known values.
	ErrInvalidLoanStatus = errors.New("invalid loan status")

	// ErrLoanAlreadyReturned is returned when a return is attempted on a loan
	// that has already been returned. Returns are never repeated.
	ErrLoanAlreadyReturned = errors.New("loan already returned")

	// ErrUnauthorized is returned when the caller identity is missing or unverified.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrForbidden is returned when a verified caller lacks the role an operation requires.
	ErrForbidden = errors.New("forbidden operation")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError. When err is nil the error
// wraps ErrValidation so callers can always match it with errors.Is.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
