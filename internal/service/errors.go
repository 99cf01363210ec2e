package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in LoanServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrReservationNotFound indicates the reservation service has no such reservation.
	// API layer should map this to HTTP 404 Not Found.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrReservationNotActive indicates the reservation exists but cannot back a loan.
	// API layer should map this to HTTP 409 Conflict.
	ErrReservationNotActive = errors.New("reservation is not active")

	// ErrUpstream indicates a collaborating service failed or was unreachable.
	// API layer should map this to HTTP 502 Bad Gateway.
	ErrUpstream = errors.New("upstream service failure")

	// ErrUpstreamUnauthorized indicates a collaborating service rejected the forwarded credential.
	ErrUpstreamUnauthorized = fmt.Errorf("%w: credential rejected", ErrUpstream)

	// ErrReservationUpdateFailed indicates the reservation could not be marked
	// concluded; the loan insert was rolled back.
	ErrReservationUpdateFailed = fmt.Errorf("%w: reservation status update failed", ErrUpstream)
)

// LoanServiceError is a custom error type for loan service errors.
type LoanServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for LoanServiceError.
func (e *LoanServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loan service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("loan service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LoanServiceError) Unwrap() error {
	return e.Err
}

// NewLoanServiceError creates a new LoanServiceError.
func NewLoanServiceError(operation, message string, err error) *LoanServiceError {
	return &LoanServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
