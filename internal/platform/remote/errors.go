package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the remote resource does not exist (404).
	ErrNotFound = errors.New("remote resource not found")

	// ErrUnauthorized is returned when the remote service rejects the forwarded credential (401/403).
	ErrUnauthorized = errors.New("remote service rejected credential")

	// ErrUnavailable is returned when the remote service cannot be reached.
	ErrUnavailable = errors.New("remote service unavailable")

	// ErrInvalidResponse is returned when a response cannot be decoded or lacks required fields.
	ErrInvalidResponse = errors.New("invalid remote response")
)

// StatusError reports a non-2xx response that has no more specific mapping.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

// Error implements the error interface for StatusError.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Temporary reports whether the failure is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func statusError(method, path string, code int) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s %s: %w (status %d)", method, path, ErrUnauthorized, code)
	default:
		return &StatusError{Method: method, Path: path, StatusCode: code}
	}
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Temporary()
}
