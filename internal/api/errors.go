package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/arthurrguedes/backend-empresrimos/internal/api/shared"
	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/service"
	"github.com/arthurrguedes/backend-empresrimos/internal/service/auth"
	"github.com/arthurrguedes/backend-empresrimos/internal/store"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrLoanNotFound),
		errors.Is(err, service.ErrReservationNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrReservationNotActive),
		errors.Is(err, store.ErrLoanAlreadyReturned),
		errors.Is(err, store.ErrLoanExistsForReservation):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Collaborating services
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		validationErr  *domain.ValidationError
		validationErrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	case errors.Is(err, domain.ErrForbidden):
		return "Insufficient permissions"

	case errors.Is(err, store.ErrLoanNotFound):
		return "Loan not found"

	case errors.Is(err, service.ErrReservationNotFound):
		return "Reservation not found"

	case errors.Is(err, service.ErrReservationNotActive):
		return "Reservation is not active"

	case errors.Is(err, store.ErrLoanAlreadyReturned):
		return "Loan has already been returned"

	case errors.Is(err, store.ErrLoanExistsForReservation):
		return "A loan already exists for this reservation"

	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request"

	case errors.Is(err, service.ErrReservationUpdateFailed):
		return "Reservation service could not confirm the pickup"

	case errors.Is(err, service.ErrUpstreamUnauthorized):
		return "Reservation service rejected the credentials"

	case errors.Is(err, service.ErrUpstream):
		return "A dependent service is unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a client-safe message
// naming the first failing field.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	field := fe.Field()
	if field == "" {
		return "Validation error"
	}
	return fmt.Sprintf("Invalid %s: %s", lowerFirst(field), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gt", "gte", "min":
		return "too small"
	case "lt", "lte", "max":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// HandleAPIError maps err to a status code and writes a sanitized response,
// logging the full error. A non-empty fallback replaces the generic message
// for internal errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
