package api

import (
	"net/http"

	"github.com/arthurrguedes/backend-empresrimos/internal/api/shared"
	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireCaller returns the authenticated caller or writes a 401.
func requireCaller(w http.ResponseWriter, r *http.Request) (shared.Caller, bool) {
	caller, ok := shared.GetCaller(r.Context())
	if !ok || caller.UserID <= 0 {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return shared.Caller{}, false
	}
	return caller, true
}

// handleCallerAndPathUUID extracts both the caller and a UUID path parameter,
// writing an error response if either is missing.
func handleCallerAndPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (shared.Caller, uuid.UUID, bool) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return shared.Caller{}, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return shared.Caller{}, uuid.Nil, false
	}

	return caller, id, true
}
