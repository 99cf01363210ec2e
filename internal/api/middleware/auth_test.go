package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arthurrguedes/backend-empresrimos/internal/api/shared"
	"github.com/arthurrguedes/backend-empresrimos/internal/config"
	"github.com/arthurrguedes/backend-empresrimos/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedUserID int64
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: 42, Role: auth.RoleUser},
			expectedStatus: http.StatusOK,
			expectedUserID: 42,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer valid-token",
			claims:         &auth.Claims{UserID: 42, Role: auth.RoleUser},
			expectedStatus: http.StatusOK,
			expectedUserID: 42,
		},
		{
			name:           "missing auth header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty bearer token",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token without user id",
			authHeader:     "Bearer anonymous-token",
			validateErr:    auth.ErrMissingSubject,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation error fails closed",
			authHeader:     "Bearer weird-token",
			validateErr:    errors.New("something odd"),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jwtSvc := auth.NewMockJWTService().WithClaims(tc.claims).WithValidationError(tc.validateErr)
			mw := NewAuthMiddleware(jwtSvc)

			var (
				reached bool
				caller  shared.Caller
			)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				caller, _ = shared.GetCaller(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/loans/mine", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedStatus == http.StatusOK {
				require.True(t, reached)
				assert.Equal(t, tc.expectedUserID, caller.UserID)
				assert.Equal(t, "valid-token", caller.Credential)
			} else {
				assert.False(t, reached, "handler must not run for rejected requests")
			}
		})
	}
}

func TestAuthMiddleware_WithRealTokens(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "integration-secret-that-is-32-chars!",
		TokenLifetimeMinutes: 5,
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), 9, auth.RoleAdmin)
	require.NoError(t, err)

	var got shared.Caller
	handler := NewAuthMiddleware(svc).Authenticate(RequireLoanManager(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = shared.GetCaller(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})))

	req := httptest.NewRequest(http.MethodGet, "/loans", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, auth.RoleAdmin, got.Role)
}

func TestRequireLoanManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		caller *shared.Caller
		want   int
	}{
		{name: "no caller", caller: nil, want: http.StatusUnauthorized},
		{name: "plain user", caller: &shared.Caller{UserID: 1, Role: auth.RoleUser}, want: http.StatusForbidden},
		{name: "librarian", caller: &shared.Caller{UserID: 2, Role: auth.RoleLibrarian}, want: http.StatusOK},
		{name: "admin", caller: &shared.Caller{UserID: 3, Role: auth.RoleAdmin}, want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/loans/x", nil)
			if tc.caller != nil {
				req = req.WithContext(shared.WithCaller(req.Context(), *tc.caller))
			}
			rec := httptest.NewRecorder()

			RequireLoanManager(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
