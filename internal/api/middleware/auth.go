package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arthurrguedes/backend-empresrimos/internal/api/shared"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/logger"
	"github.com/arthurrguedes/backend-empresrimos/internal/redact"
	"github.com/arthurrguedes/backend-empresrimos/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
// Requests without a valid bearer token are rejected; there is no
// anonymous or default identity.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the caller identity to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingSubject),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContext(r.Context()).Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication error")
			}
			return
		}

		ctx := shared.WithCaller(r.Context(), shared.Caller{
			UserID:     claims.UserID,
			Role:       claims.Role,
			Credential: token,
		})
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireLoanManager rejects authenticated callers whose role may not use
// administrative loan routes. It must run after Authenticate.
func RequireLoanManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := shared.GetCaller(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !caller.CanManageLoans() {
			shared.RespondWithError(w, r, http.StatusForbidden, "Insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}
