// Package auth verifies the bearer tokens presented by callers. Tokens are
// issued by the user service and signed with a shared HMAC secret.
package auth

import (
	"context"
	"time"
)

// Role is the caller's role as asserted by the token.
type Role string

// Known roles. Unknown or missing roles are treated as RoleUser.
const (
	RoleUser      Role = "user"
	RoleLibrarian Role = "librarian"
	RoleAdmin     Role = "admin"
)

// CanManageLoans reports whether the role may use administrative loan operations.
func (r Role) CanManageLoans() bool {
	return r == RoleAdmin || r == RoleLibrarian
}

// ParseRole normalizes a role claim.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleLibrarian:
		return Role(s)
	default:
		return RoleUser
	}
}

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	// Production tokens come from the user service; this exists for tooling and tests.
	GenerateToken(ctx context.Context, userID int64, role Role) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns the claims containing user information if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the caller identity carried by a validated token.
type Claims struct {
	// UserID is the numeric identifier of the user the token was issued for.
	UserID int64
	Role   Role

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
