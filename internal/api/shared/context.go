// Package shared holds request-scoped context values and the JSON
// request/response helpers used by handlers and middleware.
package shared

import (
	"context"

	"github.com/arthurrguedes/backend-empresrimos/internal/service/auth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// CallerContextKey is the context key for the authenticated caller
	CallerContextKey ContextKey = "caller"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"
)

// Caller is the verified identity behind a request.
type Caller struct {
	UserID int64
	Role   auth.Role
	// Credential is the raw bearer token, forwarded to collaborating services.
	Credential string
}

// CanManageLoans reports whether the caller may use administrative loan routes.
func (c Caller) CanManageLoans() bool {
	return c.Role.CanManageLoans()
}

// WithCaller stores the authenticated caller in the context.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// GetCaller returns the authenticated caller, if any.
func GetCaller(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(CallerContextKey).(Caller)
	return caller, ok
}

// SetTraceID adds a trace ID to the context. The chi request id is reused
// when present so log lines and responses share one identifier.
func SetTraceID(ctx context.Context) context.Context {
	traceID := middleware.GetReqID(ctx)
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
