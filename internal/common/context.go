package common

import "context"

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyUserKey   contextKey = "user_key"
)

// AnonymousUserKey is used for guard bookkeeping when no user identifier
// accompanies a request.
const AnonymousUserKey = "anonymous"

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithUserKey adds the rate-limit user key to the context
func WithUserKey(ctx context.Context, userKey string) context.Context {
	return context.WithValue(ctx, ContextKeyUserKey, userKey)
}

// UserKeyFromContext extracts the user key from context, defaulting to
// AnonymousUserKey.
func UserKeyFromContext(ctx context.Context) string {
	if userKey, ok := ctx.Value(ContextKeyUserKey).(string); ok && userKey != "" {
		return userKey
	}
	return AnonymousUserKey
}
