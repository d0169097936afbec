// Package identity carries the caller identity through request contexts.
// Authentication is not implemented; the user id is whatever the transport
// layer stamps in, defaulting to "anonymous".
package identity

import "context"

type contextKey int

const (
	correlationIDKey contextKey = iota
	userIDKey
)

// AnonymousUser is the stub identity used when no caller id is present.
const AnonymousUser = "anonymous"

// WithRequestInfo stores correlation and user ids in the context.
func WithRequestInfo(ctx context.Context, correlationID, userID string) context.Context {
	ctx = context.WithValue(ctx, correlationIDKey, correlationID)
	return context.WithValue(ctx, userIDKey, userID)
}

// RequestInfo extracts correlation and user ids from the context.
func RequestInfo(ctx context.Context) (correlationID, userID string) {
	correlationID, _ = ctx.Value(correlationIDKey).(string)
	userID, _ = ctx.Value(userIDKey).(string)
	if userID == "" {
		userID = AnonymousUser
	}
	return correlationID, userID
}
