package common

import "context"

// correlationIDKey is the context key for the per-request correlation id.
type correlationIDKey struct{}

// WithCorrelationID returns a new context carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts the correlation id from ctx, if present.
func GetCorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey{}).(string)
	return id, ok && id != ""
}
