// Package requestctx carries the request correlation id through layers that
// must not depend on the HTTP middleware.
package requestctx

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stamps the correlation id onto the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the correlation id, or "" when none was stamped.
func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey).(string)
	return value
}
