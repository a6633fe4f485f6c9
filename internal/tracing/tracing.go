// Package tracing carries the per-request correlation id through a
// context.Context so every stage of a request can stamp it on logs and
// responses.
package tracing

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewID returns a fresh trace id. Uniqueness is probabilistic, which is
// sufficient for correlation.
func NewID() string {
	return uuid.NewString()
}

// WithTraceID returns a child context carrying the trace id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the trace id attached to ctx, or "" when none is set.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
