// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// CallerKey is the context key for the caller identity.
// Exported so it can be used consistently across packages.
type CallerKey struct{}

// Caller identifies the customer interaction a request belongs to.
type Caller struct {
	SessionID   string
	PhoneNumber string
}

// WithCaller returns a context with the caller embedded.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, CallerKey{}, caller)
}

// CallerFromContext returns the caller from context, or the zero Caller if not set.
func CallerFromContext(ctx context.Context) Caller {
	if v, ok := ctx.Value(CallerKey{}).(Caller); ok {
		return v
	}
	return Caller{}
}
