// ABOUTME: Context propagation for the authenticated identity
// ABOUTME: Provides WithIdentity/FromContext for passing identity through call chains

package session

import (
	"context"
)

// identityKey is the key type for storing an Identity in context.Context.
type identityKey struct{}

// WithIdentity returns a new context with the identity attached.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the identity from the context, reporting false
// if none is present.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
