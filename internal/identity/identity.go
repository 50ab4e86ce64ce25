// Package identity carries the authenticated caller principal through a
// context.Context. The transport layer resolves the principal once per call
// and stores it with WithPrincipal; the ledger engine reads it back with
// FromContext and never looks at tokens or transport metadata itself.
package identity

import (
	"context"
	"strings"
)

type ctxKey struct{}

// WithPrincipal returns a child context carrying principal as the caller.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, ctxKey{}, principal)
}

// FromContext returns the caller principal stored in ctx. The boolean is
// false when no principal was injected or it is blank.
func FromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(ctxKey{}).(string)
	if !ok || strings.TrimSpace(p) == "" {
		return "", false
	}
	return p, true
}
