package auth

import (
	"context"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

type callerKey struct{}

// WithCaller returns a copy of ctx carrying the resolved caller identity.
func WithCaller(ctx context.Context, caller ledger.Identity) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller identity, if one was resolved.
func CallerFromContext(ctx context.Context) (ledger.Identity, bool) {
	caller, ok := ctx.Value(callerKey{}).(ledger.Identity)
	if !ok || caller.IsZero() {
		return "", false
	}
	return caller, true
}

// RequireCaller is CallerFromContext for operations that act on behalf of
// the caller.
func RequireCaller(ctx context.Context) (ledger.Identity, error) {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		return "", ledger.ErrUnauthenticated
	}
	return caller, nil
}
