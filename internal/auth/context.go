package auth

import (
	"context"

	"github.com/money-manager/money-manager/internal/shared"
)

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// UserID returns the authenticated user id or shared.ErrUnauthorized.
func UserID(ctx context.Context) (int64, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return 0, shared.ErrUnauthorized
	}
	return id.UserID, nil
}
