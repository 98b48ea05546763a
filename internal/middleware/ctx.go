package middleware

import (
	"context"

	"pressroom/internal/models"
)

type ctxKey string

const (
	ContextIdentity  ctxKey = "identity"
	ContextRequestID ctxKey = "request_id"
)

// IdentityFromCtx returns the authenticated identity, or nil for an
// anonymous caller.
func IdentityFromCtx(ctx context.Context) *models.Identity {
	ident, _ := ctx.Value(ContextIdentity).(*models.Identity)
	return ident
}

func withIdentity(ctx context.Context, ident *models.Identity) context.Context {
	return context.WithValue(ctx, ContextIdentity, ident)
}
