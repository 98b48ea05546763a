package middleware

import (
	"net/http"

	"pressroom/internal/logger"
	"pressroom/internal/services"
	helpers "pressroom/internal/utils/helpres"

	"go.uber.org/zap"
)

// RequireAdmin gates the admin subrouter through the authorization
// gateway. Must run after RequireIdentity so the identity is already
// in the context. There is deliberately no role-claim shortcut:
// privilege has exactly one source, the admin registry.
func RequireAdmin(authz *services.AuthzGateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := IdentityFromCtx(r.Context())
			if err := authz.AuthorizeWrite(r.Context(), ident); err != nil {
				logger.WithCtx(r.Context()).Warn("admin access denied",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				helpers.ErrorFrom(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
