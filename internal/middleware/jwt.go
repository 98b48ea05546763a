package middleware

import (
	"net/http"
	"strings"

	"pressroom/internal/logger"
	"pressroom/internal/models"
	"pressroom/internal/reqctx"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// parseBearer extracts the identity from the Authorization header.
// Returns nil when the header is absent or the token does not verify.
// The token carries only identity, never privilege; privilege is
// resolved against the admin registry by the authorization gateway.
func parseBearer(r *http.Request, secret string) *models.Identity {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	userID, ok1 := claims["user_id"].(string)
	email, ok2 := claims["email"].(string)
	if !ok1 || !ok2 || userID == "" || email == "" {
		return nil
	}
	return &models.Identity{ID: userID, Email: email}
}

// OptionalIdentity attaches the identity when a valid token is
// present and lets the request through either way. Used on public read
// routes where admins see more rows than anonymous readers.
func OptionalIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ident := parseBearer(r, secret); ident != nil {
				ctx := withIdentity(r.Context(), ident)
				ctx = reqctx.WithUserID(ctx, ident.ID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireIdentity rejects requests without a valid bearer token.
func RequireIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			ident := parseBearer(r, secret)
			if ident == nil {
				logger.WithCtx(r.Context()).Warn("missing or invalid access token",
					zap.String("path", r.URL.Path))
				http.Error(w, "missing or invalid access token", http.StatusUnauthorized)
				return
			}

			ctx := withIdentity(r.Context(), ident)
			ctx = reqctx.WithUserID(ctx, ident.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
