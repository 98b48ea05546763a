package middleware

import (
	"context"
	"net/http"
	"time"
)

// WithTimeout bounds every repository call made on behalf of the
// request by a caller-supplied deadline. Expired deadlines surface
// from the repository layer as Timeout errors (504), so no concurrent
// response writing is needed here. Streaming endpoints mount outside
// this middleware.
func WithTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
