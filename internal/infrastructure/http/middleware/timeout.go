package middleware

import (
	"context"
	"net/http"
	"time"
)

// ExtendedTimeout bounds the request context with timeout and pushes the
// connection write deadline to match, so backup and restore routes can outlive
// the server-wide WriteTimeout.
func ExtendedTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			rc := http.NewResponseController(w)
			_ = rc.SetWriteDeadline(time.Now().Add(timeout))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
