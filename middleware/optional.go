package middleware

import (
	"context"
	"net/http"

	goJWT "github.com/MrEthical07/goJWT"
)

// Optional attaches the payload when the request carries a valid token and
// otherwise passes the request through untouched.
func Optional(engine *goJWT.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := withClientIP(r)
			if p, err := engine.Verify(ctx, goJWT.FromHTTP(r)); err == nil {
				ctx = context.WithValue(ctx, payloadContextKey{}, p)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
