package middleware

import (
	"context"
	"net"
	"net/http"

	goJWT "github.com/MrEthical07/goJWT"
	"github.com/MrEthical07/goJWT/payload"
)

type payloadContextKey struct{}

// PayloadFromContext returns the payload stored by Guard or Optional.
func PayloadFromContext(ctx context.Context) (*payload.Payload, bool) {
	p, ok := ctx.Value(payloadContextKey{}).(*payload.Payload)
	return p, ok
}

// Guard rejects requests whose bearer token fails Engine.Verify with 401
// and passes the verified payload to next through the request context.
func Guard(engine *goJWT.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := withClientIP(r)
			p, err := engine.Verify(ctx, goJWT.FromHTTP(r))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, payloadContextKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withClientIP(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return goJWT.WithClientIP(r.Context(), host)
}
