package middleware

import (
	"errors"
	"net/http"

	goJWT "github.com/MrEthical07/goJWT"
)

// Revoke returns a handler that invalidates the request's bearer token.
// It answers 204 on success, 501 when the blacklist is disabled, 401 for
// an unusable token and 503 when the store fails.
func Revoke(engine *goJWT.Engine, forever bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			http.Error(w, "revocation disabled", http.StatusNotImplemented)
			return
		}
		err := engine.Invalidate(withClientIP(r), goJWT.FromHTTP(r), forever)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, goJWT.ErrBlacklistDisabled):
			http.Error(w, "revocation disabled", http.StatusNotImplemented)
		case errors.Is(err, goJWT.ErrStoreUnavailable):
			http.Error(w, "revocation unavailable", http.StatusServiceUnavailable)
		default:
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}
	})
}
