package goJWT

import (
	"net/http"
	"strings"
)

// Request is the part of an incoming request the engine needs.
type Request interface {
	// BearerToken returns the raw token, or "" when absent.
	BearerToken() string
	// Root returns the server root URL, used as the iss claim.
	Root() string
}

// Subject identifies the principal a token is issued for.
type Subject interface {
	SubjectID() string
}

// SubjectID is a Subject that is its own identifier.
type SubjectID string

// SubjectID implements [Subject].
func (s SubjectID) SubjectID() string { return string(s) }

// StaticRequest is a Request with fixed values, for CLIs and tests.
type StaticRequest struct {
	Token   string
	RootURL string
}

// BearerToken implements [Request].
func (r StaticRequest) BearerToken() string { return r.Token }

// Root implements [Request].
func (r StaticRequest) Root() string { return r.RootURL }

type httpRequest struct {
	r *http.Request
}

// FromHTTP adapts an *http.Request. The bearer token comes from the
// Authorization header; the root is scheme://host, honouring
// X-Forwarded-Proto.
func FromHTTP(r *http.Request) Request {
	return httpRequest{r: r}
}

func (h httpRequest) BearerToken() string {
	return bearerToken(h.r.Header.Get("Authorization"))
}

func (h httpRequest) Root() string {
	scheme := "http"
	if h.r.TLS != nil {
		scheme = "https"
	}
	if proto := h.r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + h.r.Host
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
