// Package token wraps bearer-token strings and validates their structural
// shape. It never inspects claim content.
package token

import (
	"errors"
	"strings"
)

// ErrMalformed is returned for strings that are neither signed, unsigned
// nor encrypted shaped.
var ErrMalformed = errors.New("malformed token")

const (
	jwsSegments = 3
	jweSegments = 5
)

// Token is an immutable, structurally valid bearer token.
type Token struct {
	value    string
	segments int
	lastPart string
}

// New wraps value, failing fast when its shape is invalid.
func New(value string) (Token, error) {
	parts := strings.Split(value, ".")
	t := Token{value: value, segments: len(parts), lastPart: parts[len(parts)-1]}
	if !t.IsSigned() && !t.IsEncrypted() {
		return Token{}, ErrMalformed
	}
	return t, nil
}

// IsSigned reports a three-segment (JWS) token. Tokens with an empty
// signature segment count as signed; see IsUnsigned.
func (t Token) IsSigned() bool {
	return t.segments == jwsSegments
}

// IsUnsigned reports a three-segment token with an empty signature, as
// produced by the "none" algorithm.
func (t Token) IsUnsigned() bool {
	return t.IsSigned() && t.lastPart == ""
}

// IsEncrypted reports a five-segment (JWE) token.
func (t Token) IsEncrypted() bool {
	return t.segments == jweSegments
}

// Plain returns the original string.
func (t Token) Plain() string {
	return t.value
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return t.value
}
