// Package payload assembles the claims of a token into a read-only
// [Payload], either freshly minted by a [Factory] or reconstructed from a
// decoded token.
package payload

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/MrEthical07/goJWT/claims"
	"github.com/MrEthical07/goJWT/clock"
)

// Payload is the claim set of one token. Accessors never mutate it; the
// exported maps and sets are copies.
type Payload struct {
	claims *claims.Set
}

// New wraps set. The set is copied so later changes to it do not leak in.
func New(set *claims.Set) *Payload {
	return &Payload{claims: set.Clone()}
}

// FromMap builds a payload from a plain map. Claims are added in sorted
// name order.
func FromMap(m map[string]any) *Payload {
	set := claims.NewSet(len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		set.Add(k, m[k])
	}
	return &Payload{claims: set}
}

// Get returns the claim stored under name.
func (p *Payload) Get(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return p.claims.Get(name)
}

// Has reports whether the claim is present.
func (p *Payload) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Missing is the negation of Has.
func (p *Payload) Missing(name string) bool {
	return !p.Has(name)
}

// IsEmpty reports whether the payload carries no claims.
func (p *Payload) IsEmpty() bool {
	return p == nil || p.claims.Len() == 0
}

// ToMap exports the claims as a plain map.
func (p *Payload) ToMap() map[string]any {
	if p == nil {
		return map[string]any{}
	}
	return p.claims.ToMap()
}

// Claims returns a copy of the underlying ordered set.
func (p *Payload) Claims() *claims.Set {
	if p == nil {
		return claims.NewSet(0)
	}
	return p.claims.Clone()
}

// MarshalJSON encodes the payload in claim insertion order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return p.claims.MarshalJSON()
}

// String returns the claim as a string. Non-string values are formatted
// with fmt, so numeric identifiers still yield a usable key.
func (p *Payload) String(name string) (string, bool) {
	v, ok := p.Get(name)
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// NumericDate interprets the claim as epoch seconds.
func (p *Payload) NumericDate(name string) (time.Time, bool) {
	v, ok := p.Get(name)
	if !ok {
		return time.Time{}, false
	}
	switch n := claims.Normalize(v).(type) {
	case int64:
		return clock.FromSeconds(n).Time(), true
	case float64:
		return time.UnixMilli(int64(n * 1000)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// ID returns the jti claim.
func (p *Payload) ID() (string, bool) {
	return p.String(string(claims.ID))
}

// Subject returns the sub claim.
func (p *Payload) Subject() (string, bool) {
	return p.String(string(claims.Subject))
}

// Issuer returns the iss claim.
func (p *Payload) Issuer() (string, bool) {
	return p.String(string(claims.Issuer))
}

// ExpiresAt returns the exp claim.
func (p *Payload) ExpiresAt() (time.Time, bool) {
	return p.NumericDate(string(claims.Expiration))
}
