package payload

import (
	"maps"
	"slices"

	"github.com/MrEthical07/goJWT/claims"
)

// Factory collects custom claims and turns them into a [Payload].
// It is not safe for concurrent use; build one per operation.
type Factory struct {
	claims  *claims.Set
	factory *claims.Factory
}

// NewFactory returns an empty factory generating default claims with cf.
func NewFactory(cf *claims.Factory) *Factory {
	return &Factory{
		claims:  claims.NewSet(len(claims.Defaults) + 1),
		factory: cf,
	}
}

// AddClaim sets one claim.
func (f *Factory) AddClaim(name string, value any) *Factory {
	f.claims.Add(name, value)
	return f
}

// AddCustomClaims sets every claim in m, in sorted name order.
func (f *Factory) AddCustomClaims(m map[string]any) *Factory {
	for _, name := range slices.Sorted(maps.Keys(m)) {
		f.claims.Add(name, m[name])
	}
	return f
}

// Make generates the default claims, overwriting any custom claim of the
// same name, and returns the payload. Each call mints a new jti and fresh
// timestamps.
func (f *Factory) Make() (*Payload, error) {
	for _, kind := range claims.Defaults {
		v, err := f.factory.Make(kind)
		if err != nil {
			return nil, err
		}
		f.claims.Add(string(kind), v)
	}
	return New(f.claims), nil
}

// Reconstruct returns a payload holding exactly the decoded claims.
// Default claims are not regenerated.
func Reconstruct(decoded map[string]any) *Payload {
	return FromMap(decoded)
}
