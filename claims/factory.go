package claims

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/MrEthical07/goJWT/clock"
)

// Kind names a standard claim the factory knows how to generate.
type Kind string

const (
	// ID is the unique token identifier, used as the revocation key.
	ID Kind = "jti"
	// Issuer is the origin of the server that minted the token.
	Issuer Kind = "iss"
	// IssuedAt is the creation time in epoch seconds.
	IssuedAt Kind = "iat"
	// NotBefore is the activation time in epoch seconds.
	NotBefore Kind = "nbf"
	// Expiration is the expiry time in epoch seconds.
	Expiration Kind = "exp"
	// Subject carries the identifier of the principal the token is issued for.
	// It is supplied by the caller, never generated.
	Subject Kind = "sub"
)

// IDLength is the fixed length of generated jti values.
const IDLength = 32

// idEntropy is the number of random bytes drawn per jti; hex-encoded it
// yields more than IDLength characters.
const idEntropy = 48

// Defaults lists the claims added to every freshly issued payload, in
// generation order.
var Defaults = []Kind{ID, Issuer, IssuedAt, NotBefore, Expiration}

// ErrUnresolvableClaim is returned for claim kinds absent from the table.
var ErrUnresolvableClaim = errors.New("cannot resolve claim")

// Origin exposes the issuing server's root URL.
type Origin interface {
	Root() string
}

// FactoryConfig configures a [Factory].
type FactoryConfig struct {
	// TTL is the token lifetime in minutes.
	TTL int
	// Clock defaults to clock.System.
	Clock clock.Source
	// Random defaults to crypto/rand.Reader.
	Random io.Reader
}

// Factory produces values for the standard claims.
type Factory struct {
	origin Origin
	ttl    int
	clock  clock.Source
	random io.Reader
	table  map[Kind]func() (any, error)
}

// NewFactory returns a factory bound to one request origin.
func NewFactory(origin Origin, cfg FactoryConfig) *Factory {
	f := &Factory{
		origin: origin,
		ttl:    cfg.TTL,
		clock:  cfg.Clock,
		random: cfg.Random,
	}
	if f.clock == nil {
		f.clock = clock.System
	}
	if f.random == nil {
		f.random = rand.Reader
	}
	f.table = map[Kind]func() (any, error){
		ID:         f.id,
		Issuer:     f.issuer,
		IssuedAt:   f.now,
		NotBefore:  f.now,
		Expiration: f.expiration,
	}
	return f
}

// Make returns the value for kind, or ErrUnresolvableClaim.
func (f *Factory) Make(kind Kind) (any, error) {
	gen, ok := f.table[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnresolvableClaim, string(kind))
	}
	return gen()
}

// Has reports whether the factory can generate kind.
func (f *Factory) Has(kind Kind) bool {
	_, ok := f.table[kind]
	return ok
}

func (f *Factory) id() (any, error) {
	buf := make([]byte, idEntropy)
	if _, err := io.ReadFull(f.random, buf); err != nil {
		return nil, fmt.Errorf("generate jti: %w", err)
	}
	return hex.EncodeToString(buf)[:IDLength], nil
}

func (f *Factory) issuer() (any, error) {
	if f.origin == nil {
		return "", nil
	}
	return f.origin.Root(), nil
}

func (f *Factory) now() (any, error) {
	return clock.Now(f.clock).Seconds(), nil
}

func (f *Factory) expiration() (any, error) {
	return clock.Now(f.clock).AddMinutes(f.ttl).Seconds(), nil
}
