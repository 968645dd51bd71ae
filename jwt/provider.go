package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goJWT/clock"
	"github.com/MrEthical07/goJWT/payload"
	gjwt "github.com/golang-jwt/jwt/v5"
)

const maxLeeway = 2 * time.Minute

// Config selects the algorithm and its key material.
//
// Config instances are intended to be configured during initialization and then treated as immutable.
type Config struct {
	Algorithm Algorithm
	// Secret signs and verifies symmetric tokens.
	Secret string
	// Keys locate the PEM key pair for asymmetric algorithms.
	Keys KeyPaths
	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration
	// Clock defaults to clock.System.
	Clock clock.Source
}

// Validate checks that the algorithm is supported and that the key material
// it requires is configured. It does not touch the filesystem.
func (c Config) Validate() error {
	spec, ok := algorithms[c.Algorithm]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(c.Algorithm))
	}
	if c.Leeway < 0 || c.Leeway > maxLeeway {
		return ErrInvalidLeeway
	}
	switch spec.family {
	case FamilySymmetric, FamilyNone:
		if c.Secret == "" {
			return ErrMissingSecret
		}
	case FamilyAsymmetric:
		if c.Keys.Private == "" || c.Keys.Public == "" {
			return ErrMissingKeyPair
		}
	}
	return nil
}

// Provider translates between payloads and signed token strings for one
// configured algorithm.
type Provider interface {
	// Algorithm returns the configured algorithm.
	Algorithm() Algorithm
	// SigningKey returns the secret, or the private key file contents.
	SigningKey(ctx context.Context) ([]byte, error)
	// VerificationKey returns the secret, or the public key file contents.
	VerificationKey(ctx context.Context) ([]byte, error)
	// Encode signs the payload.
	Encode(ctx context.Context, p *payload.Payload) (string, error)
	// Decode verifies the token against the configured algorithm only and
	// returns its payload.
	Decode(ctx context.Context, token string) (*payload.Payload, error)
}

// NewProvider validates cfg and returns the implementation for its
// algorithm family.
func NewProvider(cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System
	}
	spec := algorithms[cfg.Algorithm]
	c := codec{
		alg:    cfg.Algorithm,
		spec:   spec,
		parser: newParser(cfg, spec.method),
	}

	switch spec.family {
	case FamilySymmetric:
		return &SymmetricProvider{codec: c, secret: []byte(cfg.Secret)}, nil
	case FamilyAsymmetric:
		return &AsymmetricProvider{codec: c, keys: cfg.Keys}, nil
	default:
		return &UnsecuredProvider{codec: c, secret: []byte(cfg.Secret)}, nil
	}
}

func newParser(cfg Config, method gjwt.SigningMethod) *gjwt.Parser {
	options := []gjwt.ParserOption{
		gjwt.WithValidMethods([]string{method.Alg()}),
		gjwt.WithJSONNumber(),
		gjwt.WithTimeFunc(cfg.Clock.Now),
	}
	if cfg.Leeway > 0 {
		options = append(options, gjwt.WithLeeway(cfg.Leeway))
	}
	return gjwt.NewParser(options...)
}

// codec holds the encode/decode logic shared by every family; the
// families differ only in where keys come from.
type codec struct {
	alg    Algorithm
	spec   algorithmSpec
	parser *gjwt.Parser
}

func (c codec) Algorithm() Algorithm {
	return c.alg
}

func (c codec) encode(p *payload.Payload, key any) (string, error) {
	if p.IsEmpty() {
		return "", ErrEmptyPayload
	}
	tok := gjwt.NewWithClaims(c.spec.method, gjwt.MapClaims(p.ToMap()))
	signed, err := tok.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: sign with %s", ErrInvalidKey, c.alg)
	}
	return signed, nil
}

func (c codec) decode(raw string, key any) (*payload.Payload, error) {
	decoded := gjwt.MapClaims{}
	_, err := c.parser.ParseWithClaims(raw, decoded, func(t *gjwt.Token) (any, error) {
		if t.Method.Alg() != c.spec.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return key, nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return payload.Reconstruct(decoded), nil
}

// translate maps golang-jwt errors onto this package's sentinels so that
// library error types never reach callers.
func translate(err error) error {
	if errors.Is(err, gjwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrInvalidToken
}

// SymmetricProvider signs with an HMAC secret.
type SymmetricProvider struct {
	codec
	secret []byte
}

// SigningKey returns the shared secret.
func (p *SymmetricProvider) SigningKey(context.Context) ([]byte, error) {
	return p.secret, nil
}

// VerificationKey returns the shared secret.
func (p *SymmetricProvider) VerificationKey(context.Context) ([]byte, error) {
	return p.secret, nil
}

// Encode implements [Provider].
func (p *SymmetricProvider) Encode(ctx context.Context, pl *payload.Payload) (string, error) {
	if pl.IsEmpty() {
		return "", ErrEmptyPayload
	}
	key, err := p.SigningKey(ctx)
	if err != nil {
		return "", err
	}
	return p.encode(pl, key)
}

// Decode implements [Provider].
func (p *SymmetricProvider) Decode(ctx context.Context, raw string) (*payload.Payload, error) {
	if raw == "" {
		return nil, ErrEmptyToken
	}
	key, err := p.VerificationKey(ctx)
	if err != nil {
		return nil, err
	}
	return p.decode(raw, key)
}

// AsymmetricProvider signs with a private key and verifies with the public
// key, both read from disk on every operation.
type AsymmetricProvider struct {
	codec
	keys KeyPaths
}

// SigningKey returns the private key file contents.
func (p *AsymmetricProvider) SigningKey(ctx context.Context) ([]byte, error) {
	return readKeyFile(ctx, p.keys.Private)
}

// VerificationKey returns the public key file contents.
func (p *AsymmetricProvider) VerificationKey(ctx context.Context) ([]byte, error) {
	return readKeyFile(ctx, p.keys.Public)
}

// Encode implements [Provider].
func (p *AsymmetricProvider) Encode(ctx context.Context, pl *payload.Payload) (string, error) {
	if pl.IsEmpty() {
		return "", ErrEmptyPayload
	}
	pem, err := p.SigningKey(ctx)
	if err != nil {
		return "", err
	}
	key, err := parsePrivateKey(p.spec.key, pem)
	if err != nil {
		return "", err
	}
	return p.encode(pl, key)
}

// Decode implements [Provider].
func (p *AsymmetricProvider) Decode(ctx context.Context, raw string) (*payload.Payload, error) {
	if raw == "" {
		return nil, ErrEmptyToken
	}
	pem, err := p.VerificationKey(ctx)
	if err != nil {
		return nil, err
	}
	key, err := parsePublicKey(p.spec.key, pem)
	if err != nil {
		return nil, err
	}
	return p.decode(raw, key)
}

// UnsecuredProvider emits and accepts tokens with alg "none". It exists for
// local development and interoperability tests only.
type UnsecuredProvider struct {
	codec
	secret []byte
}

// SigningKey returns the configured secret, which is not used for signing.
func (p *UnsecuredProvider) SigningKey(context.Context) ([]byte, error) {
	return p.secret, nil
}

// VerificationKey returns the configured secret, which is not used for verification.
func (p *UnsecuredProvider) VerificationKey(context.Context) ([]byte, error) {
	return p.secret, nil
}

// Encode implements [Provider].
func (p *UnsecuredProvider) Encode(_ context.Context, pl *payload.Payload) (string, error) {
	return p.encode(pl, gjwt.UnsafeAllowNoneSignatureType)
}

// Decode implements [Provider].
func (p *UnsecuredProvider) Decode(_ context.Context, raw string) (*payload.Payload, error) {
	if raw == "" {
		return nil, ErrEmptyToken
	}
	return p.decode(raw, gjwt.UnsafeAllowNoneSignatureType)
}
