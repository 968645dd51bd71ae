package jwt

import (
	"fmt"
	"strings"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// Algorithm identifies a JWS signing algorithm.
type Algorithm string

const (
	// None produces unsigned tokens with an empty signature segment.
	None Algorithm = "none"

	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"

	RS256 Algorithm = "RS256"
	RS384 Algorithm = "RS384"
	RS512 Algorithm = "RS512"

	ES256 Algorithm = "ES256"
	ES384 Algorithm = "ES384"
	ES512 Algorithm = "ES512"

	PS256 Algorithm = "PS256"
	PS384 Algorithm = "PS384"
	PS512 Algorithm = "PS512"
)

// Family groups algorithms by the key material they need.
type Family int

const (
	// FamilyUnknown marks an algorithm outside the supported set.
	FamilyUnknown Family = iota
	// FamilyNone signs nothing but still requires a configured secret.
	FamilyNone
	// FamilySymmetric signs and verifies with one shared secret.
	FamilySymmetric
	// FamilyAsymmetric signs with a private key and verifies with its public key.
	FamilyAsymmetric
)

func (f Family) String() string {
	switch f {
	case FamilyNone:
		return "none"
	case FamilySymmetric:
		return "symmetric"
	case FamilyAsymmetric:
		return "asymmetric"
	default:
		return "unknown"
	}
}

type keyKind int

const (
	keyNone keyKind = iota
	keyHMAC
	keyRSA
	keyECDSA
)

type algorithmSpec struct {
	family Family
	key    keyKind
	method gjwt.SigningMethod
}

var algorithms = map[Algorithm]algorithmSpec{
	None:  {family: FamilyNone, key: keyNone, method: gjwt.SigningMethodNone},
	HS256: {family: FamilySymmetric, key: keyHMAC, method: gjwt.SigningMethodHS256},
	HS384: {family: FamilySymmetric, key: keyHMAC, method: gjwt.SigningMethodHS384},
	HS512: {family: FamilySymmetric, key: keyHMAC, method: gjwt.SigningMethodHS512},
	RS256: {family: FamilyAsymmetric, key: keyRSA, method: gjwt.SigningMethodRS256},
	RS384: {family: FamilyAsymmetric, key: keyRSA, method: gjwt.SigningMethodRS384},
	RS512: {family: FamilyAsymmetric, key: keyRSA, method: gjwt.SigningMethodRS512},
	ES256: {family: FamilyAsymmetric, key: keyECDSA, method: gjwt.SigningMethodES256},
	ES384: {family: FamilyAsymmetric, key: keyECDSA, method: gjwt.SigningMethodES384},
	ES512: {family: FamilyAsymmetric, key: keyECDSA, method: gjwt.SigningMethodES512},
	PS256: {family: FamilyAsymmetric, key: keyRSA, method: gjwt.SigningMethodPS256},
	PS384: {family: FamilyAsymmetric, key: keyRSA, method: gjwt.SigningMethodPS384},
	PS512: {family: FamilyAsymmetric, key: keyRSA, method: gjwt.SigningMethodPS512},
}

// SymmetricAlgorithms lists the HMAC algorithms.
func SymmetricAlgorithms() []Algorithm {
	return []Algorithm{HS256, HS384, HS512}
}

// AsymmetricAlgorithms lists the RSA, ECDSA and RSA-PSS algorithms.
func AsymmetricAlgorithms() []Algorithm {
	return []Algorithm{
		RS256, RS384, RS512,
		ES256, ES384, ES512,
		PS256, PS384, PS512,
	}
}

// SupportedAlgorithms lists every accepted algorithm, none first.
func SupportedAlgorithms() []Algorithm {
	out := []Algorithm{None}
	out = append(out, SymmetricAlgorithms()...)
	return append(out, AsymmetricAlgorithms()...)
}

// ParseAlgorithm accepts algorithm names case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(None)) {
		return None, nil
	}
	alg := Algorithm(strings.ToUpper(s))
	if _, ok := algorithms[alg]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
	return alg, nil
}

// Family returns the key family of a.
func (a Algorithm) Family() Family {
	return algorithms[a].family
}

// Supported reports whether a is in the enumerated set.
func (a Algorithm) Supported() bool {
	_, ok := algorithms[a]
	return ok
}

// IsAsymmetric reports whether a needs a key pair.
func (a Algorithm) IsAsymmetric() bool {
	return a.Family() == FamilyAsymmetric
}

func (a Algorithm) String() string {
	return string(a)
}
