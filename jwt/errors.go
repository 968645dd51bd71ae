package jwt

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned when the configured algorithm is outside the supported set.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrMissingSecret is returned when a symmetric or none algorithm has no
	// secret configured.
	ErrMissingSecret = errors.New("algorithm requires a secret")
	// ErrMissingKeyPair is returned when an asymmetric algorithm lacks a public or private key path.
	ErrMissingKeyPair = errors.New("asymmetric algorithm requires a public and private key path")
	// ErrInvalidLeeway is returned for leeway values outside [0, 2m].
	ErrInvalidLeeway = errors.New("invalid leeway configuration")
	// ErrKeyNotFound is returned when a key file does not exist.
	ErrKeyNotFound = errors.New("key not found")
	// ErrInvalidKey is returned when key material cannot be parsed or used.
	ErrInvalidKey = errors.New("invalid key material")
	// ErrEmptyPayload is returned when encoding a nil or empty payload.
	ErrEmptyPayload = errors.New("cannot encode empty payload")
	// ErrEmptyToken is returned when decoding an empty token string.
	ErrEmptyToken = errors.New("cannot decode empty token")
	// ErrInvalidToken covers every signature, algorithm and structural failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for tokens whose exp claim has passed.
	ErrTokenExpired = errors.New("token expired")
)
