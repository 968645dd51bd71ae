package goJWT

import (
	"errors"

	"github.com/MrEthical07/goJWT/blacklist"
	"github.com/MrEthical07/goJWT/claims"
	"github.com/MrEthical07/goJWT/jwt"
	"github.com/MrEthical07/goJWT/token"
)

var (
	// ErrTokenBlacklisted is returned by Verify for a revoked token.
	ErrTokenBlacklisted = errors.New("token is blacklisted")
	// ErrBlacklistDisabled is returned by Invalidate when revocation is off.
	ErrBlacklistDisabled = blacklist.ErrDisabled
	// ErrNilSubject is returned by Issue for a nil subject or an empty identifier.
	ErrNilSubject = errors.New("subject is nil or has no identifier")
	// ErrMissingToken is returned when the request carries no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidTTL is returned by Validate for a non-positive TTL.
	ErrInvalidTTL = errors.New("ttl must be > 0 minutes")
	// ErrInvalidBlacklistCache is returned by Validate when the blacklist is
	// enabled without a usable cache segment.
	ErrInvalidBlacklistCache = errors.New("invalid blacklist cache configuration")
	// ErrBuilderUsed is returned by a second Build call.
	ErrBuilderUsed = errors.New("builder already used")
)

// Re-exported from the owning packages so callers can match on one import.
var (
	ErrMalformedToken       = token.ErrMalformed
	ErrTokenInvalid         = jwt.ErrInvalidToken
	ErrTokenExpired         = jwt.ErrTokenExpired
	ErrUnsupportedAlgorithm = jwt.ErrUnsupportedAlgorithm
	ErrMissingSecret        = jwt.ErrMissingSecret
	ErrMissingKeyPair       = jwt.ErrMissingKeyPair
	ErrKeyNotFound          = jwt.ErrKeyNotFound
	ErrInvalidKey           = jwt.ErrInvalidKey
	ErrEmptyPayload         = jwt.ErrEmptyPayload
	ErrEmptyToken           = jwt.ErrEmptyToken
	ErrUnresolvableClaim    = claims.ErrUnresolvableClaim
	ErrStoreUnavailable     = blacklist.ErrStoreUnavailable
	ErrMissingIdentifier    = blacklist.ErrMissingIdentifier
	ErrBlacklistFull        = blacklist.ErrFull
)
