package blacklist

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned by mutating operations on a disabled registry.
	ErrDisabled = errors.New("blacklist disabled")
	// ErrMissingIdentifier is returned when a payload carries no jti claim.
	ErrMissingIdentifier = errors.New("payload has no jti claim")
	// ErrStoreUnavailable wraps backend failures.
	ErrStoreUnavailable = errors.New("blacklist store unavailable")
	// ErrNilStore is returned when an enabled registry has no store.
	ErrNilStore = errors.New("blacklist store is nil")
	// ErrUnknownProvider is returned by NewStore for an unrecognised provider.
	ErrUnknownProvider = errors.New("unknown blacklist cache provider")
	// ErrRejected is returned when the memory store declines a write.
	ErrRejected = errors.New("blacklist entry rejected by cache")
	// ErrFull is returned when the memory store is at capacity. It wraps
	// ErrStoreUnavailable.
	ErrFull = fmt.Errorf("%w: memory blacklist full", ErrStoreUnavailable)
)
