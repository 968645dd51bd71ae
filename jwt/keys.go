package jwt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// KeyPaths locates PEM encoded key material on disk.
type KeyPaths struct {
	Public  string
	Private string
}

// readKeyFile checks existence before reading so a missing file surfaces as
// ErrKeyNotFound rather than a generic I/O error.
func readKeyFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at path %s", ErrKeyNotFound, path)
		}
		return nil, fmt.Errorf("stat key %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}
	return data, nil
}

func parsePrivateKey(kind keyKind, pem []byte) (any, error) {
	var (
		key any
		err error
	)
	switch kind {
	case keyRSA:
		key, err = gjwt.ParseRSAPrivateKeyFromPEM(pem)
	case keyECDSA:
		key, err = gjwt.ParseECPrivateKeyFromPEM(pem)
	default:
		return nil, ErrInvalidKey
	}
	if err != nil {
		return nil, fmt.Errorf("%w: private key", ErrInvalidKey)
	}
	return key, nil
}

func parsePublicKey(kind keyKind, pem []byte) (any, error) {
	var (
		key any
		err error
	)
	switch kind {
	case keyRSA:
		key, err = gjwt.ParseRSAPublicKeyFromPEM(pem)
	case keyECDSA:
		key, err = gjwt.ParseECPublicKeyFromPEM(pem)
	default:
		return nil, ErrInvalidKey
	}
	if err != nil {
		return nil, fmt.Errorf("%w: public key", ErrInvalidKey)
	}
	return key, nil
}
