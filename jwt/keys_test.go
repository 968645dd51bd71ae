package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeRSAKeyPair writes a fresh RSA key pair as PEM files and returns their paths.
func writeRSAKeyPair(t testing.TB) KeyPaths {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return writePair(t, "rsa",
		&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)},
		&pem.Block{Type: "PUBLIC KEY", Bytes: pub},
	)
}

// writeECKeyPair writes a fresh ECDSA key pair on curve as PEM files.
func writeECKeyPair(t testing.TB, curve elliptic.Curve) KeyPaths {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)

	priv, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return writePair(t, "ec",
		&pem.Block{Type: "EC PRIVATE KEY", Bytes: priv},
		&pem.Block{Type: "PUBLIC KEY", Bytes: pub},
	)
}

func writePair(t testing.TB, name string, priv, pub *pem.Block) KeyPaths {
	t.Helper()
	dir := t.TempDir()
	paths := KeyPaths{
		Private: filepath.Join(dir, name),
		Public:  filepath.Join(dir, name+".pub"),
	}
	require.NoError(t, os.WriteFile(paths.Private, pem.EncodeToMemory(priv), 0o600))
	require.NoError(t, os.WriteFile(paths.Public, pem.EncodeToMemory(pub), 0o644))
	return paths
}
