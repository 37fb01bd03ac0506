// Package cryptoutil provides the secure random and hashing primitives
// used by the PKCE generator and the state manager.
package cryptoutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
)

// RandomBytes returns n cryptographically secure random bytes. An
// unavailable platform RNG is a surfaced error, never silently replaced
// with a weaker source.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "[RandomBytes] rand.Read")
	}
	return b, nil
}

// SHA256 returns the SHA-256 digest of b.
func SHA256(b []byte) [32]byte {
	return sha256.Sum256(b)
}

// Base64URLEncode encodes b using the URL-safe alphabet with padding
// stripped (RFC 4648 §5).
func Base64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
