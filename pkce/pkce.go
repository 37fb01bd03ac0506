// Package pkce implements Proof Key for Code Exchange (RFC 7636) for the
// authorization code flow.
package pkce

import (
	"github.com/pkg/errors"

	"github.com/adminconsole/go-auth-client/internal/cryptoutil"
)

const verifierByteLength = 32

// CodeMethodS256 is the only challenge method this client emits.
const CodeMethodS256 = "S256"

// Params holds the code verifier and its derived challenge for one
// login attempt. A verifier is single-use and must never be reused
// across attempts.
type Params struct {
	Verifier  string
	Challenge string
	Method    string
}

// GenerateCodeVerifier produces a fresh code verifier: 32 random bytes,
// base64url-encoded without padding (43 characters, RFC 7636 §4.1).
func GenerateCodeVerifier() (string, error) {
	b, err := cryptoutil.RandomBytes(verifierByteLength)
	if err != nil {
		return "", errors.Wrap(err, "[GenerateCodeVerifier] RandomBytes")
	}
	return cryptoutil.Base64URLEncode(b), nil
}

// GenerateCodeChallenge derives the S256 challenge for a verifier:
// BASE64URL(SHA256(ASCII(verifier))) per RFC 7636 §4.2.
func GenerateCodeChallenge(verifier string) string {
	hash := cryptoutil.SHA256([]byte(verifier))
	return cryptoutil.Base64URLEncode(hash[:])
}

// New generates a verifier/challenge pair.
func New() (*Params, error) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		return nil, err
	}
	return &Params{
		Verifier:  verifier,
		Challenge: GenerateCodeChallenge(verifier),
		Method:    CodeMethodS256,
	}, nil
}
