// Package pkce produces the RFC 7636 verifier/challenge pairs used by the
// authorization-code login flows. The verifier is only ever sent in the
// token exchange; the authorization request carries the challenge.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
)

// verifierLength is the entropy in bytes before encoding.
const verifierLength = 32

// GenerateVerifier returns a cryptographically random URL-safe verifier.
func GenerateVerifier() (string, error) {
	b := make([]byte, verifierLength)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "[pkce.GenerateVerifier] rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DeriveChallenge returns the S256 challenge for a verifier: the unpadded
// URL-safe base64 of its SHA-256 digest. Deterministic, pure.
func DeriveChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
