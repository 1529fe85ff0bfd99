package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// SecretSize is the entropy of a generated API token secret in bytes.
// 32 bytes gives 256 bits of entropy, 43 chars base64url.
const SecretSize = 32

// GenerateSecret creates a cryptographically secure random token secret,
// returned as a base64url-encoded string (URL-safe, no padding).
func GenerateSecret() (string, error) {
	buf := make([]byte, SecretSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintSecret returns a deterministic SHA-256 fingerprint of a secret.
// Only the fingerprint is stored; authentication looks records up by it with
// a plain equality compare, so the plaintext is unrecoverable from state.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
