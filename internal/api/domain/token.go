package domain

import "time"

// Token models a stored API credential. The plaintext secret is never stored;
// SecretHash is its SHA-256 fingerprint and is the lookup key during
// authentication.
type Token struct {
	ID         int64
	UserID     int64
	Name       string
	SecretHash string
	Abilities  Abilities
	ExpiresAt  *time.Time // nil means the token never expires
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token's expiry has passed at the given instant.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

// IssuedToken pairs a freshly created token record with its plaintext secret.
// The secret is shown to the caller exactly once and is unrecoverable after
// that.
type IssuedToken struct {
	Token  Token
	Secret string
}
