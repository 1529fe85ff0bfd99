package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/store"
	"github.com/mnemo-app/mnemo/pkg/cryptox"
	"github.com/mnemo-app/mnemo/pkg/slogx"
)

const (
	// TokenNameMaxLen bounds the human-readable token name.
	TokenNameMaxLen = 255

	// DefaultMaxTokensPerUser is the issuance ceiling when none is configured.
	DefaultMaxTokensPerUser = 10
)

// tokenNameForbidden are characters rejected in token names to keep them
// inert wherever they get rendered.
const tokenNameForbidden = `<>"'`

type TokenService struct {
	Store store.Store

	// MaxTokensPerUser caps live (non-expired) tokens per user.
	MaxTokensPerUser int64

	// DefaultAbilities are granted when a creation request names none.
	DefaultAbilities domain.Abilities
}

func (s *TokenService) ceiling() int64 {
	if s.MaxTokensPerUser > 0 {
		return s.MaxTokensPerUser
	}
	return DefaultMaxTokensPerUser
}

// Create validates the request, enforces the per-user issuance ceiling and
// stores a new token record. The returned IssuedToken carries the plaintext
// secret; this is the only time it is ever available.
//
// The ceiling check and the insert run in one store transaction. sqlite
// serialises writers, so two racing creates cannot both observe a count below
// the ceiling and commit.
func (s *TokenService) Create(
	ctx context.Context,
	userID int64,
	name string,
	abilities []string,
	expiresAt *time.Time,
) (domain.IssuedToken, error) {
	now := time.Now().UTC()

	name = strings.TrimSpace(name)
	fields := ValidationError{}

	switch {
	case name == "":
		fields["name"] = "name is required"
	case len(name) > TokenNameMaxLen:
		fields["name"] = "name must be at most 255 characters"
	case strings.ContainsAny(name, tokenNameForbidden):
		fields["name"] = "name must not contain angle brackets or quotes"
	}

	parsed := s.DefaultAbilities
	if len(abilities) > 0 {
		parsed = make(domain.Abilities, 0, len(abilities))
		for _, raw := range abilities {
			a, ok := domain.ParseAbility(raw)
			if !ok {
				fields["abilities"] = "abilities must be one of: read, write, delete, admin, *"
				break
			}
			parsed = append(parsed, a)
		}
	}
	if len(parsed) == 0 && fields["abilities"] == "" {
		fields["abilities"] = "at least one ability is required"
	}

	if expiresAt != nil && !expiresAt.After(now) {
		fields["expires_at"] = "expires_at must be in the future"
	}

	if len(fields) > 0 {
		return domain.IssuedToken{}, fields
	}

	secret, err := cryptox.GenerateSecret()
	if err != nil {
		return domain.IssuedToken{}, err
	}

	token := domain.Token{
		UserID:     userID,
		Name:       name,
		SecretHash: cryptox.FingerprintSecret(secret),
		Abilities:  parsed,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		count, err := tx.Tokens().CountActiveTokens(ctx, userID, now)
		if err != nil {
			return err
		}
		if count >= s.ceiling() {
			return ErrTokenLimit
		}

		token, err = tx.Tokens().CreateToken(ctx, token)
		return err
	})
	if err != nil {
		return domain.IssuedToken{}, err
	}

	return domain.IssuedToken{Token: token, Secret: secret}, nil
}

// Authenticate resolves a presented secret into an AuthContext. Every failure
// mode (empty, unknown, expired) returns the same ErrUnauthorized; callers
// must not learn which one occurred.
//
// A successful match updates last_used_at before returning, even if the
// caller's business operation subsequently fails.
func (s *TokenService) Authenticate(ctx context.Context, secret string) (domain.AuthContext, error) {
	if secret == "" {
		return domain.AuthContext{}, ErrUnauthorized
	}

	now := time.Now().UTC()

	token, err := s.Store.Tokens().GetTokenByHash(ctx, cryptox.FingerprintSecret(secret))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthContext{}, ErrUnauthorized
		}
		return domain.AuthContext{}, err
	}

	if token.Expired(now) {
		return domain.AuthContext{}, ErrUnauthorized
	}

	if err := s.Store.Tokens().TouchToken(ctx, token.ID, now); err != nil {
		// Authentication already succeeded; losing one timestamp update is
		// tolerable (last write wins anyway).
		slogx.FromContext(ctx).Warn("failed to update token last_used_at",
			"token_id", token.ID, "err", err)
	}
	token.LastUsedAt = &now

	user, err := s.Store.Users().GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.AuthContext{}, ErrUnauthorized
		}
		return domain.AuthContext{}, err
	}

	return domain.AuthContext{User: user, Token: token}, nil
}

// List returns all of the caller's tokens, newest first. Representations
// built from these must never include the secret hash.
func (s *TokenService) List(ctx context.Context, userID int64) ([]domain.Token, error) {
	return s.Store.Tokens().ListTokensByUser(ctx, userID)
}

// Delete removes one of the caller's tokens permanently. A token owned by
// someone else is ErrForbidden; a token that does not exist is ErrNotFound.
// The two are distinct here, unlike authentication failures.
func (s *TokenService) Delete(ctx context.Context, userID, tokenID int64) error {
	token, err := s.Store.Tokens().GetTokenByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if token.UserID != userID {
		return ErrForbidden
	}

	return s.Store.Tokens().DeleteToken(ctx, tokenID)
}

// CleanupExpired permanently removes every token whose expiry has passed and
// reports how many were purged. Maintenance path, not part of request
// handling.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.Store.Tokens().DeleteExpiredTokens(ctx, time.Now().UTC())
}
