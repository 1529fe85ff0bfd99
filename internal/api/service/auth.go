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
	UsernameMinLen = 3
	UsernameMaxLen = 64
	PasswordMinLen = 8
)

// AuthService handles account registration and password login. Login issues
// an API token so the API is usable without any out-of-band bootstrap.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService

	// LoginTokenTTL bounds tokens issued through Login. Zero means they never
	// expire.
	LoginTokenTTL time.Duration
}

// Register creates a new account. A taken username is a validation failure
// on the username field, not a distinct error kind.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	fields := ValidationError{}

	switch {
	case username == "":
		fields["username"] = "username is required"
	case len(username) < UsernameMinLen || len(username) > UsernameMaxLen:
		fields["username"] = "username must be between 3 and 64 characters"
	case !validUsername(username):
		fields["username"] = "username may only contain letters, digits, '.', '_' and '-'"
	}

	if len(password) < PasswordMinLen {
		fields["password"] = "password must be at least 8 characters"
	}

	if len(fields) > 0 {
		return domain.User{}, fields
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ValidationError{"username": "username is already taken"}
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the password and issues a fresh API token with the default
// abilities. Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.IssuedToken, error) {
	user, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.IssuedToken{}, ErrUnauthorized
		}
		return domain.IssuedToken{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		return domain.IssuedToken{}, ErrUnauthorized
	}

	var expiresAt *time.Time
	if s.LoginTokenTTL > 0 {
		t := time.Now().UTC().Add(s.LoginTokenTTL)
		expiresAt = &t
	}

	return s.Tokens.Create(ctx, user.ID, "login", nil, expiresAt)
}

func validUsername(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
