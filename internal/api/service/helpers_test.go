package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/store"
	"github.com/mnemo-app/mnemo/internal/api/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a throwaway sqlite store with migrations applied.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// newTestUser inserts a user directly; password hashing is exercised in the
// auth tests, not here.
func newTestUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	user, err := st.Users().CreateUser(context.Background(), domain.User{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$dGVzdHNhbHQ$dGVzdGhhc2g",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return user
}

func authFor(t *testing.T, st store.Store, svc *TokenService, user domain.User) domain.AuthContext {
	t.Helper()

	issued, err := svc.Create(context.Background(), user.ID, "test", []string{"*"}, nil)
	require.NoError(t, err)

	auth, err := svc.Authenticate(context.Background(), issued.Secret)
	require.NoError(t, err)
	return auth
}
