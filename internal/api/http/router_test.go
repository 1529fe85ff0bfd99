package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/service"
	"github.com/mnemo-app/mnemo/internal/api/store"
	"github.com/mnemo-app/mnemo/internal/api/store/drivers/sqlite"
	"github.com/mnemo-app/mnemo/pkg/cryptox"
	"github.com/mnemo-app/mnemo/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *Router
	store  store.Store
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	dsn := "file:" + filepath.Join(dir, "test.db") + "?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens := &service.TokenService{Store: st, DefaultAbilities: domain.Abilities{domain.AbilityAll}}
	decks := &service.DeckService{Store: st}

	r := NewRouter("test", st, slog.New(slog.DiscardHandler))
	r.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	r.TokenService = tokens
	r.DeckService = decks
	r.FlashcardService = &service.FlashcardService{Store: st, Decks: decks}
	r.ApplyRoutes()

	return &testEnv{router: r, store: st, tokens: tokens}
}

// tokenFor seeds a user and issues a token with the given abilities, without
// going through the HTTP surface.
func (e *testEnv) tokenFor(t *testing.T, username string, abilities ...string) string {
	t.Helper()

	user, err := e.store.Users().CreateUser(context.Background(), domain.User{
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$dGVzdHNhbHQ$dGVzdGhhc2g",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	issued, err := e.tokens.Create(context.Background(), user.ID, "test", abilities, nil)
	require.NoError(t, err)
	return issued.Secret
}

type envelope struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Pagination *httpx.PageMeta   `json:"pagination"`
	Errors     map[string]string `json:"errors"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec, out := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "created", out.Status)
	require.NotContains(t, string(out.Data), "password")

	t.Run("duplicate username", func(t *testing.T) {
		rec, out := env.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"username": "alice", "password": "another pass",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, out.Errors, "username")
	})

	t.Run("login issues usable token", func(t *testing.T) {
		rec, out := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"username": "alice", "password": "correct horse",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var issued struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &issued))
		require.NotEmpty(t, issued.Token)

		rec, _ = env.do(t, http.MethodGet, "/v1/decks", issued.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password reads like unknown user", func(t *testing.T) {
		rec1, out1 := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"username": "alice", "password": "wrong",
		})
		rec2, out2 := env.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
			"username": "nobody", "password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec1.Code)
		require.Equal(t, rec1.Code, rec2.Code)
		require.Equal(t, out1.Status, out2.Status)
		require.Equal(t, out1.Message, out2.Message)
	})
}

func TestUnauthenticatedRequestsAreUniform(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]func(req *http.Request){
		"no credentials":    func(req *http.Request) {},
		"malformed bearer":  func(req *http.Request) { req.Header.Set("Authorization", "Token abc") },
		"unknown bearer":    func(req *http.Request) { req.Header.Set("Authorization", "Bearer nonsense") },
		"unknown x-api-key": func(req *http.Request) { req.Header.Set("X-API-Key", "nonsense") },
	}

	var bodies []envelope
	for name, decorate := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/decks", nil)
			decorate(req)

			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)

			var out envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			bodies = append(bodies, out)
		})
	}

	for _, out := range bodies[1:] {
		require.Equal(t, bodies[0].Status, out.Status)
		require.Equal(t, bodies[0].Message, out.Message)
	}
}

func TestTokenLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	secret := env.tokenFor(t, "alice", "*")

	rec, out := env.do(t, http.MethodPost, "/v1/tokens", secret, map[string]any{
		"name": "ci", "abilities": []string{"read"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The creation payload is flat: the plaintext lives under the token key
	// next to the record fields, and the digest is never serialized.
	var created map[string]any
	require.NoError(t, json.Unmarshal(out.Data, &created))
	plaintext, ok := created["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, plaintext)
	require.Contains(t, created, "name")
	require.Contains(t, created, "abilities")
	require.Contains(t, created, "expires_at")
	require.NotContains(t, created, "secret_hash")
	tokenID := int64(created["id"].(float64))

	t.Run("listing never exposes secrets", func(t *testing.T) {
		rec, out := env.do(t, http.MethodGet, "/v1/tokens", secret, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, string(out.Data), plaintext)
		require.NotContains(t, string(out.Data), "secret_hash")
	})

	t.Run("revoked token stops working", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/v1/decks", plaintext, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = env.do(t, http.MethodDelete, "/v1/tokens/"+pathID(tokenID), secret, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = env.do(t, http.MethodGet, "/v1/decks", plaintext, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid body is a validation error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/tokens", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+secret)
		recorder := httptest.NewRecorder()
		env.router.ServeHTTP(recorder, req)
		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestAbilityEnforcement(t *testing.T) {
	env := newTestEnv(t)
	readOnly := env.tokenFor(t, "reader", "read")
	full := env.tokenFor(t, "owner", "*")

	t.Run("read-only token can read", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/v1/decks", readOnly, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("read-only token cannot write", func(t *testing.T) {
		rec, out := env.do(t, http.MethodPost, "/v1/decks", readOnly, map[string]any{"title": "nope"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "forbidden", out.Status)
	})

	t.Run("wildcard token can do everything", func(t *testing.T) {
		rec, out := env.do(t, http.MethodPost, "/v1/decks", full, map[string]any{"title": "mine"})
		require.Equal(t, http.StatusCreated, rec.Code)

		var deck struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &deck))

		rec, _ = env.do(t, http.MethodDelete, "/v1/decks/"+pathID(deck.ID), full, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("expired-token sweep is admin only", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodDelete, "/v1/tokens/expired", readOnly, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec, _ = env.do(t, http.MethodDelete, "/v1/tokens/expired", full, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDeckOwnershipOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	alice := env.tokenFor(t, "alice", "*")
	bob := env.tokenFor(t, "bob", "*")

	_, out := env.do(t, http.MethodPost, "/v1/decks", alice, map[string]any{
		"title": "Public", "is_public": true,
	})
	var public struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &public))

	_, out = env.do(t, http.MethodPost, "/v1/decks", alice, map[string]any{"title": "Private"})
	var private struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &private))

	t.Run("stranger cannot see a private deck", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodGet, "/v1/decks/"+pathID(private.ID), bob, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("stranger cannot modify a public deck", func(t *testing.T) {
		rec, _ := env.do(t, http.MethodPut, "/v1/decks/"+pathID(public.ID), bob, map[string]any{
			"title": "hijacked", "is_public": true,
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("cross-deck flashcard path is not found", func(t *testing.T) {
		_, out := env.do(t, http.MethodPost, "/v1/decks/"+pathID(private.ID)+"/flashcards", alice, map[string]any{
			"front": "q", "back": "a",
		})
		var card struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(out.Data, &card))

		path := "/v1/decks/" + pathID(public.ID) + "/flashcards/" + pathID(card.ID)
		rec, _ := env.do(t, http.MethodGet, path, alice, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPaginationEnvelope(t *testing.T) {
	env := newTestEnv(t)
	alice := env.tokenFor(t, "alice", "*")

	for _, title := range []string{"One", "Two", "Three"} {
		rec, _ := env.do(t, http.MethodPost, "/v1/decks", alice, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, out := env.do(t, http.MethodGet, "/v1/decks?per_page=2&page=2", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, out.Pagination)
	require.Equal(t, int64(2), out.Pagination.CurrentPage)
	require.Equal(t, int64(2), out.Pagination.PerPage)
	require.Equal(t, int64(3), out.Pagination.Total)
	require.Equal(t, int64(2), out.Pagination.LastPage)
	require.False(t, out.Pagination.HasMorePages)

	var decks []json.RawMessage
	require.NoError(t, json.Unmarshal(out.Data, &decks))
	require.Len(t, decks, 1)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func pathID(id int64) string {
	return strconv.FormatInt(id, 10)
}
