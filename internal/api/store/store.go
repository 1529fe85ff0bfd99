package store

import (
	"context"
	"errors"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement it. Sub-repositories keep concerns tidy and independently
// mockable.
type Store interface {
	Users() Users
	Tokens() Tokens
	Decks() Decks
	Flashcards() Flashcards

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and rolling
	// back on error. This is the recommended way to run multi-step operations
	// that must be atomic (e.g. the token issuance ceiling check).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user and returns it with its assigned id.
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
}

type Tokens interface {
	// CreateToken inserts a new token record and returns it with its assigned
	// id. The record carries only the secret's digest, never the plaintext.
	CreateToken(ctx context.Context, t domain.Token) (domain.Token, error)

	// GetTokenByHash returns the token whose stored digest equals hash.
	GetTokenByHash(ctx context.Context, hash string) (domain.Token, error)

	// GetTokenByID returns a token regardless of owner; the service layer
	// decides between forbidden and not-found.
	GetTokenByID(ctx context.Context, id int64) (domain.Token, error)

	// ListTokensByUser returns all of a user's tokens, newest first.
	ListTokensByUser(ctx context.Context, userID int64) ([]domain.Token, error)

	// CountActiveTokens counts a user's tokens that have no expiry or an
	// expiry after now. Run inside a transaction together with CreateToken to
	// enforce the issuance ceiling.
	CountActiveTokens(ctx context.Context, userID int64, now time.Time) (int64, error)

	// TouchToken sets last_used_at. Unconditional set; last write wins.
	TouchToken(ctx context.Context, id int64, usedAt time.Time) error

	// DeleteToken permanently removes a token.
	DeleteToken(ctx context.Context, id int64) error

	// DeleteExpiredTokens purges every token whose expiry has passed and
	// returns the number of rows removed.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type Decks interface {
	CreateDeck(ctx context.Context, d domain.Deck) (domain.Deck, error)
	GetDeckByID(ctx context.Context, id int64) (domain.Deck, error)

	// ListDecksByUser returns a page of the user's decks (newest first) plus
	// the total count for pagination metadata.
	ListDecksByUser(ctx context.Context, userID int64, limit, offset int64) ([]domain.Deck, int64, error)

	// ListPublicDecks returns a page of decks flagged public, across users.
	ListPublicDecks(ctx context.Context, limit, offset int64) ([]domain.Deck, int64, error)

	UpdateDeck(ctx context.Context, d domain.Deck) error

	// DeleteDeck cascades to flashcards (per schema).
	DeleteDeck(ctx context.Context, id int64) error
}

type Flashcards interface {
	CreateFlashcard(ctx context.Context, c domain.Flashcard) (domain.Flashcard, error)

	// GetFlashcard looks a card up by id AND owning deck id. A card paired
	// with a deck that does not contain it is ErrNotFound.
	GetFlashcard(ctx context.Context, deckID, cardID int64) (domain.Flashcard, error)

	ListFlashcardsByDeck(ctx context.Context, deckID int64, limit, offset int64) ([]domain.Flashcard, int64, error)

	UpdateFlashcard(ctx context.Context, c domain.Flashcard) error

	// DeleteFlashcard removes a card, matching both ids like GetFlashcard.
	DeleteFlashcard(ctx context.Context, deckID, cardID int64) error
}
