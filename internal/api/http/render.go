package http

import (
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
)

// Response representations. Tokens render without their stored fingerprint;
// the plaintext secret appears only in the creation response.

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func renderUser(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Abilities  []string   `json:"abilities"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func renderToken(t domain.Token) tokenResponse {
	return tokenResponse{
		ID:         t.ID,
		Name:       t.Name,
		Abilities:  t.Abilities.Strings(),
		ExpiresAt:  t.ExpiresAt,
		LastUsedAt: t.LastUsedAt,
		CreatedAt:  t.CreatedAt,
	}
}

// issuedTokenResponse is flat: the plaintext secret sits under the token key
// alongside the record fields. This is the only representation that ever
// carries the secret.
type issuedTokenResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Token     string     `json:"token"`
	Abilities []string   `json:"abilities"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func renderIssuedToken(it domain.IssuedToken) issuedTokenResponse {
	return issuedTokenResponse{
		ID:        it.Token.ID,
		Name:      it.Token.Name,
		Token:     it.Secret,
		Abilities: it.Token.Abilities.Strings(),
		ExpiresAt: it.Token.ExpiresAt,
		CreatedAt: it.Token.CreatedAt,
	}
}

type deckResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func renderDeck(d domain.Deck) deckResponse {
	return deckResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		IsPublic:    d.IsPublic,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func renderDecks(ds []domain.Deck) []deckResponse {
	out := make([]deckResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, renderDeck(d))
	}
	return out
}

type flashcardResponse struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func renderFlashcard(f domain.Flashcard) flashcardResponse {
	return flashcardResponse{
		ID:        f.ID,
		DeckID:    f.DeckID,
		Front:     f.Front,
		Back:      f.Back,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func renderFlashcards(fs []domain.Flashcard) []flashcardResponse {
	out := make([]flashcardResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, renderFlashcard(f))
	}
	return out
}
