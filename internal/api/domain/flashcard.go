package domain

import "time"

// Flashcard belongs to exactly one deck. Lookups always pair the card id with
// the deck id from the request path so a card can never be reached through a
// deck that does not contain it.
type Flashcard struct {
	ID        int64
	DeckID    int64
	Front     string
	Back      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
