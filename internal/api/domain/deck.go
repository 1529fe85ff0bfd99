package domain

import "time"

// Deck is a user-owned collection of flashcards. Public decks are readable by
// anyone authenticated; private decks are invisible to non-owners.
type Deck struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReadableBy reports whether the given user may see the deck at all.
func (d Deck) ReadableBy(userID int64) bool {
	return d.IsPublic || d.UserID == userID
}

// OwnedBy reports whether the given user owns the deck.
func (d Deck) OwnedBy(userID int64) bool {
	return d.UserID == userID
}
