package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/store"
)

const (
	DeckTitleMaxLen       = 255
	DeckDescriptionMaxLen = 1000
)

type DeckService struct {
	Store store.Store
}

// DeckInput is the caller-supplied part of a deck.
type DeckInput struct {
	Title       string
	Description string
	IsPublic    bool
}

func (in *DeckInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	fields := ValidationError{}
	switch {
	case in.Title == "":
		fields["title"] = "title is required"
	case len(in.Title) > DeckTitleMaxLen:
		fields["title"] = "title must be at most 255 characters"
	}
	if len(in.Description) > DeckDescriptionMaxLen {
		fields["description"] = "description must be at most 1000 characters"
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *DeckService) Create(ctx context.Context, auth domain.AuthContext, in DeckInput) (domain.Deck, error) {
	if err := in.validate(); err != nil {
		return domain.Deck{}, err
	}

	now := time.Now().UTC()
	return s.Store.Decks().CreateDeck(ctx, domain.Deck{
		UserID:      auth.User.ID,
		Title:       in.Title,
		Description: in.Description,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Get returns a deck the caller may read. A private deck owned by someone
// else is reported as not found, never as forbidden; a 403 would confirm the
// deck exists.
func (s *DeckService) Get(ctx context.Context, auth domain.AuthContext, id int64) (domain.Deck, error) {
	deck, err := s.Store.Decks().GetDeckByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Deck{}, ErrNotFound
		}
		return domain.Deck{}, err
	}

	if !deck.ReadableBy(auth.User.ID) {
		return domain.Deck{}, ErrNotFound
	}
	return deck, nil
}

func (s *DeckService) ListMine(ctx context.Context, auth domain.AuthContext, limit, offset int64) ([]domain.Deck, int64, error) {
	return s.Store.Decks().ListDecksByUser(ctx, auth.User.ID, limit, offset)
}

func (s *DeckService) ListPublic(ctx context.Context, limit, offset int64) ([]domain.Deck, int64, error) {
	return s.Store.Decks().ListPublicDecks(ctx, limit, offset)
}

func (s *DeckService) Update(ctx context.Context, auth domain.AuthContext, id int64, in DeckInput) (domain.Deck, error) {
	deck, err := s.getOwned(ctx, auth, id)
	if err != nil {
		return domain.Deck{}, err
	}

	if err := in.validate(); err != nil {
		return domain.Deck{}, err
	}

	deck.Title = in.Title
	deck.Description = in.Description
	deck.IsPublic = in.IsPublic
	deck.UpdatedAt = time.Now().UTC()

	if err := s.Store.Decks().UpdateDeck(ctx, deck); err != nil {
		return domain.Deck{}, err
	}
	return deck, nil
}

// Delete removes the deck and, via the schema's cascade, its flashcards.
func (s *DeckService) Delete(ctx context.Context, auth domain.AuthContext, id int64) error {
	if _, err := s.getOwned(ctx, auth, id); err != nil {
		return err
	}
	return s.Store.Decks().DeleteDeck(ctx, id)
}

// getOwned fetches a deck for mutation. Non-owners of a public deck learn it
// exists (forbidden); non-owners of a private deck do not (not found).
func (s *DeckService) getOwned(ctx context.Context, auth domain.AuthContext, id int64) (domain.Deck, error) {
	deck, err := s.Store.Decks().GetDeckByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Deck{}, ErrNotFound
		}
		return domain.Deck{}, err
	}

	if !deck.OwnedBy(auth.User.ID) {
		if deck.IsPublic {
			return domain.Deck{}, ErrForbidden
		}
		return domain.Deck{}, ErrNotFound
	}
	return deck, nil
}
