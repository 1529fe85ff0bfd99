package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/store"
)

const FlashcardSideMaxLen = 2000

type FlashcardService struct {
	Store store.Store
	Decks *DeckService
}

// FlashcardInput is the caller-supplied part of a card.
type FlashcardInput struct {
	Front string
	Back  string
}

func (in *FlashcardInput) validate() error {
	in.Front = strings.TrimSpace(in.Front)
	in.Back = strings.TrimSpace(in.Back)

	fields := ValidationError{}
	switch {
	case in.Front == "":
		fields["front"] = "front is required"
	case len(in.Front) > FlashcardSideMaxLen:
		fields["front"] = "front must be at most 2000 characters"
	}
	switch {
	case in.Back == "":
		fields["back"] = "back is required"
	case len(in.Back) > FlashcardSideMaxLen:
		fields["back"] = "back must be at most 2000 characters"
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

func (s *FlashcardService) Create(ctx context.Context, auth domain.AuthContext, deckID int64, in FlashcardInput) (domain.Flashcard, error) {
	if _, err := s.Decks.getOwned(ctx, auth, deckID); err != nil {
		return domain.Flashcard{}, err
	}

	if err := in.validate(); err != nil {
		return domain.Flashcard{}, err
	}

	now := time.Now().UTC()
	return s.Store.Flashcards().CreateFlashcard(ctx, domain.Flashcard{
		DeckID:    deckID,
		Front:     in.Front,
		Back:      in.Back,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Get resolves a card strictly through its parent deck: the deck must be
// readable by the caller AND actually contain the card. A valid card id
// paired with a foreign deck id is not found, full stop.
func (s *FlashcardService) Get(ctx context.Context, auth domain.AuthContext, deckID, cardID int64) (domain.Flashcard, error) {
	if _, err := s.Decks.Get(ctx, auth, deckID); err != nil {
		return domain.Flashcard{}, err
	}

	card, err := s.Store.Flashcards().GetFlashcard(ctx, deckID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Flashcard{}, ErrNotFound
		}
		return domain.Flashcard{}, err
	}
	return card, nil
}

func (s *FlashcardService) List(ctx context.Context, auth domain.AuthContext, deckID int64, limit, offset int64) ([]domain.Flashcard, int64, error) {
	if _, err := s.Decks.Get(ctx, auth, deckID); err != nil {
		return nil, 0, err
	}
	return s.Store.Flashcards().ListFlashcardsByDeck(ctx, deckID, limit, offset)
}

func (s *FlashcardService) Update(ctx context.Context, auth domain.AuthContext, deckID, cardID int64, in FlashcardInput) (domain.Flashcard, error) {
	if _, err := s.Decks.getOwned(ctx, auth, deckID); err != nil {
		return domain.Flashcard{}, err
	}

	card, err := s.Store.Flashcards().GetFlashcard(ctx, deckID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Flashcard{}, ErrNotFound
		}
		return domain.Flashcard{}, err
	}

	if err := in.validate(); err != nil {
		return domain.Flashcard{}, err
	}

	card.Front = in.Front
	card.Back = in.Back
	card.UpdatedAt = time.Now().UTC()

	if err := s.Store.Flashcards().UpdateFlashcard(ctx, card); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Flashcard{}, ErrNotFound
		}
		return domain.Flashcard{}, err
	}
	return card, nil
}

func (s *FlashcardService) Delete(ctx context.Context, auth domain.AuthContext, deckID, cardID int64) error {
	if _, err := s.Decks.getOwned(ctx, auth, deckID); err != nil {
		return err
	}

	if err := s.Store.Flashcards().DeleteFlashcard(ctx, deckID, cardID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
