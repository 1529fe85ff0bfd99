package sqlite

import (
	"context"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/store"
)

type flashcardsRepo struct {
	q querier
}

const flashcardColumns = `id, deck_id, front, back, created_at, updated_at`

func (r *flashcardsRepo) CreateFlashcard(ctx context.Context, c domain.Flashcard) (domain.Flashcard, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO flashcards (deck_id, front, back, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.DeckID, c.Front, c.Back, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return domain.Flashcard{}, err
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Flashcard{}, err
	}
	return c, nil
}

// GetFlashcard matches both the card id and the deck id. The pairing is the
// cross-deck access guard: a real card reached through the wrong deck scans
// no rows.
func (r *flashcardsRepo) GetFlashcard(ctx context.Context, deckID, cardID int64) (domain.Flashcard, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE id = ? AND deck_id = ?`,
		cardID, deckID)

	var c domain.Flashcard
	if err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Flashcard{}, mapNotFound(err)
	}
	return c, nil
}

func (r *flashcardsRepo) ListFlashcardsByDeck(ctx context.Context, deckID int64, limit, offset int64) ([]domain.Flashcard, int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flashcards WHERE deck_id = ?`, deckID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+flashcardColumns+` FROM flashcards WHERE deck_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`,
		deckID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Flashcard
	for rows.Next() {
		var c domain.Flashcard
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *flashcardsRepo) UpdateFlashcard(ctx context.Context, c domain.Flashcard) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE flashcards SET front = ?, back = ?, updated_at = ? WHERE id = ? AND deck_id = ?`,
		c.Front, c.Back, c.UpdatedAt.UTC(), c.ID, c.DeckID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *flashcardsRepo) DeleteFlashcard(ctx context.Context, deckID, cardID int64) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM flashcards WHERE id = ? AND deck_id = ?`, cardID, deckID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
