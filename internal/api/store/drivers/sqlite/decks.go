package sqlite

import (
	"context"
	"database/sql"

	"github.com/mnemo-app/mnemo/internal/api/domain"
)

type decksRepo struct {
	q querier
}

const deckColumns = `id, user_id, title, description, is_public, created_at, updated_at`

func (r *decksRepo) CreateDeck(ctx context.Context, d domain.Deck) (domain.Deck, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO decks (user_id, title, description, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.UserID, d.Title, d.Description, d.IsPublic, d.CreatedAt.UTC(), d.UpdatedAt.UTC())
	if err != nil {
		return domain.Deck{}, err
	}

	d.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Deck{}, err
	}
	return d, nil
}

func (r *decksRepo) GetDeckByID(ctx context.Context, id int64) (domain.Deck, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE id = ?`, id)
	return scanDeck(row)
}

func (r *decksRepo) ListDecksByUser(ctx context.Context, userID int64, limit, offset int64) ([]domain.Deck, int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decks WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	decks, err := collectDecks(rows)
	return decks, total, err
}

func (r *decksRepo) ListPublicDecks(ctx context.Context, limit, offset int64) ([]domain.Deck, int64, error) {
	var total int64
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decks WHERE is_public = 1`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT `+deckColumns+` FROM decks WHERE is_public = 1 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	decks, err := collectDecks(rows)
	return decks, total, err
}

func (r *decksRepo) UpdateDeck(ctx context.Context, d domain.Deck) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE decks SET title = ?, description = ?, is_public = ?, updated_at = ? WHERE id = ?`,
		d.Title, d.Description, d.IsPublic, d.UpdatedAt.UTC(), d.ID)
	return err
}

func (r *decksRepo) DeleteDeck(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	return err
}

func scanDeck(row rowScanner) (domain.Deck, error) {
	var d domain.Deck
	if err := row.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &d.IsPublic,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return domain.Deck{}, mapNotFound(err)
	}
	return d, nil
}

func collectDecks(rows *sql.Rows) ([]domain.Deck, error) {
	var out []domain.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
