package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mnemo-app/mnemo/internal/api/domain"
	"github.com/mnemo-app/mnemo/internal/api/store"
)

type tokensRepo struct {
	q querier
}

const tokenColumns = `id, user_id, name, secret_hash, abilities, expires_at, last_used_at, created_at`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) (domain.Token, error) {
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO api_tokens (user_id, name, secret_hash, abilities, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Name, t.SecretHash, domain.JoinAbilities(t.Abilities),
		mapOptionalTime(t.ExpiresAt), t.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Token{}, store.ErrAlreadyExists
		}
		return domain.Token{}, err
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Token{}, err
	}
	return t, nil
}

func (r *tokensRepo) GetTokenByHash(ctx context.Context, hash string) (domain.Token, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM api_tokens WHERE secret_hash = ?`, hash)
	return scanToken(row)
}

func (r *tokensRepo) GetTokenByID(ctx context.Context, id int64) (domain.Token, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM api_tokens WHERE id = ?`, id)
	return scanToken(row)
}

func (r *tokensRepo) ListTokensByUser(ctx context.Context, userID int64) ([]domain.Token, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+tokenColumns+` FROM api_tokens WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tokensRepo) CountActiveTokens(ctx context.Context, userID int64, now time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM api_tokens WHERE user_id = ? AND (expires_at IS NULL OR expires_at > ?)`,
		userID, now.UTC()).Scan(&n)
	return n, err
}

func (r *tokensRepo) TouchToken(ctx context.Context, id int64, usedAt time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE api_tokens SET last_used_at = ? WHERE id = ?`, usedAt.UTC(), id)
	return err
}

func (r *tokensRepo) DeleteToken(ctx context.Context, id int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM api_tokens WHERE id = ?`, id)
	return err
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM api_tokens WHERE expires_at IS NOT NULL AND expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanToken(row rowScanner) (domain.Token, error) {
	var (
		t         domain.Token
		abilities string
		expires   sql.NullTime
		lastUsed  sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.SecretHash, &abilities,
		&expires, &lastUsed, &t.CreatedAt); err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	t.Abilities = domain.SplitAbilities(abilities)
	t.ExpiresAt = mapNullTimePtr(expires)
	t.LastUsedAt = mapNullTimePtr(lastUsed)
	return t, nil
}
