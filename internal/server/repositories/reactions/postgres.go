// Package reactions provides the PostgreSQL-backed repository for per-photo
// emoji reactions.
package reactions

import (
	"context"
	"fmt"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

// PostgresRepository implements reaction storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add relies on the (photo_id, user_id, emoji) unique constraint: a repeated
// add affects no rows, which makes the toggle idempotent.
func (r *PostgresRepository) Add(ctx context.Context, photoID, userID int64, emoji string) (bool, error) {
	query := `
		INSERT INTO reactions (photo_id, user_id, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT (photo_id, user_id, emoji) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, photoID, userID, emoji)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, photoID, userID int64, emoji string) (bool, error) {
	query := `DELETE FROM reactions WHERE photo_id = $1 AND user_id = $2 AND emoji = $3`
	res, err := r.db.ExecContext(ctx, query, photoID, userID, emoji)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Count(ctx context.Context, photoID int64, emoji string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reactions WHERE photo_id = $1 AND emoji = $2`,
		photoID, emoji).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListByPhotos(ctx context.Context, photoIDs []int64) ([]*models.Reaction, error) {
	if len(photoIDs) == 0 {
		return nil, nil
	}
	// The pgx stdlib driver encodes []int64 natively for ANY($1).
	query := `SELECT id, photo_id, user_id, emoji, created_at FROM reactions WHERE photo_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, photoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to select reactions: %w", err)
	}
	defer rows.Close()

	var result []*models.Reaction
	for rows.Next() {
		var item models.Reaction
		if err := rows.Scan(&item.ID, &item.PhotoID, &item.UserID, &item.Emoji, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
