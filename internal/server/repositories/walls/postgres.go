// Package walls provides the PostgreSQL-backed repository for wall records.
package walls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

// PostgresRepository implements wall storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const wallColumns = `id, share_code, owner_id, title, theme, accent_color, background_anim,
	background_color, intensity, birthday_at, is_open, is_archived, is_sealed,
	uploads_enabled, upload_paused, upload_permission, birthday_year, z_counter, created_at`

func scanWall(row interface{ Scan(...any) error }) (*models.Wall, error) {
	w := &models.Wall{}
	err := row.Scan(
		&w.ID, &w.ShareCode, &w.OwnerID, &w.Title, &w.Theme, &w.AccentColor,
		&w.BackgroundAnim, &w.BackgroundColor, &w.Intensity, &w.BirthdayAt,
		&w.IsOpen, &w.IsArchived, &w.IsSealed, &w.UploadsEnabled,
		&w.UploadPaused, &w.UploadPermission, &w.BirthdayYear, &w.ZCounter, &w.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return w, nil
}

func (r *PostgresRepository) Create(ctx context.Context, wall *models.Wall) (*models.Wall, error) {
	query := `
		INSERT INTO walls (share_code, owner_id, title, theme, accent_color, background_anim,
			background_color, intensity, birthday_at, is_open, uploads_enabled, upload_permission)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		wall.ShareCode, wall.OwnerID, wall.Title, wall.Theme, wall.AccentColor,
		wall.BackgroundAnim, wall.BackgroundColor, wall.Intensity, wall.BirthdayAt,
		wall.IsOpen, wall.UploadsEnabled, wall.UploadPermission,
	).Scan(&wall.ID, &wall.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return wall, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Wall, error) {
	query := `SELECT ` + wallColumns + ` FROM walls WHERE id = $1`
	return scanWall(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByShareCode(ctx context.Context, code string) (*models.Wall, error) {
	query := `SELECT ` + wallColumns + ` FROM walls WHERE share_code = $1`
	return scanWall(r.db.QueryRowContext(ctx, query, code))
}

func (r *PostgresRepository) GetLiveByOwner(ctx context.Context, ownerID int64) (*models.Wall, error) {
	query := `SELECT ` + wallColumns + ` FROM walls WHERE owner_id = $1 AND NOT is_archived`
	return scanWall(r.db.QueryRowContext(ctx, query, ownerID))
}

// Seal sets the permanent lock. Sealing an already-sealed or archived wall
// affects no rows and returns ErrWallImmutable.
func (r *PostgresRepository) Seal(ctx context.Context, id int64) error {
	query := `UPDATE walls SET is_sealed = TRUE WHERE id = $1 AND NOT is_sealed AND NOT is_archived`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrWallImmutable
	}
	return nil
}

// UpdateUploadControls persists the owner's contribution toggles.
func (r *PostgresRepository) UpdateUploadControls(ctx context.Context, wall *models.Wall) error {
	query := `
		UPDATE walls
		SET is_open = $2, uploads_enabled = $3, upload_paused = $4, upload_permission = $5
		WHERE id = $1 AND NOT is_sealed AND NOT is_archived
	`
	res, err := r.db.ExecContext(ctx, query,
		wall.ID, wall.IsOpen, wall.UploadsEnabled, wall.UploadPaused, wall.UploadPermission)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrWallImmutable
	}
	return nil
}

func (r *PostgresRepository) Archive(ctx context.Context, id int64, year int) error {
	query := `UPDATE walls SET is_archived = TRUE, birthday_year = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, year); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListDue(ctx context.Context, cutoff time.Time) ([]*models.Wall, error) {
	query := `SELECT ` + wallColumns + ` FROM walls WHERE NOT is_archived AND birthday_at <= $1`
	rows, err := r.db.QueryContext(ctx, query, cutoff.Add(-common.ActiveWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to select walls: %w", err)
	}
	defer rows.Close()

	var result []*models.Wall
	for rows.Next() {
		w, err := scanWall(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// NextZ serializes on the wall row, so two rapid bring-to-front calls can
// never mint the same value.
func (r *PostgresRepository) NextZ(ctx context.Context, id int64) (int64, error) {
	query := `UPDATE walls SET z_counter = z_counter + 1 WHERE id = $1 RETURNING z_counter`
	var z int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&z)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return z, nil
}
