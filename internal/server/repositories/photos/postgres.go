// Package photos provides the PostgreSQL-backed repository for photos and
// their canvas transforms.
package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

// PostgresRepository implements photo storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const photoColumns = `id, wall_id, storage_key, caption, frame, uploader_name, uploader_id,
	invitation_id, pos_x, pos_y, rotation, scale, width, height, z_index, created_at`

func scanPhoto(row interface{ Scan(...any) error }) (*models.Photo, error) {
	p := &models.Photo{}
	err := row.Scan(
		&p.ID, &p.WallID, &p.StorageKey, &p.Caption, &p.Frame, &p.UploaderName,
		&p.UploaderID, &p.InvitationID, &p.PosX, &p.PosY, &p.Rotation, &p.Scale,
		&p.Width, &p.Height, &p.ZIndex, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (*models.Photo, error) {
	query := `
		INSERT INTO photos (wall_id, storage_key, caption, frame, uploader_name, uploader_id,
			invitation_id, pos_x, pos_y, rotation, scale, width, height, z_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		photo.WallID, photo.StorageKey, photo.Caption, photo.Frame, photo.UploaderName,
		photo.UploaderID, photo.InvitationID, photo.PosX, photo.PosY, photo.Rotation,
		photo.Scale, photo.Width, photo.Height, photo.ZIndex,
	).Scan(&photo.ID, &photo.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return photo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	return scanPhoto(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByWall(ctx context.Context, wallID int64) ([]*models.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE wall_id = $1 ORDER BY z_index, id`
	rows, err := r.db.QueryContext(ctx, query, wallID)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) UpdateCaptionFrame(ctx context.Context, id int64, caption string, frame models.FrameStyle) error {
	return r.exec(ctx,
		`UPDATE photos SET caption = $2, frame = $3 WHERE id = $1`,
		id, caption, frame)
}

func (r *PostgresRepository) UpdateTransform(ctx context.Context, photo *models.Photo) error {
	return r.exec(ctx,
		`UPDATE photos SET pos_x = $2, pos_y = $3, rotation = $4, scale = $5, width = $6, height = $7 WHERE id = $1`,
		photo.ID, photo.PosX, photo.PosY, photo.Rotation, photo.Scale, photo.Width, photo.Height)
}

func (r *PostgresRepository) UpdateZ(ctx context.Context, id int64, z int64) error {
	return r.exec(ctx, `UPDATE photos SET z_index = $2 WHERE id = $1`, id, z)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM photos WHERE id = $1`, id)
}

// exec runs a single-row statement and maps zero affected rows to ErrNotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) HasUploaded(ctx context.Context, wallID int64, userID *int64, invitationID *int64) (bool, error) {
	var query string
	var arg any
	switch {
	case userID != nil:
		query = `SELECT EXISTS (SELECT 1 FROM photos WHERE wall_id = $1 AND uploader_id = $2)`
		arg = *userID
	case invitationID != nil:
		query = `SELECT EXISTS (SELECT 1 FROM photos WHERE wall_id = $1 AND invitation_id = $2)`
		arg = *invitationID
	default:
		return false, nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, wallID, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CountByWall(ctx context.Context, wallID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos WHERE wall_id = $1`, wallID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
