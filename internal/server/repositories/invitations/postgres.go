// Package invitations provides the PostgreSQL-backed repository for wall
// invitations (tribe-mate and guest access control).
package invitations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

// PostgresRepository implements invitation storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const invColumns = `id, wall_id, type, invited_user_id, invited_email, invited_name, accepted, accepted_at, created_at`

func scanInvitation(row interface{ Scan(...any) error }) (*models.Invitation, error) {
	inv := &models.Invitation{}
	err := row.Scan(&inv.ID, &inv.WallID, &inv.Type, &inv.InvitedUserID,
		&inv.InvitedEmail, &inv.InvitedName, &inv.Accepted, &inv.AcceptedAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

func (r *PostgresRepository) Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	query := `
		INSERT INTO invitations (wall_id, type, invited_user_id, invited_email, invited_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		inv.WallID, inv.Type, inv.InvitedUserID, inv.InvitedEmail, inv.InvitedName,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	query := `SELECT ` + invColumns + ` FROM invitations WHERE id = $1`
	return scanInvitation(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Accept(ctx context.Context, id int64) error {
	query := `UPDATE invitations SET accepted = TRUE, accepted_at = now() WHERE id = $1 AND NOT accepted`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrValidation
	}
	return nil
}

func (r *PostgresRepository) ListByWall(ctx context.Context, wallID int64) ([]*models.Invitation, error) {
	query := `SELECT ` + invColumns + ` FROM invitations WHERE wall_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, wallID)
	if err != nil {
		return nil, fmt.Errorf("failed to select invitations: %w", err)
	}
	defer rows.Close()

	var result []*models.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetAcceptedForUser(ctx context.Context, wallID, userID int64) (*models.Invitation, error) {
	query := `SELECT ` + invColumns + ` FROM invitations WHERE wall_id = $1 AND invited_user_id = $2 AND accepted`
	return scanInvitation(r.db.QueryRowContext(ctx, query, wallID, userID))
}
