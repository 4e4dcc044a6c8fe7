package invitations

import (
	"context"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error)
	GetByID(ctx context.Context, id int64) (*models.Invitation, error)
	// Accept consumes the invitation; a second accept affects no rows and
	// fails with ErrValidation.
	Accept(ctx context.Context, id int64) error
	ListByWall(ctx context.Context, wallID int64) ([]*models.Invitation, error)
	// GetAcceptedForUser returns the viewer's accepted invitation on the
	// wall, or ErrNotFound.
	GetAcceptedForUser(ctx context.Context, wallID, userID int64) (*models.Invitation, error)
}
