package users

import (
	"context"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// CountTribe returns the number of users sharing a birth month/day,
	// used only for view enrichment.
	CountTribe(ctx context.Context, month, day int) (int, error)
}
