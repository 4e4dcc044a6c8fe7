package photos

import (
	"context"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) (*models.Photo, error)
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	// ListByWall returns photos in render order: z-index ascending, ties by id.
	ListByWall(ctx context.Context, wallID int64) ([]*models.Photo, error)
	UpdateCaptionFrame(ctx context.Context, id int64, caption string, frame models.FrameStyle) error
	UpdateTransform(ctx context.Context, photo *models.Photo) error
	UpdateZ(ctx context.Context, id int64, z int64) error
	Delete(ctx context.Context, id int64) error
	// HasUploaded reports a prior upload on the wall by the given user or
	// accepted invitation (the one-photo-per-person rule).
	HasUploaded(ctx context.Context, wallID int64, userID *int64, invitationID *int64) (bool, error)
	CountByWall(ctx context.Context, wallID int64) (int, error)
}
