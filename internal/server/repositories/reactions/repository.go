package reactions

import (
	"context"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

type Repository interface {
	// Add inserts the reaction if absent; reports whether a row was added.
	Add(ctx context.Context, photoID, userID int64, emoji string) (bool, error)
	// Remove deletes the reaction if present; reports whether a row was removed.
	Remove(ctx context.Context, photoID, userID int64, emoji string) (bool, error)
	Count(ctx context.Context, photoID int64, emoji string) (int, error)
	// ListByPhotos returns all reactions on the given photos, for building
	// per-photo summaries in one query.
	ListByPhotos(ctx context.Context, photoIDs []int64) ([]*models.Reaction, error)
}
