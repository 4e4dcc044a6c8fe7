package walls

import (
	"context"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, wall *models.Wall) (*models.Wall, error)
	GetByID(ctx context.Context, id int64) (*models.Wall, error)
	GetByShareCode(ctx context.Context, code string) (*models.Wall, error)
	// GetLiveByOwner returns the owner's current non-archived wall.
	GetLiveByOwner(ctx context.Context, ownerID int64) (*models.Wall, error)
	Seal(ctx context.Context, id int64) error
	UpdateUploadControls(ctx context.Context, wall *models.Wall) error
	// Archive stamps the archived flag and the birthday-year label.
	Archive(ctx context.Context, id int64, year int) error
	// ListDue returns non-archived walls whose window closed before cutoff.
	ListDue(ctx context.Context, cutoff time.Time) ([]*models.Wall, error)
	// NextZ increments and returns the wall's monotonic z counter.
	NextZ(ctx context.Context, id int64) (int64, error)
}
