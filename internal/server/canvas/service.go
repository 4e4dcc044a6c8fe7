// Package canvas maintains the free-form spatial arrangement of photos on a
// wall: position, rotation, size and depth order. Every mutation is
// owner-only and persists once per completed gesture, not per frame.
package canvas

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/repomanager"
)

type Service struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	now   func() time.Time
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager) *Service {
	return &Service{db: db, repos: repos, now: time.Now}
}

// ClampSize forces a dimension into the allowed photo bounds.
func ClampSize(v float64) float64 {
	if v < models.MinPhotoSize {
		return models.MinPhotoSize
	}
	if v > models.MaxPhotoSize {
		return models.MaxPhotoSize
	}
	return v
}

// NormalizeRotation wraps degrees into [0, 360).
func NormalizeRotation(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	return r
}

// loadOwned fetches the photo and enforces the owner-only, mutable-wall
// preconditions shared by every canvas mutation.
func (s *Service) loadOwned(ctx context.Context, photoID int64, viewer models.Viewer) (*models.Photo, error) {
	photo, err := s.repos.Photos(s.db).GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	wall, err := s.repos.Walls(s.db).GetByID(ctx, photo.WallID)
	if err != nil {
		return nil, err
	}
	if !viewer.Is(wall.OwnerID) {
		return nil, common.ErrPermissionDenied
	}
	if !lifecycle.Mutable(wall, s.now()) {
		return nil, common.ErrWallImmutable
	}
	return photo, nil
}

// Move persists a drag-end position.
func (s *Service) Move(ctx context.Context, photoID int64, viewer models.Viewer, x, y float64) (*models.Photo, error) {
	photo, err := s.loadOwned(ctx, photoID, viewer)
	if err != nil {
		return nil, err
	}
	photo.PosX = x
	photo.PosY = y
	if err := s.repos.Photos(s.db).UpdateTransform(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// Rotate persists a rotate-end angle, normalized into [0, 360).
func (s *Service) Rotate(ctx context.Context, photoID int64, viewer models.Viewer, degrees float64) (*models.Photo, error) {
	photo, err := s.loadOwned(ctx, photoID, viewer)
	if err != nil {
		return nil, err
	}
	photo.Rotation = NormalizeRotation(degrees)
	if err := s.repos.Photos(s.db).UpdateTransform(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// Resize persists a resize-end bounding box. Width and height clamp
// independently to the configured bounds.
func (s *Service) Resize(ctx context.Context, photoID int64, viewer models.Viewer, width, height float64) (*models.Photo, error) {
	photo, err := s.loadOwned(ctx, photoID, viewer)
	if err != nil {
		return nil, err
	}
	photo.Width = ClampSize(width)
	photo.Height = ClampSize(height)
	if err := s.repos.Photos(s.db).UpdateTransform(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// BringToFront assigns the photo a z-index strictly above every other photo
// on the wall. The value comes from the wall's monotonic counter, read and
// written in one transaction, so two rapid calls on different photos can
// never collide on the same z.
func (s *Service) BringToFront(ctx context.Context, photoID int64, viewer models.Viewer) (*models.Photo, error) {
	photo, err := s.loadOwned(ctx, photoID, viewer)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		z, err := s.repos.Walls(tx).NextZ(ctx, photo.WallID)
		if err != nil {
			return err
		}
		if err := s.repos.Photos(tx).UpdateZ(ctx, photo.ID, z); err != nil {
			return err
		}
		photo.ZIndex = z
		return nil
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}
