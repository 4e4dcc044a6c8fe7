// Package reactions implements the per-photo emoji reaction ledger with
// an idempotent toggle.
package reactions

import (
	"context"
	"database/sql"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
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

// Result reports the post-toggle state for the acting user.
type Result struct {
	Emoji          string `json:"emoji"`
	Count          int    `json:"count"`
	UserHasReacted bool   `json:"user_has_reacted"`
}

// Toggle flips the user's reaction with the given emoji on the photo: if
// present it is removed, otherwise added. A user holds at most one of each
// emoji, so the operation is idempotent in pairs. Writes are rejected on
// sealed/archived walls; reads of existing counts stay available elsewhere.
func (s *Service) Toggle(ctx context.Context, photoID, userID int64, emoji string) (*Result, error) {
	if !common.IsReactionEmoji(emoji) {
		return nil, common.ErrValidation
	}

	photo, err := s.repos.Photos(s.db).GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	wall, err := s.repos.Walls(s.db).GetByID(ctx, photo.WallID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Mutable(wall, s.now()) {
		return nil, common.ErrWallImmutable
	}

	result := &Result{Emoji: emoji}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Reactions(tx)

		removed, err := repo.Remove(ctx, photoID, userID, emoji)
		if err != nil {
			return err
		}
		if !removed {
			if _, err := repo.Add(ctx, photoID, userID, emoji); err != nil {
				return err
			}
			result.UserHasReacted = true
		}

		count, err := repo.Count(ctx, photoID, emoji)
		if err != nil {
			return err
		}
		result.Count = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
