package walls

import (
	"context"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/permission"
)

// View is the single read payload delivered to the presentation layer.
type View struct {
	Wall         WallMeta     `json:"wall"`
	Photos       []PhotoView  `json:"photos"`
	UploadStatus UploadStatus `json:"upload_status"`
	TribeStats   TribeStats   `json:"tribe_stats"`
	FetchedAt    time.Time    `json:"fetched_at"`
}

// WallMeta is the wall's presentation metadata plus derived lifecycle state.
type WallMeta struct {
	ID               int64                     `json:"id"`
	ShareCode        string                    `json:"share_code"`
	OwnerID          int64                     `json:"owner_id"`
	Title            string                    `json:"title"`
	Theme            string                    `json:"theme"`
	AccentColor      string                    `json:"accent_color"`
	BackgroundAnim   string                    `json:"background_anim"`
	BackgroundColor  string                    `json:"background_color"`
	Intensity        models.AnimationIntensity `json:"intensity"`
	BirthdayAt       time.Time                 `json:"birthday_at"`
	State            lifecycle.State           `json:"state"`
	IsOpen           bool                      `json:"is_open"`
	IsSealed         bool                      `json:"is_sealed"`
	IsArchived       bool                      `json:"is_archived"`
	UploadsEnabled   bool                      `json:"uploads_enabled"`
	UploadPaused     bool                      `json:"upload_paused"`
	UploadPermission models.UploadPermission   `json:"upload_permission"`
	BirthdayYear     int                       `json:"birthday_year,omitempty"`
}

// PhotoView is one photo with its transform, render hints and reactions.
type PhotoView struct {
	ID           int64                    `json:"id"`
	URL          string                   `json:"url"`
	Caption      string                   `json:"caption"`
	Frame        models.FrameStyle        `json:"frame"`
	FrameClasses models.FrameClasses      `json:"frame_classes"`
	UploaderName string                   `json:"uploader_name"`
	Mine         bool                     `json:"mine"`
	PosX         float64                  `json:"pos_x"`
	PosY         float64                  `json:"pos_y"`
	Rotation     float64                  `json:"rotation"`
	Scale        float64                  `json:"scale"`
	Width        float64                  `json:"width"`
	Height       float64                  `json:"height"`
	ZIndex       int64                    `json:"z_index"`
	Reactions    []models.ReactionSummary `json:"reactions"`
	CreatedAt    time.Time                `json:"created_at"`
}

// UploadStatus mirrors the permission decision for the requesting viewer.
type UploadStatus struct {
	CanUpload bool              `json:"can_upload"`
	Reason    permission.Reason `json:"reason"`
}

// TribeStats is non-critical enrichment; failures degrade to zero values.
type TribeStats struct {
	MemberCount int `json:"member_count"`
	PhotoCount  int `json:"photo_count"`
}

// View composes the wall payload for the requesting viewer: metadata,
// photos in render order (z-index ascending), reaction summaries with the
// viewer's membership, and the viewer's upload status. Tribe enrichment is
// best-effort and never fails the view.
func (s *Service) View(ctx context.Context, code string, viewer models.Viewer) (*View, error) {
	wall, err := s.repos.Walls(s.db).GetByShareCode(ctx, code)
	if err != nil {
		return nil, err
	}

	photos, err := s.repos.Photos(s.db).ListByWall(ctx, wall.ID)
	if err != nil {
		return nil, err
	}

	status, err := s.UploadStatus(ctx, wall, viewer)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
	}
	reactions, err := s.repos.Reactions(s.db).ListByPhotos(ctx, ids)
	if err != nil {
		return nil, err
	}
	byPhoto := summarize(reactions, viewer)

	now := s.now()
	view := &View{
		Wall:         wallMeta(wall, now),
		Photos:       make([]PhotoView, 0, len(photos)),
		UploadStatus: UploadStatus{CanUpload: status.CanUpload, Reason: status.Reason},
		TribeStats:   s.tribeStats(ctx, wall),
		FetchedAt:    now,
	}

	for _, p := range photos {
		url, err := s.signer.SignGet(ctx, p.StorageKey)
		if err != nil {
			return nil, err
		}
		view.Photos = append(view.Photos, PhotoView{
			ID:           p.ID,
			URL:          url,
			Caption:      p.Caption,
			Frame:        p.Frame,
			FrameClasses: p.Frame.Classes(),
			UploaderName: p.UploaderName,
			Mine:         p.UploadedBy(viewer.UserID, viewer.InvitationID),
			PosX:         p.PosX,
			PosY:         p.PosY,
			Rotation:     p.Rotation,
			Scale:        p.Scale,
			Width:        p.Width,
			Height:       p.Height,
			ZIndex:       p.ZIndex,
			Reactions:    byPhoto[p.ID],
			CreatedAt:    p.CreatedAt,
		})
	}
	return view, nil
}

func wallMeta(w *models.Wall, now time.Time) WallMeta {
	return WallMeta{
		ID:               w.ID,
		ShareCode:        w.ShareCode,
		OwnerID:          w.OwnerID,
		Title:            w.Title,
		Theme:            w.Theme,
		AccentColor:      w.AccentColor,
		BackgroundAnim:   w.BackgroundAnim,
		BackgroundColor:  w.BackgroundColor,
		Intensity:        w.Intensity,
		BirthdayAt:       w.BirthdayAt,
		State:            lifecycle.StateOf(w, now),
		IsOpen:           w.IsOpen,
		IsSealed:         w.IsSealed,
		IsArchived:       w.IsArchived,
		UploadsEnabled:   w.UploadsEnabled,
		UploadPaused:     w.UploadPaused,
		UploadPermission: w.UploadPermission,
		BirthdayYear:     w.BirthdayYear,
	}
}

// summarize folds raw reaction rows into per-photo, per-emoji counts in
// the fixed emoji order.
func summarize(rows []*models.Reaction, viewer models.Viewer) map[int64][]models.ReactionSummary {
	type key struct {
		photo int64
		emoji string
	}
	counts := map[key]int{}
	mine := map[key]bool{}
	for _, r := range rows {
		k := key{r.PhotoID, r.Emoji}
		counts[k]++
		if viewer.Is(r.UserID) {
			mine[k] = true
		}
	}

	out := map[int64][]models.ReactionSummary{}
	for k := range counts {
		if _, ok := out[k.photo]; ok {
			continue
		}
		summaries := make([]models.ReactionSummary, 0, len(common.ReactionEmojis))
		for _, emoji := range common.ReactionEmojis {
			ek := key{k.photo, emoji}
			if counts[ek] == 0 && !mine[ek] {
				continue
			}
			summaries = append(summaries, models.ReactionSummary{
				Emoji:   emoji,
				Count:   counts[ek],
				Reacted: mine[ek],
			})
		}
		out[k.photo] = summaries
	}
	return out
}

// tribeStats is best-effort: analytics failures degrade to zeros.
func (s *Service) tribeStats(ctx context.Context, wall *models.Wall) TribeStats {
	var stats TribeStats
	owner, err := s.repos.Users(s.db).GetByID(ctx, wall.OwnerID)
	if err != nil {
		s.logger.Warn(ctx, "tribe stats degraded", "wall_id", wall.ID, "error", err.Error())
		return stats
	}
	if n, err := s.repos.Users(s.db).CountTribe(ctx, int(owner.BirthMonth), owner.BirthDay); err == nil {
		stats.MemberCount = n
	} else {
		s.logger.Warn(ctx, "tribe member count degraded", "wall_id", wall.ID, "error", err.Error())
	}
	if n, err := s.repos.Photos(s.db).CountByWall(ctx, wall.ID); err == nil {
		stats.PhotoCount = n
	} else {
		s.logger.Warn(ctx, "tribe photo count degraded", "wall_id", wall.ID, "error", err.Error())
	}
	return stats
}
