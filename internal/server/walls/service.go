// Package walls implements wall-level operations: idempotent get-or-create
// inside the birthday window, owner toggles, sealing, invitations, photo
// caption/frame edits and deletion, and the composed read view.
package walls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/dbx"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/logging"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/permission"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/repomanager"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/shared"
)

// URLSigner mints retrievable URLs for stored photo binaries.
type URLSigner interface {
	SignGet(ctx context.Context, storageKey string) (string, error)
}

// MaxCaptionLength bounds photo captions.
const MaxCaptionLength = 280

type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	signer URLSigner
	logger logging.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, signer URLSigner, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		repos:  repos,
		signer: signer,
		logger: logger.With("module", "walls"),
		now:    time.Now,
	}
}

// CreateParams are the owner-chosen wall attributes.
type CreateParams struct {
	Title            string
	Theme            string
	AccentColor      string
	BackgroundAnim   string
	BackgroundColor  string
	Intensity        models.AnimationIntensity
	UploadPermission models.UploadPermission
}

// GetOrCreate returns the owner's live wall, creating it when none exists.
// Creation is only permitted inside the 24h window before the birthday;
// outside it ErrOutOfWindow is returned. An existing live wall is returned
// as-is (created=false), which gives callers idempotent semantics instead
// of a duplicate-wall failure.
func (s *Service) GetOrCreate(ctx context.Context, ownerID int64, params CreateParams) (*models.Wall, bool, error) {
	existing, err := s.repos.Walls(s.db).GetLiveByOwner(ctx, ownerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	owner, err := s.repos.Users(s.db).GetByID(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}

	now := s.now()
	if !lifecycle.CanCreate(owner, now) {
		return nil, false, common.ErrOutOfWindow
	}

	if params.Intensity == "" {
		params.Intensity = models.IntensityMedium
	}
	if params.UploadPermission == "" {
		params.UploadPermission = models.PermissionTribeMates
	}
	if !params.Intensity.Valid() || !params.UploadPermission.Valid() {
		return nil, false, common.ErrValidation
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, false, common.ErrValidation
	}

	wall := &models.Wall{
		OwnerID:          ownerID,
		Title:            params.Title,
		Theme:            params.Theme,
		AccentColor:      params.AccentColor,
		BackgroundAnim:   params.BackgroundAnim,
		BackgroundColor:  params.BackgroundColor,
		Intensity:        params.Intensity,
		BirthdayAt:       lifecycle.NextBirthday(owner, now),
		IsOpen:           true,
		UploadsEnabled:   true,
		UploadPermission: params.UploadPermission,
	}

	// Share codes are random; retry a few times on the unique constraint.
	for attempt := 0; attempt < 3; attempt++ {
		wall.ShareCode, err = shared.MakeShareCode()
		if err != nil {
			return nil, false, err
		}
		created, err := s.repos.Walls(s.db).Create(ctx, wall)
		if err == nil {
			return created, true, nil
		}
		if !isUniqueViolation(err) {
			return nil, false, err
		}
		// The owner may have created a wall concurrently; surface it
		// instead of retrying the code.
		if w, gerr := s.repos.Walls(s.db).GetLiveByOwner(ctx, ownerID); gerr == nil {
			return w, false, nil
		}
	}
	return nil, false, fmt.Errorf("share code conflict persisted: %w", common.ErrInternal)
}

func isUniqueViolation(err error) bool {
	// pgconn.PgError code 23505 flows through the stdlib driver as a plain
	// error string; matching on the constraint keyword keeps the repos
	// driver-agnostic.
	return err != nil && (strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key"))
}

// GetByCode fetches a wall by its opaque share code.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Wall, error) {
	return s.repos.Walls(s.db).GetByShareCode(ctx, code)
}

// GetOwn fetches the requesting owner's live wall.
func (s *Service) GetOwn(ctx context.Context, ownerID int64) (*models.Wall, error) {
	return s.repos.Walls(s.db).GetLiveByOwner(ctx, ownerID)
}

// Seal permanently locks the wall. Owner-only and irreversible.
func (s *Service) Seal(ctx context.Context, wallID int64, viewer models.Viewer) error {
	wall, err := s.repos.Walls(s.db).GetByID(ctx, wallID)
	if err != nil {
		return err
	}
	if !viewer.Is(wall.OwnerID) {
		return common.ErrPermissionDenied
	}
	if !lifecycle.Mutable(wall, s.now()) {
		return common.ErrWallImmutable
	}
	return s.repos.Walls(s.db).Seal(ctx, wallID)
}

// UploadControls are the owner's contribution toggles.
type UploadControls struct {
	IsOpen           bool
	UploadsEnabled   bool
	UploadPaused     bool
	UploadPermission models.UploadPermission
}

// SetUploadControls applies the owner's toggles. Sealed/archived walls
// reject the change with ErrWallImmutable.
func (s *Service) SetUploadControls(ctx context.Context, wallID int64, viewer models.Viewer, c UploadControls) (*models.Wall, error) {
	wall, err := s.repos.Walls(s.db).GetByID(ctx, wallID)
	if err != nil {
		return nil, err
	}
	if !viewer.Is(wall.OwnerID) {
		return nil, common.ErrPermissionDenied
	}
	if !lifecycle.Mutable(wall, s.now()) {
		return nil, common.ErrWallImmutable
	}
	if !c.UploadPermission.Valid() {
		return nil, common.ErrValidation
	}

	wall.IsOpen = c.IsOpen
	wall.UploadsEnabled = c.UploadsEnabled
	wall.UploadPaused = c.UploadPaused
	wall.UploadPermission = c.UploadPermission
	if err := s.repos.Walls(s.db).UpdateUploadControls(ctx, wall); err != nil {
		return nil, err
	}
	return wall, nil
}

// Relationship resolves the viewer's standing toward the wall: owner, tribe
// mate, accepted guest, or stranger.
func (s *Service) Relationship(ctx context.Context, wall *models.Wall, viewer models.Viewer) (permission.Relationship, error) {
	if viewer.Is(wall.OwnerID) {
		return permission.RelOwner, nil
	}
	if viewer.UserID != nil {
		owner, err := s.repos.Users(s.db).GetByID(ctx, wall.OwnerID)
		if err != nil {
			return permission.RelStranger, err
		}
		u, err := s.repos.Users(s.db).GetByID(ctx, *viewer.UserID)
		if err != nil {
			return permission.RelStranger, err
		}
		if u.SameTribe(owner) {
			return permission.RelTribeMate, nil
		}
		// A non-tribe user may still hold an accepted invitation.
		if _, err := s.repos.Invitations(s.db).GetAcceptedForUser(ctx, wall.ID, *viewer.UserID); err == nil {
			return permission.RelGuest, nil
		}
		return permission.RelStranger, nil
	}
	if viewer.InvitationID != nil {
		inv, err := s.repos.Invitations(s.db).GetByID(ctx, *viewer.InvitationID)
		if err == nil && inv.WallID == wall.ID && inv.Accepted {
			return permission.RelGuest, nil
		}
	}
	return permission.RelStranger, nil
}

// UploadStatus evaluates whether the viewer may add a photo right now.
func (s *Service) UploadStatus(ctx context.Context, wall *models.Wall, viewer models.Viewer) (permission.Decision, error) {
	rel, err := s.Relationship(ctx, wall, viewer)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return permission.Decision{}, err
	}
	uploaded, err := s.repos.Photos(s.db).HasUploaded(ctx, wall.ID, viewer.UserID, viewer.InvitationID)
	if err != nil {
		return permission.Decision{}, err
	}
	return permission.Evaluate(permission.Input{
		Wall:         wall,
		Now:          s.now(),
		Relationship: rel,
		HasUploaded:  uploaded,
	}), nil
}

// UpdatePhoto patches a photo's caption and frame. Allowed for the wall
// owner and the photo's original uploader only.
func (s *Service) UpdatePhoto(ctx context.Context, photoID int64, viewer models.Viewer, caption string, frame models.FrameStyle) (*models.Photo, error) {
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
	if !viewer.Is(wall.OwnerID) && !photo.UploadedBy(viewer.UserID, viewer.InvitationID) {
		return nil, common.ErrPermissionDenied
	}
	if len(caption) > MaxCaptionLength {
		return nil, common.ErrValidation
	}
	if !frame.Valid() {
		return nil, common.ErrValidation
	}
	if err := s.repos.Photos(s.db).UpdateCaptionFrame(ctx, photoID, caption, frame); err != nil {
		return nil, err
	}
	photo.Caption = caption
	photo.Frame = frame
	return photo, nil
}

// DeletePhoto removes a photo. Allowed for the wall owner and the uploader.
func (s *Service) DeletePhoto(ctx context.Context, photoID int64, viewer models.Viewer) error {
	photo, err := s.repos.Photos(s.db).GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	wall, err := s.repos.Walls(s.db).GetByID(ctx, photo.WallID)
	if err != nil {
		return err
	}
	if !lifecycle.Mutable(wall, s.now()) {
		return common.ErrWallImmutable
	}
	if !viewer.Is(wall.OwnerID) && !photo.UploadedBy(viewer.UserID, viewer.InvitationID) {
		return common.ErrPermissionDenied
	}
	return s.repos.Photos(s.db).Delete(ctx, photoID)
}

// Invite creates an invitation on the owner's wall.
func (s *Service) Invite(ctx context.Context, wallID int64, viewer models.Viewer, inv *models.Invitation) (*models.Invitation, error) {
	wall, err := s.repos.Walls(s.db).GetByID(ctx, wallID)
	if err != nil {
		return nil, err
	}
	if !viewer.Is(wall.OwnerID) {
		return nil, common.ErrPermissionDenied
	}
	if !lifecycle.Mutable(wall, s.now()) {
		return nil, common.ErrWallImmutable
	}
	switch inv.Type {
	case models.InviteTribeMate:
		if inv.InvitedUserID == nil {
			return nil, common.ErrValidation
		}
	case models.InviteGuest:
		if inv.InvitedEmail == "" && inv.InvitedName == "" {
			return nil, common.ErrValidation
		}
	default:
		return nil, common.ErrValidation
	}
	inv.WallID = wallID
	return s.repos.Invitations(s.db).Create(ctx, inv)
}

// AcceptInvitation consumes an invitation. A second accept fails.
func (s *Service) AcceptInvitation(ctx context.Context, id int64) (*models.Invitation, error) {
	if err := s.repos.Invitations(s.db).Accept(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Invitations(s.db).GetByID(ctx, id)
}

// ArchiveDue stamps every wall whose 48h window has elapsed, labeling it
// with the birthday year it closes in. Used by the background sweeper.
func (s *Service) ArchiveDue(ctx context.Context) (int, error) {
	due, err := s.repos.Walls(s.db).ListDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	archived := 0
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Walls(tx)
		for _, w := range due {
			if err := repo.Archive(ctx, w.ID, lifecycle.BirthdayYear(w)); err != nil {
				return err
			}
			archived++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return archived, nil
}
