// Package models defines server-side data models persisted in the database.
package models

import "time"

// UploadPermission selects which non-owner viewers may add photos to a wall.
type UploadPermission string

const (
	PermissionNone       UploadPermission = "none"
	PermissionTribeMates UploadPermission = "tribe_mates"
	PermissionGuests     UploadPermission = "invited_guests"
	PermissionBoth       UploadPermission = "both"
)

// Valid reports whether p is one of the known permission classes.
func (p UploadPermission) Valid() bool {
	switch p {
	case PermissionNone, PermissionTribeMates, PermissionGuests, PermissionBoth:
		return true
	}
	return false
}

// AnimationIntensity controls how busy the wall background animation is.
type AnimationIntensity string

const (
	IntensityLow    AnimationIntensity = "low"
	IntensityMedium AnimationIntensity = "medium"
	IntensityHigh   AnimationIntensity = "high"
)

// Valid reports whether i is one of the known intensities.
func (i AnimationIntensity) Valid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// Wall is a per-user, birthday-cycle-scoped photo collection. At most one
// non-archived wall exists per owner; archived walls are kept forever and
// labeled by the birthday year they closed in.
type Wall struct {
	ID        int64
	ShareCode string
	OwnerID   int64

	Title           string
	Theme           string
	AccentColor     string
	BackgroundAnim  string
	BackgroundColor string
	Intensity       AnimationIntensity

	// BirthdayAt is the birthday instant this wall instance belongs to;
	// the contribution window runs from it for ActiveWindow.
	BirthdayAt time.Time

	IsOpen           bool
	IsArchived       bool
	IsSealed         bool
	UploadsEnabled   bool
	UploadPaused     bool
	UploadPermission UploadPermission

	// BirthdayYear is set at archival.
	BirthdayYear int

	// ZCounter is the per-wall monotonic counter backing bring-to-front.
	ZCounter int64

	CreatedAt time.Time
}

// Immutable reports whether every mutation must be rejected, either because
// the owner sealed the wall or because it has been archived. Archival is
// also time-derived, so callers deciding on mutations should consult
// lifecycle.State rather than the flags alone.
func (w *Wall) Immutable() bool {
	return w.IsSealed || w.IsArchived
}
