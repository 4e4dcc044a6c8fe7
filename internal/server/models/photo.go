package models

import "time"

// Canvas bounds for a photo. Width and height are clamped independently;
// rotation is normalized into [0, 360).
const (
	MinPhotoSize = 100.0
	MaxPhotoSize = 800.0
)

// Photo is a single image placed on a wall's free-form canvas.
type Photo struct {
	ID     int64
	WallID int64

	// StorageKey locates the binary in object storage; viewable URLs are
	// presigned at read time and never persisted.
	StorageKey string
	Caption    string
	Frame      FrameStyle

	// UploaderName is always set; UploaderID is nil for guest uploads made
	// without a platform account. InvitationID links a guest upload back to
	// the accepted invitation it was made under.
	UploaderName string
	UploaderID   *int64
	InvitationID *int64

	// Canvas transform. Positions are wall-canvas logical units.
	PosX     float64
	PosY     float64
	Rotation float64
	Scale    float64
	Width    float64
	Height   float64
	ZIndex   int64

	CreatedAt time.Time
}

// UploadedBy reports whether the given viewer is the photo's original
// uploader: either a matching user id, or for guest uploads a matching
// accepted invitation.
func (p *Photo) UploadedBy(userID *int64, invitationID *int64) bool {
	if p.UploaderID != nil && userID != nil && *p.UploaderID == *userID {
		return true
	}
	if p.UploaderID == nil && p.InvitationID != nil && invitationID != nil && *p.InvitationID == *invitationID {
		return true
	}
	return false
}

// Reaction is one user's emoji reaction on one photo. A user holds at most
// one row per (photo, emoji).
type Reaction struct {
	ID        int64
	PhotoID   int64
	UserID    int64
	Emoji     string
	CreatedAt time.Time
}

// ReactionSummary is a per-photo aggregation returned on the read path.
type ReactionSummary struct {
	Emoji   string
	Count   int
	Reacted bool
}
