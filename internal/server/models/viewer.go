package models

// Viewer is the explicit per-request identity resolved from the bearer
// credential (or from a guest invitation token). It is passed through every
// operation instead of living in any ambient state.
type Viewer struct {
	// UserID is nil for guests viewing via an invitation.
	UserID *int64
	// InvitationID identifies a guest viewer's invitation.
	InvitationID *int64
	// Name is the display name used for uploads.
	Name string
}

// Anonymous reports whether the viewer carries no identity at all.
func (v Viewer) Anonymous() bool {
	return v.UserID == nil && v.InvitationID == nil
}

// Is reports whether the viewer is the given platform user.
func (v Viewer) Is(userID int64) bool {
	return v.UserID != nil && *v.UserID == userID
}
