package models

import "time"

// InvitationType distinguishes tribe-mate invitations from guest ones.
// Guests do not need a platform account to view a wall but must accept the
// invitation before they can upload.
type InvitationType string

const (
	InviteTribeMate InvitationType = "tribe_mate"
	InviteGuest     InvitationType = "guest"
)

// Invitation grants a viewer access to a wall. An invitation is consumed
// (accepted) at most once.
type Invitation struct {
	ID     int64
	WallID int64
	Type   InvitationType

	// InvitedUserID is set for tribe-mate invitations; guest invitations
	// carry an email/name pair instead.
	InvitedUserID *int64
	InvitedEmail  string
	InvitedName   string

	Accepted   bool
	AcceptedAt *time.Time
	CreatedAt  time.Time
}
