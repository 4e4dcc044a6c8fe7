// Package permission evaluates whether a viewer may add a photo to a wall.
// Evaluation is a pure function of wall state and the viewer's relationship
// to it, so every denial carries a reason precise enough for a distinct
// user-facing message.
package permission

import (
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/lifecycle"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/models"
)

// Reason explains an upload decision.
type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonSealed          Reason = "sealed"
	ReasonClosed          Reason = "closed"
	ReasonDisabled        Reason = "disabled"
	ReasonPaused          Reason = "paused"
	ReasonNotInvited      Reason = "not_invited"
	ReasonAlreadyUploaded Reason = "already_uploaded"
)

// Relationship is the viewer's standing toward the wall.
type Relationship string

const (
	RelOwner Relationship = "owner"
	// RelTribeMate: a platform user sharing the owner's birthday tribe.
	RelTribeMate Relationship = "tribe_mate"
	// RelGuest: the holder of an accepted guest invitation.
	RelGuest Relationship = "guest"
	// RelStranger: everyone else, including guests who have not accepted.
	RelStranger Relationship = "stranger"
)

// Input gathers everything the policy needs. HasUploaded is the viewer's
// prior-upload record on this wall.
type Input struct {
	Wall         *models.Wall
	Now          time.Time
	Relationship Relationship
	HasUploaded  bool
}

// Decision is the policy output.
type Decision struct {
	CanUpload bool
	Reason    Reason
}

// Evaluate applies the denial rules in order: immutability, the open flag
// (owner excepted), the global enable switch, the pause gate (owner
// excepted), the owner bypass, the permission class, and finally the
// one-photo-per-person rule.
func Evaluate(in Input) Decision {
	if !lifecycle.Mutable(in.Wall, in.Now) {
		return Decision{Reason: ReasonSealed}
	}
	if !in.Wall.IsOpen && in.Relationship != RelOwner {
		return Decision{Reason: ReasonClosed}
	}
	if !in.Wall.UploadsEnabled {
		return Decision{Reason: ReasonDisabled}
	}
	if in.Wall.UploadPaused && in.Relationship != RelOwner {
		return Decision{Reason: ReasonPaused}
	}
	if in.Relationship == RelOwner {
		return Decision{CanUpload: true, Reason: ReasonAllowed}
	}
	if !classAdmits(in.Wall.UploadPermission, in.Relationship) {
		return Decision{Reason: ReasonNotInvited}
	}
	if in.HasUploaded {
		return Decision{Reason: ReasonAlreadyUploaded}
	}
	return Decision{CanUpload: true, Reason: ReasonAllowed}
}

func classAdmits(p models.UploadPermission, rel Relationship) bool {
	switch p {
	case models.PermissionTribeMates:
		return rel == RelTribeMate
	case models.PermissionGuests:
		return rel == RelGuest
	case models.PermissionBoth:
		return rel == RelTribeMate || rel == RelGuest
	}
	return false
}
