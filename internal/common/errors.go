// Package common defines shared constants and sentinel errors used across
// client and server layers of the birthday wall service. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Wall lifecycle errors.
	ErrOutOfWindow   = errors.New("outside wall creation window")
	ErrDuplicateWall = errors.New("wall already exists for owner")
	ErrWallImmutable = errors.New("wall is sealed or archived")

	// Upload permission errors. ErrPermissionDenied is the umbrella; the
	// precise denial cause travels as a permission.Reason alongside it.
	ErrPermissionDenied = errors.New("permission denied")
	ErrAlreadyUploaded  = errors.New("viewer already uploaded to this wall")

	// Validation / input errors (bad file, malformed caption, unknown emoji).
	ErrValidation = errors.New("validation error")

	// Transport errors. ErrTransport means the API server was unreachable;
	// ErrUploadTransport means the object store was unreachable during a
	// binary upload; ErrAttachFailed means the binary was stored but the
	// photo record could not be created.
	ErrTransport       = errors.New("transport error")
	ErrUploadTransport = errors.New("upload transport error")
	ErrAttachFailed    = errors.New("upload succeeded, attach failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
