// Package models defines the client-side wire types for the birthday wall
// API and the shapes stored in the local snapshot cache.
package models

import "time"

// View is the full wall payload as served by the API read path.
type View struct {
	Wall         WallMeta     `json:"wall"`
	Photos       []Photo      `json:"photos"`
	UploadStatus UploadStatus `json:"upload_status"`
	TribeStats   TribeStats   `json:"tribe_stats"`
	FetchedAt    time.Time    `json:"fetched_at"`
}

// WallMeta mirrors the server's wall metadata including derived state.
type WallMeta struct {
	ID               int64     `json:"id"`
	ShareCode        string    `json:"share_code"`
	OwnerID          int64     `json:"owner_id"`
	Title            string    `json:"title"`
	Theme            string    `json:"theme"`
	AccentColor      string    `json:"accent_color"`
	BackgroundAnim   string    `json:"background_anim"`
	BackgroundColor  string    `json:"background_color"`
	Intensity        string    `json:"intensity"`
	BirthdayAt       time.Time `json:"birthday_at"`
	State            string    `json:"state"`
	IsOpen           bool      `json:"is_open"`
	IsSealed         bool      `json:"is_sealed"`
	IsArchived       bool      `json:"is_archived"`
	UploadsEnabled   bool      `json:"uploads_enabled"`
	UploadPaused     bool      `json:"upload_paused"`
	UploadPermission string    `json:"upload_permission"`
	BirthdayYear     int       `json:"birthday_year,omitempty"`
}

// FrameClasses are the render hints the server resolves per frame style.
type FrameClasses struct {
	Outer string `json:"outer"`
	Inner string `json:"inner"`
	Image string `json:"image"`
}

// Photo is one photo with transform, render hints and reactions.
type Photo struct {
	ID           int64             `json:"id"`
	URL          string            `json:"url"`
	Caption      string            `json:"caption"`
	Frame        string            `json:"frame"`
	FrameClasses FrameClasses      `json:"frame_classes"`
	UploaderName string            `json:"uploader_name"`
	Mine         bool              `json:"mine"`
	PosX         float64           `json:"pos_x"`
	PosY         float64           `json:"pos_y"`
	Rotation     float64           `json:"rotation"`
	Scale        float64           `json:"scale"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	ZIndex       int64             `json:"z_index"`
	Reactions    []ReactionSummary `json:"reactions"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ReactionSummary is the per-photo, per-emoji aggregate.
type ReactionSummary struct {
	Emoji   string `json:"emoji"`
	Count   int    `json:"count"`
	Reacted bool   `json:"reacted"`
}

// ReactionResult is the outcome of toggling a reaction.
type ReactionResult struct {
	Emoji          string `json:"emoji"`
	Count          int    `json:"count"`
	UserHasReacted bool   `json:"user_has_reacted"`
}

// UploadStatus mirrors the server's upload decision for the viewer.
type UploadStatus struct {
	CanUpload bool   `json:"can_upload"`
	Reason    string `json:"reason"`
}

// TribeStats is the wall's tribe enrichment block.
type TribeStats struct {
	MemberCount int `json:"member_count"`
	PhotoCount  int `json:"photo_count"`
}

// Presign is the two-step upload handshake: where to PUT the binary and
// which key to quote back when attaching.
type Presign struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

// PhotoUpdate is the photo payload returned by write endpoints.
type PhotoUpdate struct {
	ID           int64   `json:"id"`
	WallID       int64   `json:"wall_id"`
	Caption      string  `json:"caption"`
	Frame        string  `json:"frame"`
	UploaderName string  `json:"uploader_name"`
	PosX         float64 `json:"pos_x"`
	PosY         float64 `json:"pos_y"`
	Rotation     float64 `json:"rotation"`
	Scale        float64 `json:"scale"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	ZIndex       int64   `json:"z_index"`
}
