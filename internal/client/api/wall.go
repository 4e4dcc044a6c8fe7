package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
)

// WallInfo is the wall metadata returned by write endpoints.
type WallInfo struct {
	ID               int64  `json:"id"`
	ShareCode        string `json:"share_code"`
	Title            string `json:"title"`
	State            string `json:"state"`
	IsSealed         bool   `json:"is_sealed"`
	IsArchived       bool   `json:"is_archived"`
	UploadsEnabled   bool   `json:"uploads_enabled"`
	UploadPaused     bool   `json:"upload_paused"`
	UploadPermission string `json:"upload_permission"`
	Created          bool   `json:"created,omitempty"`
}

// CreateWallParams are the owner-chosen wall attributes.
type CreateWallParams struct {
	Title            string `json:"title"`
	Theme            string `json:"theme,omitempty"`
	AccentColor      string `json:"accent_color,omitempty"`
	BackgroundAnim   string `json:"background_anim,omitempty"`
	BackgroundColor  string `json:"background_color,omitempty"`
	Intensity        string `json:"intensity,omitempty"`
	UploadPermission string `json:"upload_permission,omitempty"`
}

// CreateWall creates the caller's wall, or returns the existing live one.
func (c *Client) CreateWall(ctx context.Context, params CreateWallParams) (*WallInfo, error) {
	var info WallInfo
	if err := c.do(ctx, http.MethodPost, "/api/v1/walls", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// View fetches the full wall payload for a share code.
func (c *Client) View(ctx context.Context, code string) (*models.View, error) {
	var view models.View
	if err := c.get(ctx, "/api/v1/walls/"+code, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// UploadStatus asks whether the caller may upload to the wall right now.
func (c *Client) UploadStatus(ctx context.Context, code string) (*models.UploadStatus, error) {
	var status models.UploadStatus
	if err := c.get(ctx, fmt.Sprintf("/api/v1/walls/%s/upload-status", code), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Seal permanently freezes the wall. Owner only; irreversible.
func (c *Client) Seal(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/walls/%s/seal", code), nil, nil)
}
