package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

// ValidateImage checks the binary locally before any network traffic: size
// within the server limit and a sniffed MIME type the server accepts. The
// detected content type is returned for the presign request.
func ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", common.ErrValidation)
	}
	if int64(len(data)) > common.MaxUploadBytes {
		return "", fmt.Errorf("%w: file size %d exceeds limit %d", common.ErrValidation, len(data), common.MaxUploadBytes)
	}
	contentType := http.DetectContentType(data)
	if !common.IsAcceptedImageType(contentType) {
		return "", fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, contentType)
	}
	return contentType, nil
}

type presignRequest struct {
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Presign asks the server for a one-shot PUT URL for the given upload.
func (c *Client) Presign(ctx context.Context, code, contentType string, sizeBytes int64) (*models.Presign, error) {
	var presign models.Presign
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/walls/%s/photos/presign", code),
		presignRequest{ContentType: contentType, SizeBytes: sizeBytes}, &presign)
	if err != nil {
		return nil, err
	}
	return &presign, nil
}

// UploadBinary PUTs the file to the presigned URL. Failures here are
// transport failures: nothing was attached and the caller may retry the
// whole presign/upload/attach sequence.
func (c *Client) UploadBinary(ctx context.Context, url, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.upload.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUploadTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: upload failed: %s; body: %s", common.ErrUploadTransport, resp.Status, string(b))
	}
	return nil
}

// AttachParams describes the uploaded binary being placed on the wall.
type AttachParams struct {
	StorageKey string  `json:"storage_key"`
	Caption    string  `json:"caption,omitempty"`
	Frame      string  `json:"frame"`
	PosX       float64 `json:"pos_x"`
	PosY       float64 `json:"pos_y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// Attach records the uploaded binary as a photo on the wall.
func (c *Client) Attach(ctx context.Context, code string, params AttachParams) (*models.PhotoUpdate, error) {
	var photo models.PhotoUpdate
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/walls/%s/photos", code), params, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

type moveRequest struct {
	PosX float64 `json:"pos_x"`
	PosY float64 `json:"pos_y"`
}

type rotateRequest struct {
	Rotation float64 `json:"rotation"`
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Move persists a drag gesture's final position.
func (c *Client) Move(ctx context.Context, photoID int64, x, y float64) (*models.PhotoUpdate, error) {
	var photo models.PhotoUpdate
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/photos/%d/position", photoID), moveRequest{PosX: x, PosY: y}, &photo)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Rotate persists a rotation gesture.
func (c *Client) Rotate(ctx context.Context, photoID int64, degrees float64) (*models.PhotoUpdate, error) {
	var photo models.PhotoUpdate
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/photos/%d/position", photoID), rotateRequest{Rotation: degrees}, &photo)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Resize persists a resize gesture.
func (c *Client) Resize(ctx context.Context, photoID int64, width, height float64) (*models.PhotoUpdate, error) {
	var photo models.PhotoUpdate
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/photos/%d/position", photoID), resizeRequest{Width: width, Height: height}, &photo)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// BringToFront raises the photo above every other photo on its wall.
func (c *Client) BringToFront(ctx context.Context, photoID int64) (*models.PhotoUpdate, error) {
	var photo models.PhotoUpdate
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/photos/%d/layer/front", photoID), nil, &photo)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

// React toggles the caller's emoji reaction on a photo.
func (c *Client) React(ctx context.Context, photoID int64, emoji string) (*models.ReactionResult, error) {
	var result models.ReactionResult
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/photos/%d/reactions", photoID), reactionRequest{Emoji: emoji}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
