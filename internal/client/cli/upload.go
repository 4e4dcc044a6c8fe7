package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/api"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

const defaultFrame = "classic"

// Upload runs the two-step photo upload: presign, PUT the binary to storage,
// then attach the storage key to the wall. The file is validated locally
// before any network call.
func (a *App) Upload(ctx context.Context, path, caption string) error {
	if a.code == "" {
		fmt.Fprintln(a.out, "No wall open, use: open <code>")
		return common.ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "error reading %s: %v\n", filepath.Base(path), err)
		return err
	}

	contentType, err := api.ValidateImage(data)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	frame, err := GetSimpleText(a.reader, "Frame (empty for classic)", a.out)
	if err != nil {
		return err
	}
	if frame == "" {
		frame = defaultFrame
	}

	presign, err := a.api.Presign(ctx, a.code, contentType, int64(len(data)))
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	if err := a.api.UploadBinary(ctx, presign.URL, contentType, data); err != nil {
		fmt.Fprintf(a.out, "upload failed: %v\n", err)
		return err
	}

	photo, err := a.api.Attach(ctx, a.code, api.AttachParams{
		StorageKey: presign.StorageKey,
		Caption:    caption,
		Frame:      frame,
		PosX:       a.nextSlotX(),
		PosY:       a.nextSlotY(),
		Width:      320,
		Height:     240,
	})
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(a.out, "Photo #%d is on the wall\n", photo.ID)
	return a.refreshWall(ctx, a.code)
}

// nextSlotX and nextSlotY scatter new photos diagonally so uploads from the
// CLI do not stack on one spot. The server clamps out-of-range values.
func (a *App) nextSlotX() float64 {
	return 80 + 40*float64(a.photoCount()%8)
}

func (a *App) nextSlotY() float64 {
	return 80 + 60*float64(a.photoCount()%5)
}

func (a *App) photoCount() int {
	v := a.assembler.Render()
	if v == nil {
		return 0
	}
	return len(v.Photos)
}
