package cli

import (
	"context"
	"fmt"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

// gesture applies a local edit through the assembler's edit cycle and then
// persists it. The local change shows instantly and is rolled back when the
// server refuses it.
func (a *App) gesture(photoID int64, mutate func(*models.Photo),
	save func(models.Photo) (*models.PhotoUpdate, error)) error {

	if !a.assembler.BeginEdit(photoID) {
		fmt.Fprintf(a.out, "Photo #%d is unknown or mid-edit\n", photoID)
		return common.ErrNotFound
	}

	a.assembler.UpdateEdit(photoID, mutate)

	pending, ok := a.assembler.EndEdit(photoID)
	if !ok {
		return common.ErrNotFound
	}

	saved, err := save(pending)
	a.assembler.CompleteSave(photoID, saved, err)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	return nil
}

func (a *App) Move(ctx context.Context, photoID int64, x, y float64) error {
	return a.gesture(photoID,
		func(p *models.Photo) { p.PosX, p.PosY = x, y },
		func(p models.Photo) (*models.PhotoUpdate, error) {
			return a.api.Move(ctx, photoID, p.PosX, p.PosY)
		})
}

func (a *App) Rotate(ctx context.Context, photoID int64, degrees float64) error {
	return a.gesture(photoID,
		func(p *models.Photo) { p.Rotation = degrees },
		func(p models.Photo) (*models.PhotoUpdate, error) {
			return a.api.Rotate(ctx, photoID, p.Rotation)
		})
}

func (a *App) Resize(ctx context.Context, photoID int64, width, height float64) error {
	return a.gesture(photoID,
		func(p *models.Photo) { p.Width, p.Height = width, height },
		func(p models.Photo) (*models.PhotoUpdate, error) {
			return a.api.Resize(ctx, photoID, p.Width, p.Height)
		})
}

// Front raises the photo above everything else on the wall.
func (a *App) Front(ctx context.Context, photoID int64) error {
	saved, err := a.api.BringToFront(ctx, photoID)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(a.out, "Photo #%d is on top (z%d)\n", saved.ID, saved.ZIndex)
	return a.refreshWall(ctx, a.code)
}
