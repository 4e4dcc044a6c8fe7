package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
)

// Open switches the CLI to the wall with the given share code. The cached
// snapshot, if any, is shown immediately; a fresh fetch follows and a
// background refresher keeps the view current until another wall is opened.
func (a *App) Open(ctx context.Context, code string) error {
	cached, err := a.cache.Load(ctx, code)
	if err == nil {
		a.assembler.ApplySnapshot(cached)
	} else if !errors.Is(err, common.ErrNotFound) {
		fmt.Fprintf(a.out, "warning: snapshot cache unreadable: %v\n", err)
	}

	if err := a.refreshWall(ctx, code); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			fmt.Fprintf(a.out, "No wall with code %q\n", code)
			return err
		}
		if cached == nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(a.out, "Server unreachable, showing cached copy from %s\n",
			cached.FetchedAt.Format("2006-01-02 15:04:05"))
	}

	a.code = code
	a.startRefresher(ctx, code)
	return a.Show(ctx)
}

// Show renders the current wall as text, one line per photo in paint order.
func (a *App) Show(ctx context.Context) error {
	v := a.assembler.Render()
	if v == nil {
		fmt.Fprintln(a.out, "No wall open, use: open <code>")
		return common.ErrNotFound
	}

	w := v.Wall
	fmt.Fprintf(a.out, "%s [%s] %s, theme %s, %d photos, %d tribe members\n",
		w.Title, w.State, w.BirthdayAt.Format("Jan 2"), w.Theme,
		v.TribeStats.PhotoCount, v.TribeStats.MemberCount)

	for _, p := range v.Photos {
		fmt.Fprintln(a.out, formatPhoto(p))
	}

	if v.UploadStatus.CanUpload {
		fmt.Fprintln(a.out, "You can upload a photo")
	}
	return nil
}

// Status reports the server-side upload decision for the caller.
func (a *App) Status(ctx context.Context) error {
	if a.code == "" {
		fmt.Fprintln(a.out, "No wall open, use: open <code>")
		return common.ErrNotFound
	}

	status, err := a.api.UploadStatus(ctx, a.code)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	if status.CanUpload {
		fmt.Fprintln(a.out, "You can upload a photo")
	} else {
		fmt.Fprintf(a.out, "Uploads closed for you: %s\n", status.Reason)
	}
	return nil
}

// Seal permanently freezes the wall. Owner only; there is no undo.
func (a *App) Seal(ctx context.Context) error {
	if a.code == "" {
		fmt.Fprintln(a.out, "No wall open, use: open <code>")
		return common.ErrNotFound
	}

	confirm, err := GetSimpleText(a.reader, "Sealing is permanent. Type 'seal' to confirm", a.out)
	if err != nil {
		return err
	}
	if confirm != "seal" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.api.Seal(ctx, a.code); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, "Wall sealed")
	return a.refreshWall(ctx, a.code)
}

func formatPhoto(p models.Photo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  #%d [z%d] (%.0f,%.0f) %.0fx%.0f rot %.0f %s by %s",
		p.ID, p.ZIndex, p.PosX, p.PosY, p.Width, p.Height, p.Rotation, p.Frame, p.UploaderName)
	if p.Caption != "" {
		fmt.Fprintf(&b, " %q", p.Caption)
	}
	for _, r := range p.Reactions {
		fmt.Fprintf(&b, " %s%d", r.Emoji, r.Count)
		if r.Reacted {
			b.WriteString("*")
		}
	}
	return b.String()
}
