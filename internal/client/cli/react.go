package cli

import (
	"context"
	"fmt"
)

// React toggles the caller's reaction on a photo. The same command removes a
// reaction it previously added.
func (a *App) React(ctx context.Context, photoID int64, emoji string) error {
	result, err := a.api.React(ctx, photoID, emoji)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	if result.UserHasReacted {
		fmt.Fprintf(a.out, "Added %s (now %d)\n", result.Emoji, result.Count)
	} else {
		fmt.Fprintf(a.out, "Removed %s (now %d)\n", result.Emoji, result.Count)
	}

	if a.code != "" {
		return a.refreshWall(ctx, a.code)
	}
	return nil
}
