package cli

import (
	"context"
	"fmt"
)

// Login stores a bearer token for subsequent API calls. Tokens come from the
// web flow (owners and tribe mates) or from accepting an invitation (guests);
// the CLI never mints them. Viewing a wall works without one.
func (a *App) Login(ctx context.Context) error {
	token, err := GetToken(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	if token == "" {
		a.api.SetToken("")
		a.loggedIn = false
		fmt.Fprintln(a.out, "Token cleared, browsing anonymously")
		return nil
	}

	a.api.SetToken(token)
	a.loggedIn = true
	fmt.Fprintln(a.out, "Token stored")
	return nil
}
