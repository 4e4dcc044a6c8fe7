package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	hasWall() bool
	Login(ctx context.Context) error
	Open(ctx context.Context, code string) error
	Show(ctx context.Context) error
	Status(ctx context.Context) error
	Upload(ctx context.Context, path, caption string) error
	React(ctx context.Context, photoID int64, emoji string) error
	Move(ctx context.Context, photoID int64, x, y float64) error
	Rotate(ctx context.Context, photoID int64, degrees float64) error
	Resize(ctx context.Context, photoID int64, width, height float64) error
	Front(ctx context.Context, photoID int64) error
	Seal(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the wall CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                          — show available commands
//	  - login                         — store a bearer token (hidden entry)
//	  - open <code>                   — open a wall by share code
//	  - exit | quit                   — leave the program
//
//	With a wall open:
//	  - show                          — render the wall
//	  - status                        — can I upload right now, and why not
//	  - upload <path> [caption...]    — put a photo on the wall
//	  - react <photo> <emoji>         — toggle a reaction
//	  - move <photo> <x> <y>          — drag a photo (owner)
//	  - rotate <photo> <deg>          — rotate a photo (owner)
//	  - resize <photo> <w> <h>        — resize a photo (owner)
//	  - front <photo>                 — bring a photo to the top (owner)
//	  - seal                          — freeze the wall forever (owner)
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("wall %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: login, open <code>, exit")
			if a.hasWall() {
				printlnFn("Wall commands: show, status, upload <path> [caption], react <photo> <emoji>")
				printlnFn("Owner commands: move <photo> <x> <y>, rotate <photo> <deg>, resize <photo> <w> <h>, front <photo>, seal")
			}

		case "login":
			_ = a.Login(ctx)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <code>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "show":
			_ = a.Show(ctx)

		case "status":
			_ = a.Status(ctx)

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path> [caption]")
				continue
			}
			caption := strings.Join(args[1:], " ")
			_ = a.Upload(ctx, args[0], caption)

		case "react":
			if len(args) != 2 {
				printlnFn("Usage: react <photo> <emoji>")
				continue
			}
			id, ok := parseID(args[0])
			if !ok {
				continue
			}
			_ = a.React(ctx, id, args[1])

		case "move":
			if len(args) != 3 {
				printlnFn("Usage: move <photo> <x> <y>")
				continue
			}
			id, ok1 := parseID(args[0])
			x, ok2 := parseCoord(args[1])
			y, ok3 := parseCoord(args[2])
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			_ = a.Move(ctx, id, x, y)

		case "rotate":
			if len(args) != 2 {
				printlnFn("Usage: rotate <photo> <deg>")
				continue
			}
			id, ok1 := parseID(args[0])
			deg, ok2 := parseCoord(args[1])
			if !ok1 || !ok2 {
				continue
			}
			_ = a.Rotate(ctx, id, deg)

		case "resize":
			if len(args) != 3 {
				printlnFn("Usage: resize <photo> <w> <h>")
				continue
			}
			id, ok1 := parseID(args[0])
			w, ok2 := parseCoord(args[1])
			h, ok3 := parseCoord(args[2])
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			_ = a.Resize(ctx, id, w, h)

		case "front":
			if len(args) != 1 {
				printlnFn("Usage: front <photo>")
				continue
			}
			id, ok := parseID(args[0])
			if !ok {
				continue
			}
			_ = a.Front(ctx, id)

		case "seal":
			_ = a.Seal(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Not a photo id:", s)
		return 0, false
	}
	return id, true
}

func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		printlnFn("Not a number:", s)
		return 0, false
	}
	return v, true
}
