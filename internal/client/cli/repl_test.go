package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	wallOpen bool

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) hasWall() bool    { return f.wallOpen }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Open(ctx context.Context, code string) error {
	f.calls = append(f.calls, "open "+code)
	f.wallOpen = true
	return nil
}
func (f *fakeExec) Show(ctx context.Context) error {
	f.calls = append(f.calls, "show")
	return nil
}
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, path, caption string) error {
	f.calls = append(f.calls, "upload "+path+"|"+caption)
	return nil
}
func (f *fakeExec) React(ctx context.Context, photoID int64, emoji string) error {
	f.calls = append(f.calls, "react")
	return nil
}
func (f *fakeExec) Move(ctx context.Context, photoID int64, x, y float64) error {
	f.calls = append(f.calls, "move")
	return nil
}
func (f *fakeExec) Rotate(ctx context.Context, photoID int64, degrees float64) error {
	f.calls = append(f.calls, "rotate")
	return nil
}
func (f *fakeExec) Resize(ctx context.Context, photoID int64, width, height float64) error {
	f.calls = append(f.calls, "resize")
	return nil
}
func (f *fakeExec) Front(ctx context.Context, photoID int64) error {
	f.calls = append(f.calls, "front")
	return nil
}
func (f *fakeExec) Seal(ctx context.Context) error {
	f.calls = append(f.calls, "seal")
	return nil
}

func muteREPL(t *testing.T) {
	t.Helper()
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })
}

func TestRunREPL_OpenFlowAndCommands(t *testing.T) {
	muteREPL(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"open ABC123",
		"show",
		"status",
		"upload pic.jpg happy birthday",
		"react 5 🎉",
		"move 5 10 20",
		"front 5",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{
		"login",
		"open ABC123",
		"show",
		"status",
		"upload pic.jpg|happy birthday",
		"react",
		"move",
		"front",
	}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("call %d: got %q, want %q", i, exec.calls[i], want[i])
		}
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	muteREPL(t)

	input := strings.NewReader(strings.Join([]string{
		"open",
		"react 5",
		"move 5 10",
		"move x 10 20",
		"resize 5 one two",
		"front",
		"quit",
	}, "\n"))
	exec := &fakeExec{wallOpen: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	muteREPL(t)

	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader("show\n"))

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "show" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
