package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/api"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/cache"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/sync"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/view"
)

// timeNow is a test seam; snapshots are stamped with the fetch instant.
var timeNow = time.Now

// wallAPI is the slice of the HTTP client the commands need.
// *api.Client satisfies it; tests provide a stub.
type wallAPI interface {
	SetToken(token string)
	View(ctx context.Context, code string) (*models.View, error)
	UploadStatus(ctx context.Context, code string) (*models.UploadStatus, error)
	Seal(ctx context.Context, code string) error
	Presign(ctx context.Context, code, contentType string, sizeBytes int64) (*models.Presign, error)
	UploadBinary(ctx context.Context, url, contentType string, data []byte) error
	Attach(ctx context.Context, code string, params api.AttachParams) (*models.PhotoUpdate, error)
	Move(ctx context.Context, photoID int64, x, y float64) (*models.PhotoUpdate, error)
	Rotate(ctx context.Context, photoID int64, degrees float64) (*models.PhotoUpdate, error)
	Resize(ctx context.Context, photoID int64, width, height float64) (*models.PhotoUpdate, error)
	BringToFront(ctx context.Context, photoID int64) (*models.PhotoUpdate, error)
	React(ctx context.Context, photoID int64, emoji string) (*models.ReactionResult, error)
}

// snapshotCache is the slice of the sqlite store the commands need.
type snapshotCache interface {
	Save(ctx context.Context, view *models.View) error
	Load(ctx context.Context, shareCode string) (*models.View, error)
	Close() error
}

type App struct {
	config    *config.Config
	api       wallAPI
	cache     snapshotCache
	assembler *view.Assembler
	reader    *bufio.Reader
	out       io.Writer

	code     string
	loggedIn bool

	stopRefresh context.CancelFunc
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := cache.Open(ctx, c.CacheDBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening snapshot cache: %w", err)
	}

	return &App{
		config:    c,
		api:       api.New(c),
		cache:     store,
		assembler: view.NewAssembler(),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) hasWall() bool {
	return a.code != ""
}

func (a *App) getStatus() string {
	s := "anon"
	if a.loggedIn {
		s = "auth"
	}
	if a.code != "" {
		s = s + " " + a.code
	}
	return fmt.Sprintf("(%s)", s)
}

// refreshWall is the background refresher body: fetch, stamp, reconcile, cache.
func (a *App) refreshWall(ctx context.Context, code string) error {
	v, err := a.api.View(ctx, code)
	if err != nil {
		return err
	}
	v.FetchedAt = timeNow()
	if a.assembler.ApplySnapshot(v) {
		if err := a.cache.Save(ctx, v); err != nil {
			fmt.Fprintf(a.out, "warning: snapshot not cached: %v\n", err)
		}
	}
	return nil
}

// startRefresher replaces any running refresher with one for the given code.
func (a *App) startRefresher(ctx context.Context, code string) {
	if a.stopRefresh != nil {
		a.stopRefresh()
	}
	refCtx, cancel := context.WithCancel(ctx)
	a.stopRefresh = cancel

	r := sync.NewRefresher(a.config.RefreshInterval, func(ctx context.Context) error {
		return a.refreshWall(ctx, code)
	})
	go r.Run(refCtx)
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		if a.stopRefresh != nil {
			a.stopRefresh()
		}
		if err := a.cache.Close(); err != nil {
			fmt.Fprintf(a.out, "error closing snapshot cache: %v\n", err)
		}
	}()

	printlnFn("Welcome to the birthday wall CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
