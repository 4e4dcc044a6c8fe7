// Package server initializes and runs the birthday wall server: database,
// migrations, domain services, the HTTP API and the background archive
// sweeper, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/logging"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/canvas"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/config"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/httpapi"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/reactions"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/repositories/repomanager"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/uploads"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/server/walls"
)

// signerProxy breaks the construction cycle between the walls service
// (which signs photo URLs at view time) and the uploads service (which is
// the signer but needs walls as its permission gate).
type signerProxy struct {
	signer walls.URLSigner
}

func (p *signerProxy) SignGet(ctx context.Context, storageKey string) (string, error) {
	return p.signer.SignGet(ctx, storageKey)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	wallService     *walls.Service
	canvasService   *canvas.Service
	reactionService *reactions.Service
	uploadService   *uploads.Service

	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	proxy := &signerProxy{}
	wallService := walls.NewService(db, repos, proxy, logger)
	uploadService := uploads.NewService(db, repos, cfg, wallService, logger)
	proxy.signer = uploadService

	canvasService := canvas.NewService(db, repos)
	reactionService := reactions.NewService(db, repos)

	registry := prometheus.NewRegistry()
	httpServer := httpapi.NewServer(wallService, canvasService, reactionService, uploadService, cfg, logger, registry)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		wallService:     wallService,
		canvasService:   canvasService,
		reactionService: reactionService,
		uploadService:   uploadService,
		httpServer:      httpServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runArchiveSweeper periodically archives walls whose 48-hour window has
// elapsed. Failures are logged and retried on the next tick.
func (app *App) runArchiveSweeper(ctx context.Context) {
	ticker := time.NewTicker(app.config.ArchiveSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.wallService.ArchiveDue(ctx)
			if err != nil {
				app.logger.Error(ctx, "archive sweep failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "archived expired walls", "count", n)
			}
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.httpServer.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runArchiveSweeper(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
