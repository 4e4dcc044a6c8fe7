// Package cache is the client's local snapshot store: the last wall view
// seen per share code, kept in sqlite so the CLI can render instantly on
// reopen and degrade gracefully while offline.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/cache/migrations"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/client/models"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/common"
	"github.com/fidateq-hbm/happy-birthday-mate/internal/filex"
)

type Store struct {
	db *sql.DB
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the snapshot database and applies
// pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the latest view for its share code.
func (s *Store) Save(ctx context.Context, view *models.View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `INSERT INTO snapshots (share_code, fetched_at, payload)
			values (?, ?, ?)
			ON CONFLICT(share_code) DO UPDATE SET fetched_at = excluded.fetched_at,
				payload = excluded.payload
	`
	_, err = s.db.ExecContext(ctx, query, view.Wall.ShareCode, view.FetchedAt, string(payload))
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// Load returns the last stored view for a share code, or ErrNotFound.
func (s *Store) Load(ctx context.Context, shareCode string) (*models.View, error) {
	query := `select payload from snapshots where share_code=?`
	row := s.db.QueryRowContext(ctx, query, shareCode)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	view := &models.View{}
	if err := json.Unmarshal([]byte(payload), view); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return view, nil
}
