// Package store persists named JSON blobs. The SQL backend runs on sqlite
// (default) or Postgres through pgx; Memory keeps blobs in process.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB is a blob store backed by a SQL table.
type DB struct {
	db     *sqlx.DB
	driver string
}

// Open connects to driver ("sqlite" or "pgx") and pings it. For sqlite the
// parent directory of the database file is created if missing.
func Open(driver, connection string) (*DB, error) {
	if driver == "sqlite" {
		if err := ensureParentDir(connection); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if driver == "sqlite" {
		// One writer at a time; avoids SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	slog.Info("database connected", "driver", driver)
	return &DB{db: db, driver: driver}, nil
}

func ensureParentDir(connection string) error {
	path := connection
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimPrefix(path, "file:")
	if path == "" || strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Get returns the blob stored under name. ok is false when there is none.
func (s *DB) Get(ctx context.Context, name string) ([]byte, bool, error) {
	var body string
	err := s.db.GetContext(ctx, &body, s.db.Rebind(`SELECT body FROM blobs WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob %s: %w", name, err)
	}
	return []byte(body), true, nil
}

const upsertBlob = `INSERT INTO blobs (name, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`

// Put writes one blob, replacing any previous value.
func (s *DB) Put(ctx context.Context, name string, body []byte) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(upsertBlob), name, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("put blob %s: %w", name, err)
	}
	return nil
}

// PutMany writes all blobs in a single transaction.
func (s *DB) PutMany(ctx context.Context, blobs map[string][]byte) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	query := tx.Rebind(upsertBlob)
	for name, body := range blobs {
		if _, err := tx.ExecContext(ctx, query, name, string(body), now); err != nil {
			return fmt.Errorf("put blob %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Delete removes a blob. Deleting a missing blob is not an error.
func (s *DB) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM blobs WHERE name = ?`), name); err != nil {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}

func (s *DB) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
