package probecache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"corpusmix/internal/media/probe"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes.
const schemaVersion = 2

// Store manages the duration cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ probe.CacheStore = (*Store)(nil)

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas are per connection and parallel loaders share the store.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the cached duration for key, if any.
func (s *Store) Lookup(ctx context.Context, key probe.CacheKey) (float64, bool, error) {
	var seconds float64
	err := s.db.QueryRowContext(ctx,
		"SELECT seconds FROM clip_durations WHERE backend = ? AND path = ? AND size_bytes = ? AND mtime_ns = ?",
		key.Backend, key.Path, key.Size, key.ModTime.UnixNano(),
	).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup duration: %w", err)
	}
	return seconds, true, nil
}

// Save records the duration for key, replacing stale rows for the same path
// and backend.
func (s *Store) Save(ctx context.Context, key probe.CacheKey, seconds float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM clip_durations WHERE backend = ? AND path = ?", key.Backend, key.Path); err != nil {
		return fmt.Errorf("clear stale durations: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO clip_durations (backend, path, size_bytes, mtime_ns, seconds, probed_at) VALUES (?, ?, ?, ?, ?, ?)",
		key.Backend, key.Path, key.Size, key.ModTime.UnixNano(), seconds, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert duration: %w", err)
	}
	return tx.Commit()
}

// Count returns the number of cached clips.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM clip_durations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count durations: %w", err)
	}
	return n, nil
}
