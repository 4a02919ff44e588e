// Package state persists per-file scan fingerprints in a SQLite database so
// re-scans can skip files whose content has not changed.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a fingerprint cache backed by SQLite. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (creating if needed) the database at dbPath. Use ":memory:"
// for an ephemeral store in tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scan_files (
		path TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scan_files_updated_at ON scan_files(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fingerprint returns the stored fingerprint for path, or "" when none is
// recorded.
func (s *Store) Fingerprint(ctx context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fp string
	err := s.db.QueryRowContext(ctx,
		"SELECT fingerprint FROM scan_files WHERE path = ?", path,
	).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query fingerprint: %w", err)
	}
	return fp, nil
}

// SetFingerprint records the fingerprint for path, replacing any previous
// value.
func (s *Store) SetFingerprint(ctx context.Context, path, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_files (path, fingerprint, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET fingerprint = excluded.fingerprint, updated_at = excluded.updated_at`,
		path, fingerprint, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}
	return nil
}

// Forget removes the record for path. Removing an unknown path is not an
// error.
func (s *Store) Forget(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM scan_files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete fingerprint: %w", err)
	}
	return nil
}

// Paths returns all recorded paths in sorted order.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT path FROM scan_files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Prune removes records whose path is not in existing, returning how many
// were dropped. Called after a full scan so deleted source files do not
// keep stale rows around.
func (s *Store) Prune(ctx context.Context, existing []string) (int, error) {
	keep := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		keep[p] = struct{}{}
	}

	paths, err := s.Paths(ctx)
	if err != nil {
		return 0, err
	}

	dropped := 0
	for _, p := range paths {
		if _, ok := keep[p]; ok {
			continue
		}
		if err := s.Forget(ctx, p); err != nil {
			return dropped, err
		}
		dropped++
	}
	return dropped, nil
}
