// Package store provides a best-effort durable string key/value store
// backed by SQLite. Reads and writes never surface errors to callers:
// a failed read behaves like a missing key and a failed write is a
// no-op, with the failure reported to the diagnostic log only.
package store

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Store is a durable key→value store. The zero value (or a Store from
// a failed Open) is usable: Get always misses and Set is a no-op.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at path. On any failure it logs
// and returns a no-op store so callers never need an error path.
func Open(path string) *Store {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Warn("store: mkdir failed, persistence disabled", "path", path, "err", err)
		return &Store{}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		slog.Warn("store: open failed, persistence disabled", "path", path, "err", err)
		return &Store{}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		slog.Warn("store: schema failed, persistence disabled", "path", path, "err", err)
		_ = db.Close()
		return &Store{}
	}
	return &Store{db: db}
}

// Get returns the value for key. ok is false when the key is absent
// or the read fails; absence is an expected state, not an error.
func (s *Store) Get(key string) (value string, ok bool) {
	if s == nil || s.db == nil {
		return "", false
	}
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		slog.Warn("store: get failed", "key", key, "err", err)
		return "", false
	}
	return value, true
}

// Set writes key=value. Failures are logged and swallowed.
func (s *Store) Set(key, value string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		slog.Warn("store: set failed", "key", key, "err", err)
	}
}

// Close closes the underlying database, if any.
func (s *Store) Close() {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		slog.Warn("store: close failed", "err", err)
	}
}
