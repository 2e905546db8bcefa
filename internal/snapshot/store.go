// Package snapshot persists canonical const values in SQLite as a
// content-addressed node DAG. One row per composite node, keyed by a
// domain-separated SHA-256 of its kind and payload; children are stored as
// hashes, so structural sharing survives on disk and writes are idempotent.
//
// Loading reconstructs bottom-up through the realm's canonical store, so
// loading the same hash twice - or loading a tree that was built
// independently - converges on the identical canonical instance.
package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed content-addressed snapshot store.
type Store struct {
	db *sql.DB
}

// Open creates or opens a snapshot database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SetRoot pins name to a node hash. The node must already be saved.
func (s *Store) SetRoot(ctx context.Context, name, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roots (name, hash) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET hash = excluded.hash
	`, name, hash)
	if err != nil {
		return fmt.Errorf("set root %q: %w", name, err)
	}
	return nil
}

// Root returns the hash pinned under name.
func (s *Store) Root(ctx context.Context, name string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT hash FROM roots WHERE name = ?`, name).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("root %q not found", name)
	}
	if err != nil {
		return "", fmt.Errorf("root %q: %w", name, err)
	}
	return hash, nil
}
