// Package storage provides SQLite persistence for catalog payload snapshots.
// A snapshot is the last successfully fetched raw catalog; it is served as a
// stale copy when a refresh fails.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSnapshot is returned by Load when no snapshot has been saved yet.
var ErrNoSnapshot = errors.New("no catalog snapshot stored")

// SnapshotStore holds at most one catalog payload per source.
type SnapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore opens or creates the snapshot database at dbPath and
// initializes the schema. Parent directories are created if missing.
func NewSnapshotStore(dbPath string) (*SnapshotStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection to :memory: would see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog_snapshots (
		source TEXT PRIMARY KEY,
		generation TEXT NOT NULL,
		payload BLOB NOT NULL,
		fetched_at TIMESTAMP NOT NULL
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Save stores payload as the current snapshot for source, replacing any
// previous one. generation tags the load cycle that produced it.
func (s *SnapshotStore) Save(ctx context.Context, source, generation string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_snapshots (source, generation, payload, fetched_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
		 generation = excluded.generation,
		 payload = excluded.payload,
		 fetched_at = excluded.fetched_at`,
		source, generation, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored payload for source and when it was fetched.
// Returns ErrNoSnapshot when none exists.
func (s *SnapshotStore) Load(ctx context.Context, source string) ([]byte, time.Time, error) {
	var payload []byte
	var fetchedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM catalog_snapshots WHERE source = ?`, source,
	).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, fetchedAt, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error { return s.db.Close() }
