package record

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// OpenSQLite opens (creating if needed) a SQLite database holding one row per
// collection.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// A single connection keeps writers serialized inside the driver too.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}
	return db, nil
}

// SQLiteBackend stores a collection as a single row of a SQLite table.
type SQLiteBackend struct {
	db         *sql.DB
	path       string
	collection string
}

// NewSQLiteBackend returns a backend for one collection in db. The path is
// only used to build the lock key and for messages.
func NewSQLiteBackend(db *sql.DB, path, collection string) *SQLiteBackend {
	return &SQLiteBackend{db: db, path: path, collection: collection}
}

func (b *SQLiteBackend) Read() ([]byte, error) {
	var payload []byte
	err := b.db.QueryRow(`SELECT payload FROM collections WHERE name = ?`, b.collection).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %s: %w", b.collection, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select collection %s: %w", b.collection, err)
	}
	return payload, nil
}

// Write replaces the collection row with a single upsert statement.
func (b *SQLiteBackend) Write(data []byte) error {
	_, err := b.db.Exec(`INSERT INTO collections (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`, b.collection, data)
	if err != nil {
		return fmt.Errorf("failed to upsert collection %s: %w", b.collection, err)
	}
	return nil
}

func (b *SQLiteBackend) LockKey() string {
	path := b.path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path + "#" + b.collection
}

// Sibling returns the backend for the row named collection+suffix.
func (b *SQLiteBackend) Sibling(suffix string) Backend {
	return NewSQLiteBackend(b.db, b.path, b.collection+suffix)
}

func (b *SQLiteBackend) String() string {
	return b.path + "#" + b.collection
}
