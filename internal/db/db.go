// Package db provides the SQLite connection and schema for the bridge
// resource datastore.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Resource datastore - one row per CLIP resource, JSON payload.
	// id_v1 keeps the legacy numeric identity stable across restarts.
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY,
			rtype TEXT NOT NULL,
			id_v1 TEXT,
			payload TEXT NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_resources_rtype ON resources(rtype);
	`)
	if err != nil {
		return fmt.Errorf("failed to create resources table: %w", err)
	}

	// Registered application keys (legacy whitelist)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS app_keys (
			username TEXT PRIMARY KEY,
			devicetype TEXT NOT NULL,
			client_key TEXT,
			created_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create app_keys table: %w", err)
	}

	return nil
}
