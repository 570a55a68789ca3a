// Package db provides the SQLite connection and schema for huectl's write history.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database, creating its directory if needed, and initializes the schema
func Open(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

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
	// Write ledger - append-only history of every mutating call sent to the bridge
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS write_ledger (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			body TEXT,
			outcome TEXT NOT NULL,
			error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_write_ledger_ts ON write_ledger(timestamp);
		CREATE INDEX IF NOT EXISTS idx_write_ledger_run ON write_ledger(run_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create write_ledger table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
