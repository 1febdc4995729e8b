// Package db provides the in-memory SQLite database backing the session history.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// memoryDSN keeps the database private to the process. Each connection to
// ":memory:" is a separate database, so the pool is pinned to one connection.
const memoryDSN = ":memory:"

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// OpenMemory opens an in-memory database and initializes the schema.
// Nothing is written to disk.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite3", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Session history - append-only record of engine state changes
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			payload TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_history_session_type ON session_history(session_id, event_type);
		CREATE INDEX IF NOT EXISTS idx_history_ts ON session_history(timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create session_history table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
