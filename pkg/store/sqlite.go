package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the SQLite connection and schema for the visualization
// datasets.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode so a seeding process and a reader can share the file.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS skill_nodes (
		id TEXT PRIMARY KEY,
		grp INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS skill_links (
		source TEXT NOT NULL REFERENCES skill_nodes(id) ON DELETE CASCADE,
		target TEXT NOT NULL REFERENCES skill_nodes(id) ON DELETE CASCADE,
		weight INTEGER NOT NULL DEFAULT 1,
		position INTEGER NOT NULL,
		PRIMARY KEY (source, target)
	);

	-- One row per radar axis; series holds the dataset label.
	CREATE TABLE IF NOT EXISTS achievements (
		series TEXT NOT NULL,
		label TEXT NOT NULL,
		value REAL NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (series, label)
	);

	CREATE INDEX IF NOT EXISTS idx_skill_nodes_position ON skill_nodes(position);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create dataset tables: %w", err)
	}

	return nil
}
