package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
//
// The schema mirrors the four registers of the office correspondence book:
// the Inward and Outward tables share one entries table keyed by
// (sheet, row_number), and Confirmations and Entry_Links are append logs.
// Row numbers start at 2 so entry ids like "Inward-2" stay compatible with
// the ledger convention of a header row occupying row 1.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			sheet TEXT NOT NULL,
			row_number INTEGER NOT NULL,
			uid TEXT NOT NULL,
			serial_no INTEGER NOT NULL,
			means TEXT NOT NULL DEFAULT '',
			ref_no TEXT NOT NULL DEFAULT '',
			person TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			actor TEXT NOT NULL DEFAULT '',
			occurred_at TEXT NOT NULL DEFAULT '',
			action_status TEXT NOT NULL DEFAULT '',
			file_reference TEXT NOT NULL DEFAULT '',
			postal_tariff TEXT NOT NULL DEFAULT '',
			due_date TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (sheet, row_number)
		);`,
		`CREATE TABLE IF NOT EXISTS confirmations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			user_email TEXT NOT NULL DEFAULT '',
			sheet_name TEXT NOT NULL,
			row_number INTEGER NOT NULL,
			entry_id TEXT NOT NULL,
			status TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			action_type TEXT NOT NULL DEFAULT ''
		);`,
		// One confirmation per entry, enforced at the storage level so a
		// concurrent confirm cannot slip past the existence check.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_confirmations_entry
			ON confirmations (sheet_name, row_number);`,
		`CREATE TABLE IF NOT EXISTS entry_links (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			link_id TEXT NOT NULL,
			primary_entry_id TEXT NOT NULL,
			linked_entry_id TEXT NOT NULL,
			link_type TEXT NOT NULL DEFAULT 'Manual Link',
			created_at TEXT NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			link_group_id TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entry_links_primary
			ON entry_links (primary_entry_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
