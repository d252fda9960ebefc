package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating the file and its
// directory if needed, and initializes the schema.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite allows a single writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS decks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT false,
			school TEXT,
			course TEXT,
			professor TEXT,
			year INTEGER,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_decks (
			user_id TEXT NOT NULL,
			deck_id TEXT NOT NULL,
			is_owner BOOLEAN NOT NULL DEFAULT false,
			is_favorite BOOLEAN NOT NULL DEFAULT false,
			added_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, deck_id),
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (deck_id) REFERENCES decks(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			deck_id TEXT NOT NULL,
			front TEXT NOT NULL,
			back TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			FOREIGN KEY (deck_id) REFERENCES decks(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS study_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			card_id TEXT NOT NULL,
			reviewed_at TIMESTAMP NOT NULL,
			ease_factor REAL NOT NULL,
			interval_days INTEGER NOT NULL,
			repetitions INTEGER NOT NULL,
			last_quality INTEGER NOT NULL,
			due_date TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
		)`,
		// Latest-by-pair and due-date scans both hit this index.
		`CREATE INDEX IF NOT EXISTS idx_study_logs_user_card_time
			ON study_logs (user_id, card_id, reviewed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_study_logs_due
			ON study_logs (user_id, due_date)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			reporter_id TEXT NOT NULL,
			report_type TEXT NOT NULL,
			content_id TEXT NOT NULL,
			reason TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			admin_notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			FOREIGN KEY (reporter_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_reporter
			ON reports (reporter_id, status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
