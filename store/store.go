package store

import (
	"database/sql"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Store implements a SQLite store for chat sessions, checklist sessions
// and durable preferences.
type Store struct {
	db *sql.DB
}

// New opens (and if needed initializes) a store at the given path.
// Safe to call on an already-initialized database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chat_sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			messages TEXT NOT NULL,
			checklist_id TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating chat_sessions table")
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS chat_sessions_updated_at ON chat_sessions (updated_at)`)
	if err != nil {
		return nil, errors.Wrap(err, "creating chat_sessions index")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS checklist_sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			data TEXT NOT NULL,
			chat_id TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating checklist_sessions table")
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS checklist_sessions_updated_at ON checklist_sessions (updated_at)`)
	if err != nil {
		return nil, errors.Wrap(err, "creating checklist_sessions index")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, errors.Wrap(err, "creating preferences table")
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
