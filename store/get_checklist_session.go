package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// GetChecklistSession returns the checklist session with the given id, or nil if absent.
func (s *Store) GetChecklistSession(id string) (*ChecklistSession, error) {
	row := s.db.QueryRow(`
		SELECT id, title, data, chat_id, created_at, updated_at
		FROM checklist_sessions
		WHERE id = ?
	`, id)

	session, err := scanChecklistSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying checklist session")
	}
	return session, nil
}
