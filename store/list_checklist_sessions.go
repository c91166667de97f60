package store

import (
	"github.com/pkg/errors"
)

// ListChecklistSessions returns every checklist session, most recently updated first.
func (s *Store) ListChecklistSessions() ([]*ChecklistSession, error) {
	rows, err := s.db.Query(`
		SELECT id, title, data, chat_id, created_at, updated_at
		FROM checklist_sessions
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "querying checklist sessions")
	}
	defer rows.Close()

	var sessions []*ChecklistSession
	for rows.Next() {
		session, err := scanChecklistSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating checklist session rows")
	}
	return sessions, nil
}
