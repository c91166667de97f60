package store

import (
	"github.com/pkg/errors"
)

// ListChatSessions returns every chat session, most recently updated first.
func (s *Store) ListChatSessions() ([]*ChatSession, error) {
	rows, err := s.db.Query(`
		SELECT id, title, messages, checklist_id, created_at, updated_at
		FROM chat_sessions
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "querying chat sessions")
	}
	defer rows.Close()

	var sessions []*ChatSession
	for rows.Next() {
		session, err := scanChatSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating chat session rows")
	}
	return sessions, nil
}
