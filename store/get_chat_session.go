package store

import (
	"database/sql"

	"github.com/pkg/errors"
)

// GetChatSession returns the chat session with the given id, or nil if absent.
func (s *Store) GetChatSession(id string) (*ChatSession, error) {
	row := s.db.QueryRow(`
		SELECT id, title, messages, checklist_id, created_at, updated_at
		FROM chat_sessions
		WHERE id = ?
	`, id)

	session, err := scanChatSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying chat session")
	}
	return session, nil
}
