package store

import (
	"github.com/pkg/errors"
)

// DeleteChatSession removes a chat session. Deleting an absent id is a no-op.
func (s *Store) DeleteChatSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM chat_sessions WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "deleting chat session")
	}
	return nil
}
