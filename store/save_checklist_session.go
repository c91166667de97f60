package store

import (
	"github.com/pkg/errors"
)

// SaveChecklistSession upserts a checklist session by id, replacing the
// record in full.
func (s *Store) SaveChecklistSession(session *ChecklistSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	data := session.Data
	if len(data) == 0 {
		data = []byte("{}")
	}

	_, err := s.db.Exec(`
		REPLACE INTO checklist_sessions (id, title, data, chat_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.ID, session.Title, string(data), session.ChatID, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "writing checklist session")
	}
	return nil
}
