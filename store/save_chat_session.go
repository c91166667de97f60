package store

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// SaveChatSession upserts a chat session by id. The record is replaced in
// full; timestamps are written as given, callers refresh UpdatedAt.
func (s *Store) SaveChatSession(session *ChatSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	messages := session.Messages
	if messages == nil {
		messages = []*Message{}
	}
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return errors.Wrap(err, "marshaling messages")
	}

	_, err = s.db.Exec(`
		REPLACE INTO chat_sessions (id, title, messages, checklist_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, session.ID, session.Title, string(messagesJSON), session.ChecklistID, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "writing chat session")
	}
	return nil
}
