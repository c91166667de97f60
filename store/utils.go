package store

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type scanner interface {
	Scan(...interface{}) error
}

func scanChatSession(row scanner) (*ChatSession, error) {
	session := &ChatSession{}
	var messagesJSON string
	if err := row.Scan(&session.ID, &session.Title, &messagesJSON,
		&session.ChecklistID, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messagesJSON), &session.Messages); err != nil {
		return nil, errors.Wrap(err, "unmarshaling messages")
	}
	return session, nil
}

func scanChecklistSession(row scanner) (*ChecklistSession, error) {
	session := &ChecklistSession{}
	var data string
	if err := row.Scan(&session.ID, &session.Title, &data,
		&session.ChatID, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return nil, err
	}
	session.Data = json.RawMessage(data)
	return session, nil
}
