package store

import "encoding/json"

// ChecklistSession holds a persisted checklist.
// Data is the full checklist payload, opaque to the store.
type ChecklistSession struct {
	ID    string
	Title string
	Data  json.RawMessage
	// Optional back-reference to the chat derived from this checklist.
	// Set at most once; once set, reused.
	ChatID    string
	CreatedAt int64
	UpdatedAt int64
}
