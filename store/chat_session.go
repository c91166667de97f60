package store

// Message types.
const (
	MessageTypeUser = "user"
	MessageTypeBot  = "bot"
)

// Message is a single entry of a chat transcript.
// Insertion order is display order.
type Message struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ChatSession holds a persisted chat conversation.
type ChatSession struct {
	// ID of this session. Opaque, immutable.
	ID string
	// Human-readable label.
	Title string
	// The transcript, append-only.
	Messages []*Message
	// Optional back-reference to the checklist that seeded this chat.
	ChecklistID string
	// Millisecond timestamps.
	CreatedAt int64
	UpdatedAt int64
}
