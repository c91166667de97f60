// Package session owns the application state: which chat and checklist are
// active, the in-memory cache of chat sessions, and every mutation of the
// underlying store. Everything else reads and writes through it.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pvassist/pvassist/checklist"
	"github.com/pvassist/pvassist/internal/debug"
	"github.com/pvassist/pvassist/store"
)

// Placeholder titles, replaced once real content exists.
const (
	ChatTitlePlaceholder      = "Ny samtale"
	ChecklistTitlePlaceholder = checklist.TitlePlaceholder
	HandoffChatTitle          = "Personvernveiledning"
)

// TitleMaxLength is the truncation limit for derived titles.
const TitleMaxLength = 50

// Converter renders a checklist payload as context text for the chat.
type Converter interface {
	ConvertToText(ctx context.Context, payload *checklist.Payload) (string, error)
}

// Coordinator is the single source of truth for session state. It is the
// only component allowed to mutate session records.
type Coordinator struct {
	store     *store.Store
	converter Converter

	mu                 sync.Mutex
	loading            bool
	currentChatID      string
	chatSessions       []*store.ChatSession
	currentChecklistID string
	// pendingChecklistID is a single-slot handoff: set when a chat is
	// created from a checklist before any message exists, consumed by the
	// first SaveChatMessages for that chat. Overwritten, never queued.
	pendingChecklistID string
}

// New instantiates a coordinator. Call Start before using it.
func New(s *store.Store, converter Converter) *Coordinator {
	return &Coordinator{
		store:     s,
		converter: converter,
		loading:   true,
	}
}

// Start populates the chat cache and resolves the current checklist.
// Storage failures are logged, not fatal: the app starts degraded with
// empty in-memory state.
func (c *Coordinator) Start() {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	sessions, err := c.store.ListChatSessions()
	if err != nil {
		debug.GetLogger().Error("loading chat sessions", "error", err)
	} else {
		// Sessions without messages are not visible history.
		withMessages := make([]*store.ChatSession, 0, len(sessions))
		for _, session := range sessions {
			if len(session.Messages) > 0 {
				withMessages = append(withMessages, session)
			}
		}
		c.mu.Lock()
		c.chatSessions = withMessages
		c.mu.Unlock()
	}

	if err := c.resolveCurrentChecklist(); err != nil {
		debug.GetLogger().Error("resolving current checklist", "error", err)
	}
}

// resolveCurrentChecklist restores the remembered checklist id, or
// synthesizes a fresh checklist when the id is absent or dangling.
func (c *Coordinator) resolveCurrentChecklist() error {
	rememberedID, err := c.store.GetPreference(store.PreferenceCurrentChecklistID)
	if err != nil {
		return errors.Wrap(err, "reading remembered checklist id")
	}
	if rememberedID != "" {
		session, err := c.store.GetChecklistSession(rememberedID)
		if err != nil {
			return errors.Wrap(err, "verifying remembered checklist")
		}
		if session != nil {
			c.mu.Lock()
			c.currentChecklistID = rememberedID
			c.mu.Unlock()
			return nil
		}
	}
	_, err = c.CreateNewChecklist()
	return err
}

// IsLoading reports whether Start has completed. Session data must not be
// assumed available until this clears.
func (c *Coordinator) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// CurrentChatID returns the active chat id, or "" if none.
func (c *Coordinator) CurrentChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentChatID
}

// CurrentChecklistID returns the active checklist id, or "" if none.
func (c *Coordinator) CurrentChecklistID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentChecklistID
}

// ChatSessions returns the cached chat sessions, most recent first.
func (c *Coordinator) ChatSessions() []*store.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	sessions := make([]*store.ChatSession, len(c.chatSessions))
	copy(sessions, c.chatSessions)
	return sessions
}

// CreateNewChat generates a fresh chat id and makes it current. No record
// is written: an abandoned chat that never receives a message leaves no
// trace. A non-empty checklistID is stashed as the pending link for the
// first save, overwriting any unconsumed pending link.
func (c *Coordinator) CreateNewChat(checklistID string) string {
	chatID := "chat-" + uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	if checklistID != "" {
		c.pendingChecklistID = checklistID
	}
	c.currentChatID = chatID
	return chatID
}

// SwitchToChat sets the active chat id. No storage access.
func (c *Coordinator) SwitchToChat(chatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentChatID = chatID
}

// LoadChatMessages returns the persisted transcript for a chat, or an
// empty transcript if no record exists.
func (c *Coordinator) LoadChatMessages(chatID string) ([]*store.Message, error) {
	session, err := c.store.GetChatSession(chatID)
	if err != nil {
		return nil, errors.Wrap(err, "loading chat session")
	}
	if session == nil {
		return []*store.Message{}, nil
	}
	return session.Messages, nil
}

// SaveChatMessages persists the transcript for a chat, creating the record
// lazily on first save (consuming the pending checklist link), deriving
// the title from the first user message while the title is still the
// placeholder, and moving the session to the front of the cache.
func (c *Coordinator) SaveChatMessages(chatID string, messages []*store.Message) error {
	session, err := c.store.GetChatSession(chatID)
	if err != nil {
		return errors.Wrap(err, "loading existing chat session")
	}

	now := time.Now().UnixMilli()
	c.mu.Lock()
	if session == nil {
		session = &store.ChatSession{
			ID:          chatID,
			Title:       ChatTitlePlaceholder,
			ChecklistID: c.pendingChecklistID,
			CreatedAt:   now,
		}
		c.pendingChecklistID = ""
	}
	c.mu.Unlock()

	title := session.Title
	if title == ChatTitlePlaceholder {
		if derived := deriveTitle(messages); derived != "" {
			title = derived
		}
	}

	updated := &store.ChatSession{
		ID:          chatID,
		Title:       title,
		Messages:    messages,
		ChecklistID: session.ChecklistID,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   now,
	}
	if err := c.store.SaveChatSession(updated); err != nil {
		return errors.Wrap(err, "saving chat session")
	}

	if len(messages) > 0 {
		c.mu.Lock()
		filtered := make([]*store.ChatSession, 0, len(c.chatSessions)+1)
		filtered = append(filtered, updated)
		for _, cached := range c.chatSessions {
			if cached.ID != chatID {
				filtered = append(filtered, cached)
			}
		}
		c.chatSessions = filtered
		c.mu.Unlock()
	}
	return nil
}

// deriveTitle truncates the first user message to TitleMaxLength runes.
func deriveTitle(messages []*store.Message) string {
	for _, message := range messages {
		if message.Type != store.MessageTypeUser {
			continue
		}
		runes := []rune(message.Message)
		if len(runes) > TitleMaxLength {
			return string(runes[:TitleMaxLength]) + "..."
		}
		return message.Message
	}
	return ""
}

// DeleteChat removes a chat from the store and the cache, clearing the
// active chat id when it pointed at the deleted chat.
func (c *Coordinator) DeleteChat(chatID string) error {
	if err := c.store.DeleteChatSession(chatID); err != nil {
		return errors.Wrap(err, "deleting chat session")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := c.chatSessions[:0]
	for _, cached := range c.chatSessions {
		if cached.ID != chatID {
			filtered = append(filtered, cached)
		}
	}
	c.chatSessions = filtered
	if c.currentChatID == chatID {
		c.currentChatID = ""
	}
	return nil
}

// CreateNewChecklist synthesizes an empty checklist session, persists it,
// makes it current and remembers its id for the next launch.
func (c *Coordinator) CreateNewChecklist() (string, error) {
	checklistID := "checklist-" + uuid.NewString()
	now := time.Now().UnixMilli()
	session := &store.ChecklistSession{
		ID:        checklistID,
		Title:     ChecklistTitlePlaceholder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.SaveChecklistSession(session); err != nil {
		return "", errors.Wrap(err, "saving new checklist session")
	}
	if err := c.store.SetPreference(store.PreferenceCurrentChecklistID, checklistID); err != nil {
		return "", errors.Wrap(err, "remembering checklist id")
	}
	c.mu.Lock()
	c.currentChecklistID = checklistID
	c.mu.Unlock()
	return checklistID, nil
}

// SwitchToChecklist sets the active checklist id. The caller is trusted
// that the id resolves to a record.
func (c *Coordinator) SwitchToChecklist(checklistID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentChecklistID = checklistID
}

// RestoreCurrentChecklist re-reads the remembered checklist id and makes
// it current again, recovering the pointer after navigating away.
func (c *Coordinator) RestoreCurrentChecklist() error {
	rememberedID, err := c.store.GetPreference(store.PreferenceCurrentChecklistID)
	if err != nil {
		return errors.Wrap(err, "reading remembered checklist id")
	}
	if rememberedID == "" {
		return nil
	}
	c.mu.Lock()
	c.currentChecklistID = rememberedID
	c.mu.Unlock()
	return nil
}

// SaveCurrentChecklist upserts the current checklist with new data. A
// missing current checklist is a no-op. CreatedAt and the chat link are
// carried over from the existing record; the title falls back to the
// existing one, then to the placeholder.
func (c *Coordinator) SaveCurrentChecklist(payload *checklist.Payload, title string) error {
	c.mu.Lock()
	checklistID := c.currentChecklistID
	c.mu.Unlock()
	if checklistID == "" {
		return nil
	}

	existing, err := c.store.GetChecklistSession(checklistID)
	if err != nil {
		return errors.Wrap(err, "loading existing checklist session")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshaling checklist payload")
	}

	now := time.Now().UnixMilli()
	updated := &store.ChecklistSession{
		ID:        checklistID,
		Title:     title,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		updated.ChatID = existing.ChatID
		updated.CreatedAt = existing.CreatedAt
		if updated.Title == "" {
			updated.Title = existing.Title
		}
	}
	if updated.Title == "" {
		updated.Title = ChecklistTitlePlaceholder
	}

	if err := c.store.SaveChecklistSession(updated); err != nil {
		return errors.Wrap(err, "saving checklist session")
	}
	return nil
}

// DeleteChecklist removes a checklist, clearing the active checklist id
// when it pointed at the deleted one.
func (c *Coordinator) DeleteChecklist(checklistID string) error {
	if err := c.store.DeleteChecklistSession(checklistID); err != nil {
		return errors.Wrap(err, "deleting checklist session")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentChecklistID == checklistID {
		c.currentChecklistID = ""
	}
	return nil
}

// GetCurrentChecklistData returns the current checklist's payload, or nil
// when there is no current checklist or no record.
func (c *Coordinator) GetCurrentChecklistData() (*checklist.Payload, error) {
	c.mu.Lock()
	checklistID := c.currentChecklistID
	c.mu.Unlock()
	if checklistID == "" {
		return nil, nil
	}
	session, err := c.store.GetChecklistSession(checklistID)
	if err != nil {
		return nil, errors.Wrap(err, "loading checklist session")
	}
	if session == nil || len(session.Data) == 0 {
		return nil, nil
	}
	return checklist.Decode(session.Data)
}

// CreateChatFromChecklist produces the chat conversation derived from the
// current checklist. When the checklist already links to a chat, that chat
// is made current and returned: repeated calls never spawn duplicates.
// Otherwise a fresh chat record and the updated checklist record are
// persisted (chat first), the chat is made current, and the one-shot
// "send checklist context" flag is raised for the chat UI.
func (c *Coordinator) CreateChatFromChecklist() (string, error) {
	c.mu.Lock()
	checklistID := c.currentChecklistID
	c.mu.Unlock()
	if checklistID == "" {
		return "", errors.New("no active checklist")
	}

	checklistSession, err := c.store.GetChecklistSession(checklistID)
	if err != nil {
		return "", errors.Wrap(err, "loading checklist session")
	}
	if checklistSession == nil {
		return "", errors.New("checklist not found")
	}

	if checklistSession.ChatID != "" {
		c.mu.Lock()
		c.currentChatID = checklistSession.ChatID
		c.mu.Unlock()
		return checklistSession.ChatID, nil
	}

	chatID := "chat-" + uuid.NewString()
	now := time.Now().UnixMilli()
	title := checklistSession.Title
	if title == "" {
		title = HandoffChatTitle
	}
	chatSession := &store.ChatSession{
		ID:          chatID,
		Title:       title,
		Messages:    []*store.Message{},
		ChecklistID: checklistID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	updatedChecklist := &store.ChecklistSession{
		ID:        checklistSession.ID,
		Title:     checklistSession.Title,
		Data:      checklistSession.Data,
		ChatID:    chatID,
		CreatedAt: checklistSession.CreatedAt,
		UpdatedAt: now,
	}

	if err := c.store.SaveChatSession(chatSession); err != nil {
		return "", errors.Wrap(err, "saving chat session")
	}
	if err := c.store.SaveChecklistSession(updatedChecklist); err != nil {
		return "", errors.Wrap(err, "saving checklist session")
	}

	c.mu.Lock()
	c.currentChatID = chatID
	c.mu.Unlock()

	if err := c.store.SetPreference(store.PreferenceSendChecklistContext, "true"); err != nil {
		return "", errors.Wrap(err, "setting checklist context flag")
	}
	return chatID, nil
}

// GetChatChecklistID returns the checklist linked to a cached chat, or "".
// Cache lookup only, no storage read.
func (c *Coordinator) GetChatChecklistID(chatID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cached := range c.chatSessions {
		if cached.ID == chatID {
			return cached.ChecklistID
		}
	}
	return ""
}

// GetChecklistContext resolves the checklist linked to a chat and renders
// its data as context text for the chat request. Reads the chat record
// from the store so it also works for a brand-new chat not yet cached.
// Any failure yields "" rather than propagating.
func (c *Coordinator) GetChecklistContext(ctx context.Context, chatID string) string {
	checklistID := ""
	session, err := c.store.GetChatSession(chatID)
	if err != nil {
		debug.GetLogger().Error("loading chat session for context", "error", err)
	}
	if session != nil {
		checklistID = session.ChecklistID
	}
	if checklistID == "" {
		checklistID = c.GetChatChecklistID(chatID)
	}
	if checklistID == "" {
		return ""
	}

	checklistSession, err := c.store.GetChecklistSession(checklistID)
	if err != nil {
		debug.GetLogger().Error("loading checklist session for context", "error", err)
		return ""
	}
	if checklistSession == nil || len(checklistSession.Data) == 0 {
		return ""
	}
	payload, err := checklist.Decode(checklistSession.Data)
	if err != nil {
		debug.GetLogger().Error("decoding checklist payload for context", "error", err)
		return ""
	}

	text, err := c.converter.ConvertToText(ctx, payload)
	if err != nil {
		debug.GetLogger().Error("converting checklist to text", "error", err)
		return ""
	}
	return text
}

// ConsumeChecklistContextFlag reports and clears the one-shot "send
// checklist context on next chat open" flag.
func (c *Coordinator) ConsumeChecklistContextFlag() bool {
	value, err := c.store.GetPreference(store.PreferenceSendChecklistContext)
	if err != nil {
		debug.GetLogger().Error("reading checklist context flag", "error", err)
		return false
	}
	if value != "true" {
		return false
	}
	if err := c.store.DeletePreference(store.PreferenceSendChecklistContext); err != nil {
		debug.GetLogger().Error("clearing checklist context flag", "error", err)
	}
	return true
}

// InternalStatus returns whether the user has declared an employment
// status, and the declared value.
func (c *Coordinator) InternalStatus() (declared bool, internal bool) {
	value, err := c.store.GetPreference(store.PreferenceIsInternal)
	if err != nil {
		debug.GetLogger().Error("reading internal status", "error", err)
		return false, false
	}
	if value == "" {
		return false, false
	}
	return true, value == "true"
}

// SetInternalStatus durably records the declared employment status.
func (c *Coordinator) SetInternalStatus(internal bool) error {
	value := "false"
	if internal {
		value = "true"
	}
	if err := c.store.SetPreference(store.PreferenceIsInternal, value); err != nil {
		return errors.Wrap(err, "writing internal status")
	}
	return nil
}
