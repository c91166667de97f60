// Package chat manages the active conversation: loading its transcript,
// the send-message lifecycle, and the interactive terminal command.
package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pvassist/pvassist/client"
	"github.com/pvassist/pvassist/internal/debug"
	"github.com/pvassist/pvassist/session"
	"github.com/pvassist/pvassist/store"
)

// Sender issues the chat network call.
type Sender interface {
	SendMessage(ctx context.Context, request *client.ChatRequest) (string, error)
}

// Controller derives the active conversation's transcript from the
// coordinator and runs the send lifecycle. A response arriving after the
// user has switched conversations is discarded.
type Controller struct {
	coordinator *session.Coordinator
	sender      Sender

	mu           sync.Mutex
	activeChatID string
	messages     []*store.Message
	errMsg       string
	input        string
	ready        bool
	sending      bool
	cancelSend   context.CancelFunc
	// sendSeq identifies the current send so a stale send's cleanup cannot
	// clobber the state of a newer one.
	sendSeq uint64
}

// NewController returns a controller with no active chat. It is ready with
// an empty transcript until a chat is activated.
func NewController(coordinator *session.Coordinator, sender Sender) *Controller {
	return &Controller{
		coordinator: coordinator,
		sender:      sender,
		messages:    []*store.Message{},
		ready:       true,
	}
}

// SetActiveChat switches the controller to another conversation: any
// in-flight send is aborted, local state is reset, and the persisted
// transcript is loaded. The load result is applied only if the chat id is
// still current when it resolves, so a fast double-switch cannot clobber
// the newer transcript.
func (c *Controller) SetActiveChat(chatID string) {
	c.mu.Lock()
	if c.cancelSend != nil {
		c.cancelSend()
		c.cancelSend = nil
	}
	c.sendSeq++
	c.activeChatID = chatID
	c.messages = []*store.Message{}
	c.errMsg = ""
	c.input = ""
	c.sending = false
	if chatID == "" {
		c.ready = true
		c.mu.Unlock()
		return
	}
	c.ready = false
	c.mu.Unlock()

	c.coordinator.SwitchToChat(chatID)

	messages, err := c.coordinator.LoadChatMessages(chatID)
	if err != nil {
		debug.GetLogger().Error("loading chat messages", "error", err)
		messages = []*store.Message{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeChatID != chatID {
		// A further switch happened while loading.
		return
	}
	c.messages = messages
	c.ready = true
}

// SendMessage runs one send: optimistic user append with immediate
// persistence, the network call, then the bot append and persistence.
// Blank prompts, concurrent sends and a missing active chat are no-ops.
// An aborted call and a response for a conversation the user has left are
// silent; other failures surface through Err.
func (c *Controller) SendMessage(ctx context.Context, prompt string, contextText string) error {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}

	c.mu.Lock()
	if c.sending || c.activeChatID == "" {
		c.mu.Unlock()
		return nil
	}
	chatID := c.activeChatID
	c.sending = true
	c.errMsg = ""
	c.input = ""
	userMessage := &store.Message{
		ID:      "user-" + uuid.NewString(),
		Type:    store.MessageTypeUser,
		Message: prompt,
	}
	c.messages = append(c.messages, userMessage)
	snapshot := c.snapshotLocked()

	sendCtx, cancel := context.WithCancel(ctx)
	c.cancelSend = cancel
	c.sendSeq++
	seq := c.sendSeq
	c.mu.Unlock()
	defer c.finishSend(cancel, seq)

	if err := c.coordinator.SaveChatMessages(chatID, snapshot); err != nil {
		debug.GetLogger().Error("persisting user message", "error", err)
	}

	reply, err := c.sender.SendMessage(sendCtx, &client.ChatRequest{
		Prompt:      prompt,
		History:     []*store.Message{},
		ContextText: contextText,
	})

	c.mu.Lock()
	if c.activeChatID != chatID {
		// The user left this conversation: discard the outcome entirely.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		if !client.IsAborted(err) {
			c.errMsg = userErrorMessage(err)
		}
		c.mu.Unlock()
		if client.IsAborted(err) {
			return nil
		}
		return err
	}

	botMessage := &store.Message{
		ID:      "bot-" + uuid.NewString(),
		Type:    store.MessageTypeBot,
		Message: reply,
	}
	c.messages = append(c.messages, botMessage)
	snapshot = c.snapshotLocked()
	c.mu.Unlock()

	if err := c.coordinator.SaveChatMessages(chatID, snapshot); err != nil {
		debug.GetLogger().Error("persisting bot message", "error", err)
	}
	return nil
}

func (c *Controller) finishSend(cancel context.CancelFunc, seq uint64) {
	cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendSeq != seq {
		return
	}
	c.sending = false
	c.cancelSend = nil
}

func (c *Controller) snapshotLocked() []*store.Message {
	snapshot := make([]*store.Message, len(c.messages))
	copy(snapshot, c.messages)
	return snapshot
}

// userErrorMessage maps a send failure to a user-visible string. Unknown
// errors get a generic message.
func userErrorMessage(err error) string {
	if clientErr, ok := err.(*client.Error); ok {
		return clientErr.Message
	}
	return "Unknown error"
}

// Messages returns the current transcript.
func (c *Controller) Messages() []*store.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Err returns the user-visible error from the last send, or "".
func (c *Controller) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ActiveChatID returns the conversation the controller is bound to.
func (c *Controller) ActiveChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeChatID
}

// IsReady reports whether the transcript for the active chat is loaded.
func (c *Controller) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// IsSending reports whether a send is in flight.
func (c *Controller) IsSending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Input returns the pending input value.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput stores the pending input value.
func (c *Controller) SetInput(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = value
}
