package llm

import (
	"context"

	"github.com/pkg/errors"
)

// Message roles.
const (
	SystemRole    = "system"
	UserRole      = "user"
	AssistantRole = "assistant"
)

// Providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

type Message struct {
	Role    string
	Content string
}

type CompletionRequest struct {
	Model        string
	Instructions string
	Messages     []*Message
	MaxTokens    int
	Temperature  float32
}

// Client produces a single completion for a conversation.
type Client interface {
	Complete(ctx context.Context, request *CompletionRequest) (string, error)
}

// NewClient instantiates the client for the configured provider.
func NewClient(provider, apiKey, apiHost string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, apiHost), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey), nil
	}
	return nil, errors.Errorf("unknown provider (%s)", provider)
}
