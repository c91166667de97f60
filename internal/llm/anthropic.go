package llm

import (
	"context"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/pkg/errors"
)

// AnthropicClient wraps the go-anthropic client.
type AnthropicClient struct {
	client *anthropic.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(apiKey)
	return &AnthropicClient{client: client}
}

// The messages API rejects requests without a positive max_tokens.
const defaultAnthropicMaxTokens = 1024

func (c *AnthropicClient) Complete(ctx context.Context, request *CompletionRequest) (string, error) {
	response, err := c.client.CreateMessages(ctx, buildAnthropicRequest(request))
	if err != nil {
		return "", errors.Wrap(err, "creating messages")
	}
	if len(response.Content) == 0 {
		return "", errors.Errorf("MessagesResponse returned no content: %+v", response)
	}
	return response.Content[0].GetText(), nil
}

func buildAnthropicRequest(request *CompletionRequest) anthropic.MessagesRequest {
	messages := make([]anthropic.Message, 0, len(request.Messages))
	for _, message := range request.Messages {
		switch message.Role {
		case UserRole, SystemRole:
			messages = append(messages, anthropic.NewUserTextMessage(message.Content))
		case AssistantRole:
			messages = append(messages, anthropic.NewAssistantTextMessage(message.Content))
		}
	}
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	return anthropic.MessagesRequest{
		Model:     anthropic.Model(request.Model),
		System:    request.Instructions,
		Messages:  messages,
		MaxTokens: maxTokens,
	}
}
