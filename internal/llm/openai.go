package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient for openai.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey, apiHost string) *OpenAIClient {
	openAIConfig := openai.DefaultConfig(apiKey)
	if apiHost != "" {
		openAIConfig.BaseURL = apiHost
	}
	client := openai.NewClientWithConfig(openAIConfig)
	return &OpenAIClient{client: client}
}

func (c *OpenAIClient) Complete(ctx context.Context, request *CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages)+1)
	if request.Instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: request.Instructions})
	}
	for _, message := range request.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: message.Role, Content: message.Content})
	}
	openAIRequest := openai.ChatCompletionRequest{
		Model:       request.Model,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		Messages:    messages,
	}
	response, err := c.client.CreateChatCompletion(ctx, openAIRequest)
	if err != nil {
		return "", errors.Wrap(err, "creating chat completion")
	}
	if len(response.Choices) == 0 {
		return "", errors.Errorf("ChatCompletionResponse returned no choice: %+v", response)
	}
	return response.Choices[0].Message.Content, nil
}
