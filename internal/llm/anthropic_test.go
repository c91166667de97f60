package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnthropicRequestDefaultsMaxTokens(t *testing.T) {
	request := buildAnthropicRequest(&CompletionRequest{
		Model:        "claude-3-5-haiku-latest",
		Instructions: "Du er en personvernassistent.",
		Messages:     []*Message{{Role: UserRole, Content: "Hva er en DPIA?"}},
	})

	assert.Equal(t, defaultAnthropicMaxTokens, request.MaxTokens)
	assert.Equal(t, "Du er en personvernassistent.", request.System)
	require.Len(t, request.Messages, 1)
}

func TestBuildAnthropicRequestKeepsConfiguredMaxTokens(t *testing.T) {
	request := buildAnthropicRequest(&CompletionRequest{
		Model:     "claude-3-5-haiku-latest",
		MaxTokens: 4096,
		Messages: []*Message{
			{Role: UserRole, Content: "hei"},
			{Role: AssistantRole, Content: "hei!"},
		},
	})

	assert.Equal(t, 4096, request.MaxTokens)
	require.Len(t, request.Messages, 2)
}
