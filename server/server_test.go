package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvassist/pvassist/checklist"
	"github.com/pvassist/pvassist/internal/configuration"
	"github.com/pvassist/pvassist/internal/llm"
	"github.com/pvassist/pvassist/store"
)

type fakeLLM struct {
	reply    string
	err      error
	requests []*llm.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, request *llm.CompletionRequest) (string, error) {
	f.requests = append(f.requests, request)
	return f.reply, f.err
}

func newTestServer(t *testing.T, llmClient llm.Client) (*httptest.Server, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	server := New(&configuration.ServerConfig{Model: "gpt-4o-mini"}, llmClient, s)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, s
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	response, err := http.Post(url, "application/json", bytes.NewReader(encoded))
	require.NoError(t, err)
	return response
}

func decodeBody(t *testing.T, response *http.Response) map[string]string {
	t.Helper()
	defer response.Body.Close()
	decoded := map[string]string{}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&decoded))
	return decoded
}

func TestChatEndpoint(t *testing.T) {
	fake := &fakeLLM{reply: "En DPIA er en konsekvensvurdering."}
	ts, _ := newTestServer(t, fake)

	response := postJSON(t, ts.URL+"/api/chat/chat/", map[string]any{
		"prompt": "Hva er en DPIA?",
		"history": []map[string]string{
			{"id": "user-1", "type": "user", "message": "hei"},
			{"id": "bot-1", "type": "bot", "message": "hei!"},
		},
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	body := decodeBody(t, response)
	assert.Equal(t, "En DPIA er en konsekvensvurdering.", body["response"])

	require.Len(t, fake.requests, 1)
	request := fake.requests[0]
	require.Len(t, request.Messages, 3)
	assert.Equal(t, llm.UserRole, request.Messages[0].Role)
	assert.Equal(t, llm.AssistantRole, request.Messages[1].Role)
	assert.Equal(t, "Hva er en DPIA?", request.Messages[2].Content)
	assert.Equal(t, "gpt-4o-mini", request.Model)
}

func TestChatEndpointIncludesContextText(t *testing.T) {
	fake := &fakeLLM{reply: "ok"}
	ts, _ := newTestServer(t, fake)

	response := postJSON(t, ts.URL+"/api/chat/chat/", map[string]any{
		"prompt":       "Hva bor jeg passe pa?",
		"context_text": "Project summary: Opptak",
	})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0].Instructions, "Project summary: Opptak")
}

func TestChatEndpointRequiresPrompt(t *testing.T) {
	ts, _ := newTestServer(t, &fakeLLM{})

	response := postJSON(t, ts.URL+"/api/chat/chat/", map[string]any{"prompt": ""})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	body := decodeBody(t, response)
	assert.NotEmpty(t, body["error"])
}

func TestChatEndpointCompletionFailure(t *testing.T) {
	ts, _ := newTestServer(t, &fakeLLM{err: assert.AnError})

	response := postJSON(t, ts.URL+"/api/chat/chat/", map[string]any{"prompt": "hei"})
	require.Equal(t, http.StatusBadGateway, response.StatusCode)
	body := decodeBody(t, response)
	assert.NotEmpty(t, body["error"])
}

func TestChecklistToTextEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, &fakeLLM{})

	payload := checklist.DefaultPayload()
	payload.SelectedOption = checklist.OptionReceive
	payload.ContextData.ProjectSummary = "Opptak"

	response := postJSON(t, ts.URL+"/api/checklist/json_to_string/", payload)
	require.Equal(t, http.StatusOK, response.StatusCode)
	body := decodeBody(t, response)
	assert.Contains(t, body["response"], "Selected option: motta")
	assert.Contains(t, body["response"], "Project summary: Opptak")
}

func TestChecklistToTextEndpointRejectsMalformedPayload(t *testing.T) {
	ts, _ := newTestServer(t, &fakeLLM{})

	response, err := http.Post(ts.URL+"/api/checklist/json_to_string/", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	body := decodeBody(t, response)
	assert.Equal(t, "invalid checklist payload", body["error"])
}

func TestSetSystemInstructionSwitchesInstructions(t *testing.T) {
	fake := &fakeLLM{reply: "ok"}
	ts, _ := newTestServer(t, fake)

	response := postJSON(t, ts.URL+"/api/internal-status/set_system_instruction/", map[string]bool{"isInternal": true})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = postJSON(t, ts.URL+"/api/chat/chat/", map[string]any{"prompt": "hei"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	require.Len(t, fake.requests, 1)
	assert.Contains(t, fake.requests[0].Instructions, "intern ansatt")
}

func TestSetSystemInstructionRequiresField(t *testing.T) {
	ts, _ := newTestServer(t, &fakeLLM{})

	response := postJSON(t, ts.URL+"/api/internal-status/set_system_instruction/", map[string]string{})
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	response.Body.Close()
}

func TestInboxListsSessionsWithMessages(t *testing.T) {
	ts, s := newTestServer(t, &fakeLLM{})

	require.NoError(t, s.SaveChatSession(&store.ChatSession{
		ID:    "chat-1",
		Title: "Opptak av barnehageplass",
		Messages: []*store.Message{
			{ID: "user-1", Type: store.MessageTypeUser, Message: "hei"},
		},
		CreatedAt: 1,
		UpdatedAt: 1,
	}))
	require.NoError(t, s.SaveChatSession(&store.ChatSession{ID: "chat-empty", Title: "Ny samtale", CreatedAt: 2, UpdatedAt: 2}))

	response, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	content, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	page := string(content)
	assert.Contains(t, page, "Opptak av barnehageplass")
	assert.NotContains(t, page, "chat-empty")
}

func TestChatPageShowsTranscript(t *testing.T) {
	ts, s := newTestServer(t, &fakeLLM{})

	require.NoError(t, s.SaveChatSession(&store.ChatSession{
		ID:    "chat-1",
		Title: "Opptak",
		Messages: []*store.Message{
			{ID: "user-1", Type: store.MessageTypeUser, Message: "Hva er en DPIA?"},
			{ID: "bot-1", Type: store.MessageTypeBot, Message: "En konsekvensvurdering."},
		},
		CreatedAt: 1,
		UpdatedAt: 1,
	}))

	response, err := http.Get(ts.URL + "/chat/chat-1")
	require.NoError(t, err)
	defer response.Body.Close()
	require.Equal(t, http.StatusOK, response.StatusCode)

	content, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	page := string(content)
	assert.Contains(t, page, "Hva er en DPIA?")
	assert.Contains(t, page, "En konsekvensvurdering.")
}

func TestChatPageUnknownSession(t *testing.T) {
	ts, _ := newTestServer(t, &fakeLLM{})

	response, err := http.Get(ts.URL + "/chat/chat-unknown")
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}
