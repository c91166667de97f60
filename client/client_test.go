package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvassist/pvassist/checklist"
	"github.com/pvassist/pvassist/store"
)

func TestChatClientSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "token-123", r.Header.Get("X-CSRFTOKEN"))

		var request ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.Equal(t, "Hva er en DPIA?", request.Prompt)
		assert.NotNil(t, request.History)
		assert.Equal(t, "prosjektkontekst", request.ContextText)

		json.NewEncoder(w).Encode(map[string]string{"response": "En DPIA er en konsekvensvurdering."})
	}))
	defer server.Close()

	c := NewChatClient(server.URL).WithCSRFToken("token-123")
	reply, err := c.SendMessage(context.Background(), &ChatRequest{
		Prompt:      "Hva er en DPIA?",
		ContextText: "prosjektkontekst",
	})
	require.NoError(t, err)
	assert.Equal(t, "En DPIA er en konsekvensvurdering.", reply)
}

func TestChatClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer server.Close()

	_, err := NewChatClient(server.URL).SendMessage(context.Background(), &ChatRequest{Prompt: "hei"})
	require.Error(t, err)
	clientErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeAPIError, clientErr.Code)
	assert.Equal(t, "Failed to send message", clientErr.Message)
}

func TestChatClientInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"unexpected": "shape"})
	}))
	defer server.Close()

	_, err := NewChatClient(server.URL).SendMessage(context.Background(), &ChatRequest{Prompt: "hei"})
	require.Error(t, err)
	clientErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidResponse, clientErr.Code)
	assert.Equal(t, "Invalid response format", clientErr.Message)
}

func TestChatClientNetworkError(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewChatClient(server.URL).SendMessage(context.Background(), &ChatRequest{Prompt: "hei"})
	require.Error(t, err)
	clientErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeNetworkError, clientErr.Code)
	assert.Equal(t, "No connection to server", clientErr.Message)
	assert.False(t, IsAborted(err))
}

func TestChatClientAborted(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := NewChatClient(server.URL).SendMessage(ctx, &ChatRequest{Prompt: "hei"})
	require.Error(t, err)
	assert.True(t, IsAborted(err))
}

func TestChecklistClientConvertToText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload checklist.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, checklist.OptionReceive, payload.SelectedOption)
		json.NewEncoder(w).Encode(map[string]string{"response": "tekst"})
	}))
	defer server.Close()

	payload := checklist.DefaultPayload()
	payload.SelectedOption = checklist.OptionReceive
	text, err := NewChecklistClient(server.URL).ConvertToText(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "tekst", text)
}

func TestChecklistClientAPIErrorUsesReportedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "ugyldig sjekkliste"})
	}))
	defer server.Close()

	_, err := NewChecklistClient(server.URL).ConvertToText(context.Background(), checklist.DefaultPayload())
	require.Error(t, err)
	clientErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeAPIError, clientErr.Code)
	assert.Equal(t, "ugyldig sjekkliste", clientErr.Message)
}

func TestChecklistClientAPIErrorFallbackMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := NewChecklistClient(server.URL).ConvertToText(context.Background(), checklist.DefaultPayload())
	require.Error(t, err)
	clientErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, "Failed to convert checklist", clientErr.Message)
}

func TestChecklistClientMissingResponseField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	_, err := NewChecklistClient(server.URL).ConvertToText(context.Background(), checklist.DefaultPayload())
	require.Error(t, err)
	clientErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidResponse, clientErr.Code)
}

func TestChatClientHistoryRoundTrip(t *testing.T) {
	var received ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer server.Close()

	history := []*store.Message{
		{ID: "user-1", Type: store.MessageTypeUser, Message: "hei"},
		{ID: "bot-1", Type: store.MessageTypeBot, Message: "hei!"},
	}
	_, err := NewChatClient(server.URL).SendMessage(context.Background(), &ChatRequest{
		Prompt:  "mer",
		History: history,
	})
	require.NoError(t, err)
	assert.Equal(t, history, received.History)
}
