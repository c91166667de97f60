package server

import (
	"encoding/json"
	"net/http"

	"github.com/pvassist/pvassist/internal/debug"
	"github.com/pvassist/pvassist/internal/llm"
	"github.com/pvassist/pvassist/store"
)

type chatRequest struct {
	Prompt      string           `json:"prompt"`
	History     []*store.Message `json:"history"`
	ContextText string           `json:"context_text"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var request chatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	instructions := s.instructions()
	if request.ContextText != "" {
		instructions += "\n\nBrukerens sjekkliste:\n" + request.ContextText
	}

	messages := make([]*llm.Message, 0, len(request.History)+1)
	for _, message := range request.History {
		role := llm.UserRole
		if message.Type == store.MessageTypeBot {
			role = llm.AssistantRole
		}
		messages = append(messages, &llm.Message{Role: role, Content: message.Message})
	}
	messages = append(messages, &llm.Message{Role: llm.UserRole, Content: request.Prompt})

	reply, err := s.llmClient.Complete(r.Context(), &llm.CompletionRequest{
		Model:        s.config.Model,
		Instructions: instructions,
		Messages:     messages,
		MaxTokens:    s.config.MaxTokens,
	})
	if err != nil {
		debug.GetLogger().Error("completing chat", "error", err)
		writeError(w, http.StatusBadGateway, "completion failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}
