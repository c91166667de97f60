// Package server hosts the assistant's HTTP API: the chat endpoint, the
// checklist-to-text endpoint, the internal-status endpoint and a small web
// inbox for browsing stored conversations.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pvassist/pvassist/internal/configuration"
	"github.com/pvassist/pvassist/internal/debug"
	"github.com/pvassist/pvassist/internal/llm"
	"github.com/pvassist/pvassist/store"
)

// Instructions given to the model. The internal variant is used once the
// user has declared being a municipality employee.
const (
	baseInstructions = "Du er en personvernassistent som hjelper ansatte med " +
		"personvernsporsmal etter GDPR og norsk personopplysningslov. " +
		"Svar kort, konkret og pa norsk."
	internalInstructions = baseInstructions + " Brukeren er en intern ansatt: " +
		"du kan vise til interne rutiner for behandling av personopplysninger."
)

// Server handles the assistant API and the web inbox.
type Server struct {
	config    *configuration.ServerConfig
	llmClient llm.Client
	store     *store.Store

	mu       sync.Mutex
	internal bool
}

// New instantiates a server. The store may be nil, which disables the
// inbox pages but leaves the API fully functional.
func New(config *configuration.ServerConfig, llmClient llm.Client, s *store.Store) *Server {
	return &Server{
		config:    config,
		llmClient: llmClient,
		store:     s,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/chat/", s.handleChat)
	mux.HandleFunc("/api/checklist/json_to_string/", s.handleChecklistToText)
	mux.HandleFunc("/api/internal-status/set_system_instruction/", s.handleSetSystemInstruction)
	if s.store != nil {
		mux.HandleFunc("/", s.handleInbox)
		mux.HandleFunc("/chat/", s.handleChatPage)
	}
	return mux
}

// Start serves until the listener fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

// instructions returns the active system instructions.
func (s *Server) instructions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.internal {
		return internalInstructions
	}
	return baseInstructions
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		debug.GetLogger().Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
