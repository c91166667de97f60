package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pvassist/pvassist/checklist"
)

func (s *Server) handleChecklistToText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body")
		return
	}
	payload, err := checklist.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid checklist payload")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": checklist.RenderText(payload)})
}

type internalStatusRequest struct {
	IsInternal *bool `json:"isInternal"`
}

func (s *Server) handleSetSystemInstruction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var request internalStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.IsInternal == nil {
		writeError(w, http.StatusBadRequest, "isInternal is required")
		return
	}

	s.mu.Lock()
	s.internal = *request.IsInternal
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"response": "ok"})
}
