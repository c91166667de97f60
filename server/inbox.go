package server

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/pvassist/pvassist/store"
)

const inboxTemplate = `
{{define "inbox"}}<!DOCTYPE html>
<html lang="no">
<head><meta charset="utf-8"><title>Personvern AI-assistent</title></head>
<body>
<h1>Samtaler</h1>
<ul>
{{range .Sessions}}
  <li>
    <a href="/chat/{{.ID}}">{{.Title | trunc 60}}</a>
    <small>{{.FormattedTime}} &middot; {{len .Messages}} meldinger</small>
  </li>
{{else}}
  <li>Ingen samtaler enda.</li>
{{end}}
</ul>
</body>
</html>{{end}}

{{define "chat"}}<!DOCTYPE html>
<html lang="no">
<head><meta charset="utf-8"><title>{{.Session.Title}}</title></head>
<body>
<p><a href="/">&larr; Tilbake</a></p>
<h1>{{.Session.Title}}</h1>
<small>{{.Session.FormattedTime}}</small>
{{range .Session.Messages}}
  <div class="{{.Type}}">
    <strong>{{if eq .Type "user"}}Du{{else}}Assistent{{end}}:</strong>
    <p>{{.Message}}</p>
  </div>
{{end}}
</body>
</html>{{end}}
`

// ChatSessionView is a chat session with formatted time for the template.
type ChatSessionView struct {
	*store.ChatSession
	FormattedTime string
}

func (s *Server) templates() (*template.Template, error) {
	return template.New("").Funcs(sprig.HtmlFuncMap()).Parse(inboxTemplate)
}

func (s *Server) handleInbox(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	sessions, err := s.store.ListChatSessions()
	if err != nil {
		http.Error(w, "Failed to list chat sessions", http.StatusInternalServerError)
		return
	}

	views := make([]ChatSessionView, 0, len(sessions))
	for _, session := range sessions {
		if len(session.Messages) == 0 {
			continue
		}
		views = append(views, ChatSessionView{
			ChatSession:   session,
			FormattedTime: time.UnixMilli(session.UpdatedAt).Format(time.RFC822),
		})
	}

	tmpl, err := s.templates()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "inbox", map[string]any{"Sessions": views}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	chatID := strings.TrimPrefix(r.URL.Path, "/chat/")
	if chatID == "" || strings.Contains(chatID, "/") {
		http.NotFound(w, r)
		return
	}

	session, err := s.store.GetChatSession(chatID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.NotFound(w, r)
		return
	}

	view := ChatSessionView{
		ChatSession:   session,
		FormattedTime: time.UnixMilli(session.UpdatedAt).Format(time.RFC822),
	}

	tmpl, err := s.templates()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "chat", map[string]any{"Session": view}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
