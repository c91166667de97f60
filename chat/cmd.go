package chat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buger/goterm"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/pvassist/pvassist/client"
	"github.com/pvassist/pvassist/internal/cli"
	"github.com/pvassist/pvassist/internal/configuration"
	"github.com/pvassist/pvassist/internal/markdown"
	"github.com/pvassist/pvassist/session"
	"github.com/pvassist/pvassist/store"
)

// NewCmd instantiates the interactive chat command. The coordinator is
// constructed by the caller so the chat and checklist commands share one.
func NewCmd(config *configuration.Config, coordinator *session.Coordinator) *cobra.Command {
	var opts struct {
		ChatID string
	}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the privacy assistant",
		Long:  "Chat with the privacy assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			chatClient := client.NewChatClient(config.Client.ServerURL + "/api/chat/chat/").
				WithCSRFToken(config.Client.CSRFToken)
			statusClient := client.NewInternalStatusClient(config.Client.ServerURL + "/api/internal-status/set_system_instruction/").
				WithCSRFToken(config.Client.CSRFToken)

			controller := NewController(coordinator, chatClient)

			renderer, err := markdown.NewRenderer(goterm.Width())
			if err != nil {
				return err
			}

			timeout := time.Duration(config.RequestTimeout) * time.Second
			loop := &chatLoop{
				coordinator:  coordinator,
				controller:   controller,
				statusClient: statusClient,
				renderer:     renderer,
				timeout:      timeout,
				initialChat:  opts.ChatID,
			}
			return loop.run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&opts.ChatID, "chat", "", "open a specific conversation id")
	return cmd
}

type chatLoop struct {
	coordinator  *session.Coordinator
	controller   *Controller
	statusClient *client.InternalStatusClient
	renderer     *markdown.Renderer
	timeout      time.Duration
	initialChat  string

	// contextText is sent with the next message only, then cleared.
	contextText string
}

func (l *chatLoop) run(ctx context.Context) error {
	l.declareInternalStatus(ctx)
	l.startChat(ctx)

	cli.Title("Personvern AI-assistent")
	cli.Info("Kommandoer: /ny, /liste, /bytt N, /slett, /avslutt\n")
	l.printTranscript()

	for {
		input, err := cli.PromptUser()
		if err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if exit := l.handleCommand(ctx, input); exit {
				return nil
			}
			continue
		}
		l.send(ctx, input)
	}
}

// declareInternalStatus asks for the employment status once, remembers the
// answer and forwards it to the server so it can adjust its instructions.
func (l *chatLoop) declareInternalStatus(ctx context.Context) {
	declared, internal := l.coordinator.InternalStatus()
	if !declared {
		internal = cli.QueryUser("Er du ansatt i kommunen?")
		if err := l.coordinator.SetInternalStatus(internal); err != nil {
			cli.Error("Kunne ikke lagre svaret: %v\n", err)
		}
	}
	statusCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := l.statusClient.SetInternalStatus(statusCtx, internal); err != nil {
		cli.Error("Kunne ikke oppdatere status hos serveren: %v\n", err)
	}
}

// startChat resumes the checklist hand-off chat when the one-shot context
// flag is set, and opens a fresh conversation otherwise.
func (l *chatLoop) startChat(ctx context.Context) {
	if l.initialChat != "" {
		l.controller.SetActiveChat(l.initialChat)
		return
	}
	if l.coordinator.ConsumeChecklistContextFlag() {
		chatID, err := l.coordinator.CreateChatFromChecklist()
		if err == nil {
			l.controller.SetActiveChat(chatID)
			l.contextText = l.coordinator.GetChecklistContext(ctx, chatID)
			if l.contextText != "" {
				cli.Info("Sjekklisten din sendes med neste melding.\n")
			}
			return
		}
		cli.Error("Kunne ikke hente sjekkliste-samtalen: %v\n", err)
	}
	l.controller.SetActiveChat(l.coordinator.CreateNewChat(""))
}

func (l *chatLoop) send(ctx context.Context, prompt string) {
	sendCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	contextText := l.contextText
	l.contextText = ""

	before := len(l.controller.Messages())
	if err := l.controller.SendMessage(sendCtx, prompt, contextText); err != nil {
		cli.Error("%s\n", l.controller.Err())
		return
	}

	l.renderer.SetWidth(goterm.Width())
	messages := l.controller.Messages()
	for _, message := range messages[before:] {
		if message.Type == store.MessageTypeBot {
			cli.BotOutput(l.renderer.Render(message.Message) + "\n")
		}
	}
	cli.Separator()
}

func (l *chatLoop) handleCommand(ctx context.Context, input string) (exit bool) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/avslutt", "/exit", "/quit":
		return true

	case "/ny", "/new":
		l.contextText = ""
		l.controller.SetActiveChat(l.coordinator.CreateNewChat(""))
		cli.Info("Ny samtale startet.\n")

	case "/liste", "/list":
		l.printSessions()

	case "/bytt", "/switch":
		if len(fields) < 2 {
			cli.Error("Bruk: /bytt N\n")
			return false
		}
		index, err := strconv.Atoi(fields[1])
		sessions := l.coordinator.ChatSessions()
		if err != nil || index < 1 || index > len(sessions) {
			cli.Error("Ugyldig samtalenummer.\n")
			return false
		}
		l.contextText = ""
		l.controller.SetActiveChat(sessions[index-1].ID)
		cli.Info("Byttet til: %s\n", sessions[index-1].Title)
		l.printTranscript()

	case "/slett", "/delete":
		chatID := l.controller.ActiveChatID()
		if chatID == "" {
			cli.Error("Ingen aktiv samtale.\n")
			return false
		}
		if !cli.QueryUser("Slette denne samtalen?") {
			return false
		}
		if err := l.coordinator.DeleteChat(chatID); err != nil {
			cli.Error("Kunne ikke slette samtalen: %v\n", err)
			return false
		}
		l.controller.SetActiveChat(l.coordinator.CreateNewChat(""))
		cli.Info("Samtalen er slettet.\n")

	default:
		cli.Error("Ukjent kommando: %s\n", fields[0])
	}
	return false
}

func (l *chatLoop) printSessions() {
	sessions := l.coordinator.ChatSessions()
	if len(sessions) == 0 {
		cli.Info("Ingen lagrede samtaler.\n")
		return
	}
	for i, chatSession := range sessions {
		updated := time.UnixMilli(chatSession.UpdatedAt).Format("02.01.2006 15:04")
		cli.Command("%2d. %s", i+1, chatSession.Title)
		cli.Info("  (%s, %d meldinger)\n", updated, len(chatSession.Messages))
	}
}

func (l *chatLoop) printTranscript() {
	l.renderer.SetWidth(goterm.Width())
	for _, message := range l.controller.Messages() {
		switch message.Type {
		case store.MessageTypeUser:
			cli.UserInput("> %s\n", message.Message)
		case store.MessageTypeBot:
			cli.BotOutput(l.renderer.Render(message.Message) + "\n")
		}
	}
	if len(l.controller.Messages()) > 0 {
		cli.Separator()
	}
}

// NewListSessionsCmd instantiates the command listing stored conversations.
func NewListSessionsCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List stored conversations",
		Long:  "List stored conversations, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := s.ListChatSessions()
			if err != nil {
				return err
			}
			count := 0
			for _, chatSession := range sessions {
				if len(chatSession.Messages) == 0 {
					continue
				}
				count++
				updated := time.UnixMilli(chatSession.UpdatedAt).Format("02.01.2006 15:04")
				fmt.Printf("%s  %-50s  %d meldinger\n", updated, chatSession.Title, len(chatSession.Messages))
			}
			if count == 0 {
				fmt.Println("Ingen lagrede samtaler.")
			}
			return nil
		},
	}
}
