package main

import (
	"github.com/spf13/cobra"

	"github.com/pvassist/pvassist/chat"
	"github.com/pvassist/pvassist/checklist"
	"github.com/pvassist/pvassist/client"
	"github.com/pvassist/pvassist/internal/configuration"
	"github.com/pvassist/pvassist/server"
	"github.com/pvassist/pvassist/session"
	"github.com/pvassist/pvassist/store"
)

var rootCmd = &cobra.Command{
	Use:     "pvassist",
	Short:   "A privacy compliance assistant",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configuration.DefaultPath)
	if err != nil {
		panic(err)
	}

	// Create store
	s, err := store.New(config.DatabasePath)
	if err != nil {
		panic(err)
	}
	// Ensure store is closed when the program exits normally
	defer s.Close()

	checklistClient := client.NewChecklistClient(config.Client.ServerURL + "/api/checklist/json_to_string/").
		WithCSRFToken(config.Client.CSRFToken)
	coordinator := session.New(s, checklistClient)
	coordinator.Start()

	rootCmd.AddCommand(server.NewServeCmd(config, s))
	rootCmd.AddCommand(chat.NewCmd(config, coordinator))
	rootCmd.AddCommand(chat.NewListSessionsCmd(s))
	rootCmd.AddCommand(checklist.NewCmd(config, coordinator))
	rootCmd.Execute()
}
