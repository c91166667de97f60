package server

import (
	"github.com/spf13/cobra"

	"github.com/pvassist/pvassist/internal/configuration"
	"github.com/pvassist/pvassist/internal/llm"
	"github.com/pvassist/pvassist/store"
)

// NewServeCmd instantiates the serve command.
func NewServeCmd(config *configuration.Config, s *store.Store) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant API and web inbox",
		Long:  "Serve the assistant API and web inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			llmClient, err := llm.NewClient(config.Server.Provider, config.Server.APIKey, config.Server.APIHost)
			if err != nil {
				return err
			}
			return New(config.Server, llmClient, s).Start()
		},
	}
	cmd.Flags().IntVarP(&config.Server.Port, "port", "p", config.Server.Port, "Port to serve on")
	return cmd
}
