// Package cli wires the command-line interface: the interactive agent REPL,
// the HTTP server, and the session history manager.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashvetsov/agenthub/internal/config"
	"github.com/ashvetsov/agenthub/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "agenthub",
	Short: "Multi-agent assistant over a local Ollama runtime",
	Long: `agenthub runs a collection of prompt-template agents against a locally
installed Ollama runtime, streaming responses to the terminal or over HTTP
and recording conversations per session.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSessionsCmd())
}

// openStore builds the configured session store backend.
func openStore(cfg *config.Config) (store.SessionStore, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		s, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	default:
		s, err := store.NewFileStore(cfg.ChatDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return s, nil
	}
}
