package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashvetsov/agenthub/internal/config"
	"github.com/ashvetsov/agenthub/internal/store"
)

func newSessionsCmd() *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "View, search, and manage chat history",
	}

	sessionsCmd.AddCommand(newSessionsListCmd())
	sessionsCmd.AddCommand(newSessionsViewCmd())
	sessionsCmd.AddCommand(newSessionsSearchCmd())
	sessionsCmd.AddCommand(newSessionsDeleteCmd())
	sessionsCmd.AddCommand(newSessionsExportCmd())

	return sessionsCmd
}

func withStore(fn func(ctx context.Context, s store.SessionStore) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd.Context(), s)
	}
}

func newSessionsListCmd() *cobra.Command {
	var agentFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all chat sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s store.SessionStore) error {
				summaries, err := s.List(ctx, agentFilter)
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					fmt.Println("No chat sessions found.")
					return nil
				}
				fmt.Printf("Found %d chat session(s):\n", len(summaries))
				fmt.Println(strings.Repeat("-", 80))
				for _, sum := range summaries {
					fmt.Printf("Session ID: %s\n", sum.SessionID)
					fmt.Printf("Agent: %s\n", sum.AgentName)
					fmt.Printf("Model: %s\n", sum.Model)
					fmt.Printf("Messages: %d\n", sum.MessageCount)
					fmt.Printf("Created: %s\n", sum.CreatedAt.Format("2006-01-02 15:04:05"))
					fmt.Printf("Updated: %s\n", sum.UpdatedAt.Format("2006-01-02 15:04:05"))
					if sum.FirstMessage != "" {
						fmt.Printf("First message: %s\n", sum.FirstMessage)
					}
					fmt.Println(strings.Repeat("-", 80))
				}
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&agentFilter, "agent", "", "filter by agent name")
	return cmd
}

func newSessionsViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <session-id>",
		Short: "View a specific chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s store.SessionStore) error {
				session, err := s.Load(ctx, args[0])
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						fmt.Printf("Session %s not found.\n", args[0])
						return nil
					}
					return err
				}
				fmt.Printf("Chat Session: %s\n", session.SessionID)
				fmt.Printf("Agent: %s\n", session.AgentName)
				fmt.Printf("Model: %s\n", session.Model)
				fmt.Printf("Created: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
				fmt.Printf("Updated: %s\n", session.UpdatedAt.Format("2006-01-02 15:04:05"))
				fmt.Println(strings.Repeat("=", 80))
				for i, msg := range session.Messages {
					fmt.Printf("\n[%d] %s - %s:\n", i+1, msg.Timestamp.Format("2006-01-02 15:04:05"), strings.ToUpper(msg.Sender))
					fmt.Println(msg.Message)
					fmt.Println(strings.Repeat("-", 40))
				}
				return nil
			})(cmd, args)
		},
	}
}

func newSessionsSearchCmd() *cobra.Command {
	var agentFilter string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search sessions for matching message text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s store.SessionStore) error {
				results, err := s.Search(ctx, args[0], agentFilter)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Printf("No sessions found containing %q.\n", args[0])
					return nil
				}
				fmt.Printf("Found %d session(s) containing %q:\n", len(results), args[0])
				fmt.Println(strings.Repeat("-", 80))
				for _, res := range results {
					fmt.Printf("Session ID: %s\n", res.SessionID)
					fmt.Printf("Agent: %s\n", res.AgentName)
					fmt.Printf("Model: %s\n", res.Model)
					fmt.Printf("Messages: %d\n", res.MessageCount)
					fmt.Printf("Matching content: %s\n", res.MatchingMessage)
					fmt.Println(strings.Repeat("-", 80))
				}
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&agentFilter, "agent", "", "filter by agent name")
	return cmd
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a chat session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s store.SessionStore) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					if errors.Is(err, store.ErrNotFound) {
						fmt.Printf("Session %s not found.\n", args[0])
						return nil
					}
					return err
				}
				fmt.Printf("Session %s deleted successfully.\n", args[0])
				return nil
			})(cmd, args)
		},
	}
}

func newSessionsExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a chat session to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s store.SessionStore) error {
				content, err := s.Export(ctx, args[0], format)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						fmt.Printf("Session %s not found.\n", args[0])
						return nil
					}
					return err
				}
				filename := fmt.Sprintf("chat_%s.%s", args[0], format)
				if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				fmt.Printf("Session exported to %s\n", filename)
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&format, "format", store.FormatJSON, "export format: json or txt")
	return cmd
}
