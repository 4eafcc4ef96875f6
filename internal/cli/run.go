package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashvetsov/agenthub/internal/agent"
	"github.com/ashvetsov/agenthub/internal/config"
	"github.com/ashvetsov/agenthub/internal/ollama"
	"github.com/ashvetsov/agenthub/internal/pipeline"
	"github.com/ashvetsov/agenthub/internal/providers"
	"github.com/ashvetsov/agenthub/internal/term"
)

func newRunCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "run [agent]",
		Short: "Chat with an agent in the terminal",
		Long: `Start an interactive conversation with one agent. Short names work:
basic, weather, news, todo, stock, quiz, writing, joke.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "basic"
			if len(args) == 1 {
				name = args[0]
			}
			return runREPL(cmd.Context(), name, model)
		},
	}
	cmd.Flags().StringVarP(&model, "model", "m", "", "model to generate with (defaults to DEFAULT_MODEL)")
	return cmd
}

func runREPL(ctx context.Context, agentName, model string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if model == "" {
		model = cfg.DefaultModel
	}

	registry := agent.Default(providers.NewSet(nil))
	a, ok := registry.Get(agentName)
	if !ok {
		return fmt.Errorf("unknown agent %q (available: %s)", agentName, strings.Join(registry.Names(), ", "))
	}

	runtime := ollama.New(cfg.OllamaURL, nil)
	if err := runtime.Ping(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Ollama is not reachable at "+cfg.OllamaURL+".")
		fmt.Fprintln(os.Stderr, "Install it from https://ollama.com and start it with 'ollama serve'.")
		return fmt.Errorf("inference runtime unavailable: %w", err)
	}
	installed, err := runtime.HasModel(ctx, model)
	if err != nil {
		return fmt.Errorf("check model availability: %w", err)
	}
	if !installed {
		return fmt.Errorf("model %q is not installed; run 'ollama pull %s' first", model, model)
	}

	sessions, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	fmt.Printf("AI %s is starting...\n", a.Name())

	sessionID, err := sessions.Create(ctx, a.Name(), model)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	fmt.Printf("Chat session created: %s\n", sessionID)
	fmt.Printf("\n%s is ready!\n\n", a.Name())

	pipe := pipeline.New(runtime, sessions, nil)
	renderer := term.NewRenderer(os.Stdout)
	input := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("%s (or type 'exit'): ", a.PromptLabel())
		if !input.Scan() {
			break
		}
		q := strings.TrimSpace(input.Text())
		if q == "" {
			continue
		}
		if lower := strings.ToLower(q); lower == "exit" || lower == "quit" {
			break
		}

		fmt.Println()
		runTurn(ctx, pipe, renderer, pipeline.Request{
			Agent:     a,
			Model:     model,
			Message:   q,
			SessionID: sessionID,
		})
		fmt.Print("\n\n")
	}
	return input.Err()
}

// runTurn streams one turn to the terminal: spinner while preparing, colored
// tokens once generation starts.
func runTurn(ctx context.Context, pipe *pipeline.Pipeline, renderer *term.Renderer, req pipeline.Request) {
	renderer.Reset()
	spinner := term.NewSpinner(os.Stdout, agent.DefaultStatusLabel)
	defer spinner.Stop()

	for ev, err := range pipe.Run(ctx, req) {
		if err != nil {
			spinner.Stop()
			renderer.Error("Error: " + err.Error())
			return
		}
		switch ev.Type {
		case pipeline.EventStatus:
			spinner.SetLabel(ev.Status)
		case pipeline.EventToken:
			spinner.Stop()
			renderer.Token(ev.Token)
		case pipeline.EventDone:
			spinner.Stop()
		}
	}
}
