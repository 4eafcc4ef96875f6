// agenthub - multi-agent assistant over a local Ollama runtime.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ashvetsov/agenthub/internal/cli"
)

func main() {
	// Terminal commands log to stderr so streamed output stays clean; the
	// serve command replaces this with a JSON handler.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	if err := cli.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
