package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/ashvetsov/agenthub/internal/agent"
	"github.com/ashvetsov/agenthub/internal/api"
	"github.com/ashvetsov/agenthub/internal/config"
	"github.com/ashvetsov/agenthub/internal/middleware"
	"github.com/ashvetsov/agenthub/internal/ollama"
	"github.com/ashvetsov/agenthub/internal/pipeline"
	"github.com/ashvetsov/agenthub/internal/providers"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.Info("Starting server", "port", cfg.Port, "store", cfg.StoreBackend, "dev", cfg.IsDevelopment())

	sessions, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sessions.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	runtime := ollama.New(cfg.OllamaURL, logger)
	if err := runtime.Ping(context.Background()); err != nil {
		// Not fatal for the server: each request reports its own
		// runtime failure.
		slog.Warn("Inference runtime unreachable at startup", "url", cfg.OllamaURL, "error", err)
	}

	agents := agent.Default(providers.NewSet(nil))
	pipe := pipeline.New(runtime, sessions, logger)
	handler := api.NewHandler(agents, pipe, sessions, runtime, cfg.DefaultModel)

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	origins := []string{"*"}
	if cfg.FrontendURL != "" {
		origins = []string{cfg.FrontendURL}
	}
	r.Use(middleware.CORS(origins))

	handler.RegisterRoutes(r)
	r.Get("/ws/chat", handler.HandleChatSocket)

	// SSE connections require long writes, so no WriteTimeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server stopped successfully")
	return nil
}
