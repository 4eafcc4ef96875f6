// Package api provides the HTTP handlers for the assistant API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashvetsov/agenthub/internal/agent"
	"github.com/ashvetsov/agenthub/internal/ollama"
	"github.com/ashvetsov/agenthub/internal/pipeline"
	"github.com/ashvetsov/agenthub/internal/store"
)

// Handler serves the assistant API.
type Handler struct {
	agents       *agent.Registry
	pipe         *pipeline.Pipeline
	sessions     store.SessionStore
	runtime      *ollama.Client
	defaultModel string
}

func NewHandler(agents *agent.Registry, pipe *pipeline.Pipeline, sessions store.SessionStore, runtime *ollama.Client, defaultModel string) *Handler {
	return &Handler{
		agents:       agents,
		pipe:         pipe,
		sessions:     sessions,
		runtime:      runtime,
		defaultModel: defaultModel,
	}
}

// RegisterRoutes mounts the API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/models", h.HandleModels)
	r.Post("/api/agent", h.HandleAgent)
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/sessions", h.HandleListSessions)
		r.Get("/search", h.HandleSearch)
		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleDeleteSession)
			r.Get("/history", h.HandleHistory)
			r.Get("/export", h.HandleExport)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// HandleModels lists installed runtime models. When the runtime is
// unreachable the default model is reported with a 500 so clients still have
// something to render.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.runtime.ListModels(r.Context())
	if err != nil {
		slog.Error("failed to list models", "error", err)
		JSON(w, http.StatusInternalServerError, map[string]any{"models": []string{h.defaultModel}})
		return
	}
	JSON(w, http.StatusOK, map[string]any{"models": models})
}

type agentRequest struct {
	Agent     string `json:"agent"`
	Message   string `json:"message"`
	Model     string `json:"model"`
	SessionID string `json:"session_id"`
}

// statusFrame, tokenFrame and doneFrame are the three stream frame shapes.
type statusFrame struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type tokenFrame struct {
	Token string `json:"token"`
	Done  bool   `json:"done"`
}

type doneFrame struct {
	Token        string `json:"token"`
	Done         bool   `json:"done"`
	FullResponse string `json:"full_response"`
	SessionID    string `json:"session_id"`
}

// frameWriter emits `data: <json>\n\n` frames and flushes after each one.
type frameWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (fw *frameWriter) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if _, err := fmt.Fprintf(fw.w, "data: %s\n\n", data); err != nil {
		return err
	}
	fw.flusher.Flush()
	return nil
}

// HandleAgent runs one conversational turn and streams its events as frames.
// An unknown agent yields a single terminal frame and creates no session.
func (h *Handler) HandleAgent(w http.ResponseWriter, r *http.Request) {
	var req agentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.Model == "" {
		req.Model = h.defaultModel
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		Error(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fw := &frameWriter{w: w, flusher: flusher}

	a, ok := h.agents.Get(req.Agent)
	if !ok {
		// Terminate before any session exists.
		if err := fw.write(tokenFrame{Token: "Unknown agent.", Done: true}); err != nil {
			slog.Warn("failed to write error frame", "error", err)
		}
		return
	}

	for ev, err := range h.pipe.Run(r.Context(), pipeline.Request{
		Agent:     a,
		Model:     req.Model,
		Message:   req.Message,
		SessionID: req.SessionID,
	}) {
		if err != nil {
			slog.Error("agent stream failed", "agent", a.Name(), "error", err)
			if werr := fw.write(tokenFrame{Token: "Error: " + err.Error(), Done: true}); werr != nil {
				slog.Warn("failed to write error frame", "error", werr)
			}
			return
		}

		var frame any
		switch ev.Type {
		case pipeline.EventStatus:
			frame = statusFrame{Status: "loading", Message: ev.Status}
		case pipeline.EventToken:
			frame = tokenFrame{Token: ev.Token}
		case pipeline.EventDone:
			frame = doneFrame{Done: true, FullResponse: ev.FullResponse, SessionID: ev.SessionID}
		default:
			continue
		}
		if err := fw.write(frame); err != nil {
			// Client went away; the pipeline sees the break and stops.
			slog.Debug("client disconnected mid-stream", "error", err)
			return
		}
	}
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.List(r.Context(), r.URL.Query().Get("agent"))
	if err != nil {
		slog.Error("failed to list sessions", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Load(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.sessionError(w, err, "load")
		return
	}
	JSON(w, http.StatusOK, session)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.sessionError(w, err, "delete")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	messages, err := h.sessions.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.sessionError(w, err, "load history for")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"history": messages})
}

// HandleExport writes the serialized session as the raw response body, not a
// JSON envelope, so a txt export downloads as plain text.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = store.FormatJSON
	}
	content, err := h.sessions.Export(r.Context(), chi.URLParam(r, "sessionID"), format)
	if err != nil {
		if errors.Is(err, store.ErrUnknownFormat) {
			Error(w, http.StatusBadRequest, "unknown export format: "+format)
			return
		}
		h.sessionError(w, err, "export")
		return
	}
	contentType := "text/plain; charset=utf-8"
	if format == store.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, content)
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		Error(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	results, err := h.sessions.Search(r.Context(), query, r.URL.Query().Get("agent"))
	if err != nil {
		slog.Error("search failed", "error", err)
		Error(w, http.StatusInternalServerError, "search failed")
		return
	}
	JSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) sessionError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	slog.Error("failed to "+action+" session", "error", err)
	Error(w, http.StatusInternalServerError, "failed to "+action+" session")
}
