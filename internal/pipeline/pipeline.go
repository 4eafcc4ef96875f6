// Package pipeline orchestrates one conversational turn: it resolves the
// session, prepares the prompt, streams tokens from the inference runtime, and
// records the completed exchange.
package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/ashvetsov/agenthub/internal/agent"
	"github.com/ashvetsov/agenthub/internal/domain"
	"github.com/ashvetsov/agenthub/internal/ollama"
	"github.com/ashvetsov/agenthub/internal/store"
)

// EventType discriminates pipeline events.
type EventType string

const (
	// EventStatus reports in-flight background work ("Fetching weather
	// data...") before tokens start arriving.
	EventStatus EventType = "status"
	// EventToken carries one streamed token fragment.
	EventToken EventType = "token"
	// EventDone is the terminal event carrying the assembled response.
	EventDone EventType = "done"
)

// Event is one unit of pipeline output. Status is set for EventStatus, Token
// for EventToken, FullResponse and SessionID for EventDone.
type Event struct {
	Type         EventType
	Status       string
	Token        string
	FullResponse string
	SessionID    string
}

// Runtime is the streaming generation capability the pipeline needs from the
// inference client.
type Runtime interface {
	Generate(ctx context.Context, model, system, prompt string) iter.Seq2[ollama.Chunk, error]
}

var _ Runtime = (*ollama.Client)(nil)

// Request is one turn. All per-request state (model choice, message, session)
// travels here rather than on shared agent instances.
type Request struct {
	Agent     agent.Agent
	Model     string
	Message   string
	SessionID string // empty means start a new session
}

// Pipeline runs conversational turns against a runtime and a session store.
type Pipeline struct {
	runtime Runtime
	store   store.SessionStore
	log     *slog.Logger
}

func New(runtime Runtime, sessions store.SessionStore, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{runtime: runtime, store: sessions, log: logger}
}

// Run executes one turn and yields its events in order: zero or more status
// events, then token events, then exactly one done event, unless a terminal
// error is yielded instead. The user message is persisted before generation
// starts; the bot message is persisted only when generation completes, so an
// aborted stream never records a partial response.
//
// Consecutive identical status labels are collapsed: the status is observed
// before and after each preparation phase and emitted only on change.
func (p *Pipeline) Run(ctx context.Context, req Request) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		status := agent.NewStatus()
		lastStatus := ""
		emitStatus := func() bool {
			label := status.Label()
			if label == lastStatus {
				return true
			}
			lastStatus = label
			return yield(Event{Type: EventStatus, Status: label}, nil)
		}

		if !emitStatus() {
			return
		}

		system := req.Agent.SystemPrompt()

		sessionID := req.SessionID
		if sessionID == "" {
			id, err := p.store.Create(ctx, req.Agent.Name(), req.Model)
			if err != nil {
				yield(Event{}, fmt.Errorf("create session: %w", err))
				return
			}
			sessionID = id
		}
		if err := p.store.Append(ctx, sessionID, domain.SenderUser, req.Message, time.Time{}); err != nil {
			yield(Event{}, fmt.Errorf("record user message: %w", err))
			return
		}

		prompt := req.Agent.PreparePrompt(ctx, req.Message, status)
		if !emitStatus() {
			return
		}

		var full strings.Builder
		started := false

		for chunk, err := range p.runtime.Generate(ctx, req.Model, system, prompt) {
			if err != nil {
				yield(Event{}, fmt.Errorf("generate: %w", err))
				return
			}
			if chunk.Done {
				break
			}

			token := chunk.Response
			if !started {
				// Models often open with stray whitespace; strip it
				// from the first visible token.
				token = strings.TrimLeft(token, " \t\n\r")
				if token == "" {
					continue
				}
				started = true
			}
			full.WriteString(token)
			if !yield(Event{Type: EventToken, Token: token}, nil) {
				// Consumer walked away: the bot message is not
				// persisted for an abandoned turn.
				p.log.Debug("turn abandoned mid-stream", "session_id", sessionID)
				return
			}
		}

		if err := p.store.Append(ctx, sessionID, domain.SenderBot, full.String(), time.Time{}); err != nil {
			yield(Event{}, fmt.Errorf("record bot message: %w", err))
			return
		}

		yield(Event{Type: EventDone, FullResponse: full.String(), SessionID: sessionID}, nil)
	}
}
