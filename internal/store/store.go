// Package store provides session persistence.
//
// Each session is one independent record keyed by its id. Appends are
// read-modify-write of the whole record; a per-store mutex serializes them so
// concurrent callers within one process cannot corrupt a record. Concurrent
// writers across processes are out of scope (the intended request pattern is
// one in-flight turn per session).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ashvetsov/agenthub/internal/domain"
)

var (
	// ErrNotFound is returned when no session exists for the given id.
	ErrNotFound = errors.New("session not found")
	// ErrUnknownFormat is returned by Export for unsupported formats.
	ErrUnknownFormat = errors.New("unknown export format")
)

// Preview lengths used by listing and search results.
const (
	firstMessagePreviewLen = 100
	searchExcerptLen       = 200
)

// SessionStore persists conversation transcripts.
type SessionStore interface {
	// Create allocates a fresh session with an empty message list and
	// returns its id.
	Create(ctx context.Context, agentName, model string) (string, error)

	// Append adds one message to an existing session and advances the
	// session's updated_at. A zero timestamp defaults to now. Returns
	// ErrNotFound if the session does not exist.
	Append(ctx context.Context, sessionID, sender, text string, at time.Time) error

	// Load returns the full session record, or ErrNotFound.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// List returns session summaries sorted by updated_at descending,
	// optionally filtered by agent name (empty string matches all).
	List(ctx context.Context, agentName string) ([]domain.SessionSummary, error)

	// Delete removes a session. Returns ErrNotFound if it did not exist.
	Delete(ctx context.Context, sessionID string) error

	// Search returns sessions having at least one message containing query
	// case-insensitively. At most one result per session.
	Search(ctx context.Context, query, agentName string) ([]domain.SearchResult, error)

	// Export serializes a session as "json" or "txt".
	Export(ctx context.Context, sessionID, format string) (string, error)

	// History returns the messages of a session in append order.
	History(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Close releases store resources.
	Close() error
}
