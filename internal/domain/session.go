// Package domain holds the value types shared across the application.
package domain

import (
	"time"
)

// Sender roles recorded in a transcript.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message is one conversation turn. Immutable once appended.
type Message struct {
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one persisted conversation between a user and an agent.
type Session struct {
	SessionID string    `json:"session_id"`
	AgentName string    `json:"agent_name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	SessionID    string    `json:"session_id"`
	AgentName    string    `json:"agent_name"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	FirstMessage string    `json:"first_message"`
}

// SearchResult is a session matched by a transcript search. Each session
// contributes at most one result; MatchingMessage holds one excerpt.
type SearchResult struct {
	SessionID       string    `json:"session_id"`
	AgentName       string    `json:"agent_name"`
	Model           string    `json:"model"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	MessageCount    int       `json:"message_count"`
	MatchingMessage string    `json:"matching_message"`
}

// Summary projects a session into its listing view.
func (s *Session) Summary(previewLen int) SessionSummary {
	first := ""
	if len(s.Messages) > 0 {
		first = truncate(s.Messages[0].Message, previewLen)
	}
	return SessionSummary{
		SessionID:    s.SessionID,
		AgentName:    s.AgentName,
		Model:        s.Model,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		MessageCount: len(s.Messages),
		FirstMessage: first,
	}
}

// truncate cuts s to at most n characters, never splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
