package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ashvetsov/agenthub/internal/domain"
)

// Export formats shared by all store implementations.
const (
	FormatJSON = "json"
	FormatText = "txt"
)

// formatSession serializes a session for export. The JSON form round-trips to
// the same structure Load returns.
func formatSession(s *domain.Session, format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal session: %w", err)
		}
		return string(data), nil
	case FormatText:
		var b strings.Builder
		fmt.Fprintf(&b, "Chat Session: %s\n", s.SessionID)
		fmt.Fprintf(&b, "Agent: %s\n", s.AgentName)
		fmt.Fprintf(&b, "Model: %s\n", s.Model)
		fmt.Fprintf(&b, "Created: %s\n", s.CreatedAt.Format(time.RFC3339))
		b.WriteString(strings.Repeat("-", 50))
		for _, m := range s.Messages {
			fmt.Fprintf(&b, "\n\n[%s] %s:\n%s",
				m.Timestamp.Format(time.RFC3339), strings.ToUpper(m.Sender), m.Message)
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// searchExcerpt returns the first message of a session matching query
// case-insensitively, truncated for display, and whether any matched.
func searchExcerpt(s *domain.Session, query string) (string, bool) {
	q := strings.ToLower(query)
	for _, m := range s.Messages {
		if strings.Contains(strings.ToLower(m.Message), q) {
			excerpt := m.Message
			if len(excerpt) > searchExcerptLen {
				// Truncate on a rune boundary, not a byte index.
				if r := []rune(excerpt); len(r) > searchExcerptLen {
					excerpt = string(r[:searchExcerptLen])
				}
			}
			return excerpt, true
		}
	}
	return "", false
}

// appendTo applies one append to a loaded record, keeping updated_at
// monotonically non-decreasing.
func appendTo(s *domain.Session, sender, text string, at time.Time) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	s.Messages = append(s.Messages, domain.Message{
		Sender:    sender,
		Message:   text,
		Timestamp: at,
	})
	if at.After(s.UpdatedAt) {
		s.UpdatedAt = at
	}
}
