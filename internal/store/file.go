package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ashvetsov/agenthub/internal/domain"
	"github.com/google/uuid"
)

// FileStore persists each session as one JSON file named <id>.json under a
// directory. Every mutation rewrites the whole file.
type FileStore struct {
	dir string
	mu  sync.Mutex // serializes read-modify-write appends
}

// NewFileStore creates the storage directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chat directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".json")
}

// Create allocates a fresh session record with an empty message list.
func (f *FileStore) Create(ctx context.Context, agentName, model string) (string, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		SessionID: uuid.NewString(),
		AgentName: agentName,
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []domain.Message{},
	}
	if err := f.write(s); err != nil {
		return "", err
	}
	return s.SessionID, nil
}

// Append adds one message and rewrites the record.
func (f *FileStore) Append(ctx context.Context, sessionID, sender, text string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := f.read(sessionID)
	if err != nil {
		return err
	}
	appendTo(s, sender, text, at)
	return f.write(s)
}

// Load returns the full session record.
func (f *FileStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return f.read(sessionID)
}

// List returns summaries sorted by updated_at descending.
func (f *FileStore) List(ctx context.Context, agentName string) ([]domain.SessionSummary, error) {
	sessions, err := f.readAll()
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if agentName != "" && s.AgentName != agentName {
			continue
		}
		summaries = append(summaries, s.Summary(firstMessagePreviewLen))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// Delete removes a session file.
func (f *FileStore) Delete(ctx context.Context, sessionID string) error {
	err := os.Remove(f.path(sessionID))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}

// Search scans all sessions for a case-insensitive substring match.
func (f *FileStore) Search(ctx context.Context, query, agentName string) ([]domain.SearchResult, error) {
	sessions, err := f.readAll()
	if err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	for _, s := range sessions {
		if agentName != "" && s.AgentName != agentName {
			continue
		}
		excerpt, ok := searchExcerpt(s, query)
		if !ok {
			continue
		}
		results = append(results, domain.SearchResult{
			SessionID:       s.SessionID,
			AgentName:       s.AgentName,
			Model:           s.Model,
			CreatedAt:       s.CreatedAt,
			UpdatedAt:       s.UpdatedAt,
			MessageCount:    len(s.Messages),
			MatchingMessage: excerpt,
		})
	}
	return results, nil
}

// Export serializes a session as json or txt.
func (f *FileStore) Export(ctx context.Context, sessionID, format string) (string, error) {
	s, err := f.read(sessionID)
	if err != nil {
		return "", err
	}
	return formatSession(s, format)
}

// History returns the messages of a session in append order.
func (f *FileStore) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	s, err := f.read(sessionID)
	if err != nil {
		return nil, err
	}
	return s.Messages, nil
}

// Close is a no-op for the file store.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) read(sessionID string) (*domain.Session, error) {
	data, err := os.ReadFile(f.path(sessionID))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &s, nil
}

// write rewrites the whole record through a temp file and rename, so a crash
// mid-write never leaves a truncated record behind.
func (f *FileStore) write(s *domain.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, s.SessionID+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path(s.SessionID)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// readAll loads every parseable session record. Corrupt files are skipped, not
// fatal, matching the per-record isolation of the layout.
func (f *FileStore) readAll() ([]*domain.Session, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("read chat directory: %w", err)
	}

	var sessions []*domain.Session
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		s, err := f.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			slog.Warn("skipping unreadable session record", "file", name, "error", err)
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
