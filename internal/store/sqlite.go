package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashvetsov/agenthub/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements SessionStore on SQLite, one row per session with the
// transcript held as a JSON column. Appends stay read-modify-write of the
// whole record, mirroring the file layout, so both backends share semantics.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex // serializes append read-modify-write, also avoids SQLITE_BUSY
}

// NewSQLite opens (creating if needed) a SQLite-backed session store.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		agent_name TEXT NOT NULL,
		model TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		messages_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	CREATE INDEX IF NOT EXISTS idx_sessions_agent ON sessions(agent_name);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Create inserts a fresh session row with an empty transcript.
func (s *SQLiteStore) Create(ctx context.Context, agentName, model string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	query := `
	INSERT INTO sessions (session_id, agent_name, model, created_at, updated_at, messages_json)
	VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, id, agentName, model, now.UnixNano(), now.UnixNano(), "[]")
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// Append loads the row, appends one message, and writes the row back.
func (s *SQLiteStore) Append(ctx context.Context, sessionID, sender, text string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	appendTo(sess, sender, text, at)

	messages, err := json.Marshal(sess.Messages)
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	query := `UPDATE sessions SET messages_json = ?, updated_at = ? WHERE session_id = ?`
	if _, err := s.db.ExecContext(ctx, query, string(messages), sess.UpdatedAt.UnixNano(), sessionID); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Load returns the full session record.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.load(ctx, sessionID)
}

// List returns summaries sorted by updated_at descending.
func (s *SQLiteStore) List(ctx context.Context, agentName string) ([]domain.SessionSummary, error) {
	sessions, err := s.queryAll(ctx, agentName)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		summaries = append(summaries, sess.Summary(firstMessagePreviewLen))
	}
	return summaries, nil
}

// Delete removes a session row.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Search scans transcripts in Go so matching semantics stay identical to the
// file store (case-insensitive substring, one excerpt per session).
func (s *SQLiteStore) Search(ctx context.Context, query, agentName string) ([]domain.SearchResult, error) {
	sessions, err := s.queryAll(ctx, agentName)
	if err != nil {
		return nil, err
	}

	var results []domain.SearchResult
	for _, sess := range sessions {
		excerpt, ok := searchExcerpt(sess, query)
		if !ok {
			continue
		}
		results = append(results, domain.SearchResult{
			SessionID:       sess.SessionID,
			AgentName:       sess.AgentName,
			Model:           sess.Model,
			CreatedAt:       sess.CreatedAt,
			UpdatedAt:       sess.UpdatedAt,
			MessageCount:    len(sess.Messages),
			MatchingMessage: excerpt,
		})
	}
	return results, nil
}

// Export serializes a session as json or txt.
func (s *SQLiteStore) Export(ctx context.Context, sessionID, format string) (string, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return formatSession(sess, format)
}

// History returns the messages of a session in append order.
func (s *SQLiteStore) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) load(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `
	SELECT session_id, agent_name, model, created_at, updated_at, messages_json
	FROM sessions WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID)
	sess, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

func (s *SQLiteStore) queryAll(ctx context.Context, agentName string) ([]*domain.Session, error) {
	query := `
	SELECT session_id, agent_name, model, created_at, updated_at, messages_json
	FROM sessions`
	args := []any{}
	if agentName != "" {
		query += ` WHERE agent_name = ?`
		args = append(args, agentName)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(scan func(...any) error) (*domain.Session, error) {
	var sess domain.Session
	var createdAt, updatedAt int64
	var messagesJSON string

	if err := scan(&sess.SessionID, &sess.AgentName, &sess.Model, &createdAt, &updatedAt, &messagesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan session row: %w", err)
	}
	sess.CreatedAt = time.Unix(0, createdAt).UTC()
	sess.UpdatedAt = time.Unix(0, updatedAt).UTC()
	if err := json.Unmarshal([]byte(messagesJSON), &sess.Messages); err != nil {
		return nil, fmt.Errorf("decode messages for %s: %w", sess.SessionID, err)
	}
	return &sess, nil
}
