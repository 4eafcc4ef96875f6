// Package ollama is a thin client for a local Ollama-compatible inference
// runtime: model listing plus streaming generation over newline-delimited JSON.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is where a locally installed runtime listens.
const DefaultBaseURL = "http://localhost:11434"

// maxLineSize bounds a single stream line. Generation chunks are tiny; the
// final done record can carry a large context array.
const maxLineSize = 1 << 20

// Chunk is one streamed generation record. Response holds a token fragment;
// Done marks the final record.
type Chunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Client talks to the inference runtime. Zero-value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

// New creates a runtime client. An empty baseURL defaults to the local
// runtime. The HTTP client carries no overall timeout because generation
// responses are long-lived streams.
func New(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     logger,
	}
}

// ListModels returns the names of installed models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: runtime returned %s", resp.Status)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("decode tags response: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Ping reports whether the runtime is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

// HasModel reports whether any installed model name contains model, matching
// how users refer to tagged models ("mistral" matches "mistral:latest").
func (c *Client) HasModel(ctx context.Context, model string) (bool, error) {
	names, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if strings.Contains(name, model) {
			return true, nil
		}
	}
	return false, nil
}

// Generate runs one streaming generation call. Chunks are yielded in arrival
// order; the iterator ends after the done record or when the runtime closes
// the connection. Lines that fail to parse are skipped. Transport failures
// terminate the stream with an error.
func (c *Client) Generate(ctx context.Context, model, system, prompt string) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		body, err := json.Marshal(generateRequest{
			Model:  model,
			System: system,
			Prompt: prompt,
			Stream: true,
		})
		if err != nil {
			yield(Chunk{}, fmt.Errorf("encode generate request: %w", err))
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
		if err != nil {
			yield(Chunk{}, fmt.Errorf("build generate request: %w", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			yield(Chunk{}, fmt.Errorf("generate request failed: %w", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			yield(Chunk{}, fmt.Errorf("generate: runtime returned %s: %s", resp.Status, strings.TrimSpace(string(msg))))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var chunk Chunk
			if err := json.Unmarshal(line, &chunk); err != nil {
				// Malformed chunks are skipped, not fatal.
				c.log.Debug("skipping malformed stream line", "error", err)
				continue
			}
			if !yield(chunk, nil) {
				return
			}
			if chunk.Done {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Chunk{}, fmt.Errorf("read generate stream: %w", err))
		}
	}
}
