package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashvetsov/agenthub/internal/agent"
	"github.com/ashvetsov/agenthub/internal/ollama"
	"github.com/ashvetsov/agenthub/internal/pipeline"
	"github.com/ashvetsov/agenthub/internal/store"
)

// fakeRuntime emulates the inference runtime HTTP surface: model tags plus a
// streaming generate endpoint replaying fixed tokens.
func fakeRuntime(t *testing.T, tokens []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"models":[{"name":"mistral:latest"},{"name":"llama3:8b"}]}`)
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		for _, tok := range tokens {
			line, _ := json.Marshal(map[string]any{"response": tok, "done": false})
			fmt.Fprintf(w, "%s\n", line)
		}
		fmt.Fprint(w, `{"response":"","done":true}`+"\n")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, runtimeURL string) (*httptest.Server, store.SessionStore) {
	t.Helper()
	sessions, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	runtime := ollama.New(runtimeURL, nil)
	agents := agent.NewRegistry(agent.NewBasic(), agent.NewJoke())
	pipe := pipeline.New(runtime, sessions, nil)
	h := NewHandler(agents, pipe, sessions, runtime, "mistral")

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sessions
}

// readFrames splits a `data: {...}\n\n` stream into decoded JSON objects.
func readFrames(t *testing.T, body io.Reader) []map[string]any {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	var frames []map[string]any
	for _, block := range strings.Split(string(raw), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if !strings.HasPrefix(block, "data: ") {
			t.Fatalf("frame missing data prefix: %q", block)
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(strings.TrimPrefix(block, "data: ")), &obj); err != nil {
			t.Fatalf("decode frame %q: %v", block, err)
		}
		frames = append(frames, obj)
	}
	return frames
}

func postAgent(t *testing.T, baseURL, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(baseURL+"/api/agent", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/agent: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandleAgentStreamsFrames(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, []string{"Hello", " world"})
	srv, sessions := newTestServer(t, rt.URL)

	resp := postAgent(t, srv.URL, `{"agent":"Basic Agent","message":"hi"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	frames := readFrames(t, resp.Body)
	if len(frames) < 3 {
		t.Fatalf("frames = %v, want status + tokens + done", frames)
	}

	if frames[0]["status"] != "loading" {
		t.Fatalf("first frame = %v, want loading status", frames[0])
	}

	last := frames[len(frames)-1]
	if last["done"] != true {
		t.Fatalf("last frame = %v, want done", last)
	}
	if last["full_response"] != "Hello world" {
		t.Fatalf("full_response = %v", last["full_response"])
	}
	sessionID, _ := last["session_id"].(string)
	if sessionID == "" {
		t.Fatal("done frame missing session_id")
	}

	var tokens []string
	for _, f := range frames[1 : len(frames)-1] {
		if tok, ok := f["token"].(string); ok {
			tokens = append(tokens, tok)
		}
	}
	if strings.Join(tokens, "") != "Hello world" {
		t.Fatalf("tokens = %v", tokens)
	}

	msgs, err := sessions.History(t.Context(), sessionID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("persisted %d messages, want 2", len(msgs))
	}
}

func TestHandleAgentUnknownAgentCreatesNoSession(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, []string{"x"})
	srv, sessions := newTestServer(t, rt.URL)

	resp := postAgent(t, srv.URL, `{"agent":"Nonexistent","message":"x"}`)
	frames := readFrames(t, resp.Body)
	if len(frames) != 1 {
		t.Fatalf("frames = %v, want single error frame", frames)
	}
	if frames[0]["token"] != "Unknown agent." || frames[0]["done"] != true {
		t.Fatalf("frame = %v", frames[0])
	}

	summaries, err := sessions.List(t.Context(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("unknown agent created %d sessions", len(summaries))
	}
}

func TestHandleAgentRequiresMessage(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, nil)
	srv, _ := newTestServer(t, rt.URL)

	resp := postAgent(t, srv.URL, `{"agent":"Basic Agent"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleModels(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, nil)
	srv, _ := newTestServer(t, rt.URL)

	resp, err := http.Get(srv.URL + "/api/models")
	if err != nil {
		t.Fatalf("GET /api/models: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Models) != 2 || body.Models[0] != "mistral:latest" {
		t.Fatalf("models = %v", body.Models)
	}
}

func TestHandleModelsRuntimeDownFallsBackToDefault(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "http://127.0.0.1:1")

	resp, err := http.Get(srv.URL + "/api/models")
	if err != nil {
		t.Fatalf("GET /api/models: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	var body struct {
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Models) != 1 || body.Models[0] != "mistral" {
		t.Fatalf("fallback models = %v", body.Models)
	}
}

func TestSessionEndpoints(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, nil)
	srv, sessions := newTestServer(t, rt.URL)
	ctx := t.Context()

	id, err := sessions.Create(ctx, "Basic Agent", "mistral")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := sessions.Append(ctx, id, "user", "what's the weather?", time.Time{}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// list
	resp, err := http.Get(srv.URL + "/api/chat/sessions")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var list struct {
		Sessions []map[string]any `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(list.Sessions) != 1 {
		t.Fatalf("sessions = %v", list.Sessions)
	}

	// full record
	resp, err = http.Get(srv.URL + "/api/chat/session/" + id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	var record map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	resp.Body.Close()
	if record["session_id"] != id {
		t.Fatalf("record = %v", record)
	}

	// history
	resp, err = http.Get(srv.URL + "/api/chat/session/" + id + "/history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var hist struct {
		History []map[string]any `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	resp.Body.Close()
	if len(hist.History) != 1 {
		t.Fatalf("history = %v", hist.History)
	}

	// search
	resp, err = http.Get(srv.URL + "/api/chat/search?q=weather")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var found struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatalf("decode search: %v", err)
	}
	resp.Body.Close()
	if len(found.Results) != 1 {
		t.Fatalf("results = %v", found.Results)
	}

	// delete, then 404 on re-read
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/chat/session/"+id, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/api/chat/session/" + id)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status after delete = %d, want 404", resp.StatusCode)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, nil)
	srv, _ := newTestServer(t, rt.URL)

	resp, err := http.Get(srv.URL + "/api/chat/search")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestExportFormats(t *testing.T) {
	t.Parallel()

	rt := fakeRuntime(t, nil)
	srv, sessions := newTestServer(t, rt.URL)

	id, err := sessions.Create(t.Context(), "Basic Agent", "mistral")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A txt export is the serialized transcript itself, not a JSON envelope.
	resp, err := http.Get(srv.URL + "/api/chat/session/" + id + "/export?format=txt")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("txt export Content-Type = %q", ct)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(raw), "Chat Session: "+id) {
		t.Fatalf("txt export body = %q", raw)
	}

	respJSON, err := http.Get(srv.URL + "/api/chat/session/" + id + "/export")
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	defer respJSON.Body.Close()
	if ct := respJSON.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("json export Content-Type = %q", ct)
	}
	var record map[string]any
	if err := json.NewDecoder(respJSON.Body).Decode(&record); err != nil {
		t.Fatalf("json export does not parse: %v", err)
	}
	if record["session_id"] != id {
		t.Fatalf("json export record = %v", record)
	}

	resp2, err := http.Get(srv.URL + "/api/chat/session/" + id + "/export?format=xml")
	if err != nil {
		t.Fatalf("export xml: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown format status = %d, want 400", resp2.StatusCode)
	}

	resp3, err := http.Get(srv.URL + "/api/chat/session/missing/export")
	if err != nil {
		t.Fatalf("export missing: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Fatalf("missing session status = %d, want 404", resp3.StatusCode)
	}
}
