package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	llmx "github.com/tanakrit-w/giftwise/agent/llm"
	statex "github.com/tanakrit-w/giftwise/agent/state"
	openrouterx "github.com/tanakrit-w/giftwise/pkg/openrouter"
)

var testNow = time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)

// fakeModel serves an OpenAI-compatible chat completions endpoint from a
// fixed script, one response per request, and records every request body.
type fakeModel struct {
	mu       sync.Mutex
	script   []string
	requests []map[string]any
}

func (f *fakeModel) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}

		f.mu.Lock()
		f.requests = append(f.requests, body)
		var resp string
		if len(f.script) > 0 {
			resp = f.script[0]
			f.script = f.script[1:]
		}
		f.mu.Unlock()

		if resp == "" {
			http.Error(w, `{"error":{"message":"script exhausted"}}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}
}

func (f *fakeModel) request(i int) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.requests) {
		return nil
	}
	return f.requests[i]
}

func textResponse(content string) string {
	return fmt.Sprintf(`{
		"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "test-model",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": %q}}]
	}`, content)
}

func toolCallResponse(callID, name, arguments string) string {
	return fmt.Sprintf(`{
		"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "test-model",
		"choices": [{"index": 0, "finish_reason": "tool_calls",
			"message": {"role": "assistant", "content": "",
				"tool_calls": [{"id": %q, "type": "function",
					"function": {"name": %q, "arguments": %q}}]}}]
	}`, callID, name, arguments)
}

func newTestAssistant(t *testing.T, model *fakeModel, maxToolTurns int) (*Assistant, *statex.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(model.handler(t))
	t.Cleanup(srv.Close)

	cfg := llmx.Config{
		BaseURL:            srv.URL,
		APIKey:             "test-key",
		Model:              "test-model",
		MaxCompletionToken: 500,
		Temperature:        0,
		Timeout:            5 * time.Second,
		MaxToolTurns:       maxToolTurns,
	}
	client := openrouterx.NewClient(cfg.OpenRouter())
	if client == nil {
		t.Fatal("client construction failed")
	}

	store := statex.NewMemoryStore(statex.WithClock(func() time.Time { return testNow }))
	a, err := New(client, cfg, store, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, store
}

func TestHandleMessageDirectReply(t *testing.T) {
	t.Parallel()

	model := &fakeModel{script: []string{textResponse("Happy to help with gift planning!")}}
	a, store := newTestAssistant(t, model, 4)

	reply, err := a.HandleMessage(context.Background(), "s-1", "hello")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply != "Happy to help with gift planning!" {
		t.Fatalf("reply = %q", reply)
	}

	st, release, err := store.Acquire("s-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()
	if len(st.History) != 2 {
		t.Fatalf("history = %d turns, want 2", len(st.History))
	}
	if st.History[0].Role != "user" || st.History[1].Role != "assistant" {
		t.Fatalf("history roles wrong: %+v", st.History)
	}
}

func TestHandleMessageToolLoop(t *testing.T) {
	t.Parallel()

	model := &fakeModel{script: []string{
		toolCallResponse("call_1", "add_recipient_profile", `{"name":"Mia","age":28}`),
		textResponse("Saved Mia's profile."),
	}}
	a, store := newTestAssistant(t, model, 4)

	reply, err := a.HandleMessage(context.Background(), "s-1", "add my sister Mia, 28")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if reply != "Saved Mia's profile." {
		t.Fatalf("reply = %q", reply)
	}

	// The tool actually ran against session state.
	st, release, err := store.Acquire("s-1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer release()
	r, ok := st.FindRecipient("Mia")
	if !ok || r.Age != 28 {
		t.Fatalf("recipient not stored via tool: %+v", st.Recipients)
	}

	// The second model request carries the tool result keyed by call id.
	second := model.request(1)
	if second == nil {
		t.Fatal("second model request missing")
	}
	messages, _ := second["messages"].([]any)
	var sawToolResult bool
	for _, m := range messages {
		msg, _ := m.(map[string]any)
		if msg["role"] == "tool" && msg["tool_call_id"] == "call_1" {
			sawToolResult = true
			content, _ := msg["content"].(string)
			if !strings.Contains(content, "Mia") {
				t.Fatalf("tool result content missing payload: %s", content)
			}
		}
	}
	if !sawToolResult {
		t.Fatalf("no tool message in follow-up request: %v", messages)
	}
}

func TestHandleMessageSendsToolCatalog(t *testing.T) {
	t.Parallel()

	model := &fakeModel{script: []string{textResponse("hi")}}
	a, _ := newTestAssistant(t, model, 4)

	if _, err := a.HandleMessage(context.Background(), "s-1", "hello"); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}

	first := model.request(0)
	tools, _ := first["tools"].([]any)
	if len(tools) != 12 {
		t.Fatalf("tools advertised = %d, want 12", len(tools))
	}
	if got, _ := first["model"].(string); got != "test-model" {
		t.Fatalf("model = %q", got)
	}
}

func TestHandleMessageValidation(t *testing.T) {
	t.Parallel()

	model := &fakeModel{}
	a, _ := newTestAssistant(t, model, 4)
	ctx := context.Background()

	if _, err := a.HandleMessage(ctx, "", "hello"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
	if _, err := a.HandleMessage(ctx, "s-1", "   "); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestHandleMessageToolLoopBounded(t *testing.T) {
	t.Parallel()

	// The model keeps asking for tools and never produces a reply.
	model := &fakeModel{script: []string{
		toolCallResponse("call_1", "get_budget_status", `{}`),
		toolCallResponse("call_2", "get_budget_status", `{}`),
	}}
	a, _ := newTestAssistant(t, model, 2)

	_, err := a.HandleMessage(context.Background(), "s-1", "loop forever")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestHandleMessageModelFailure(t *testing.T) {
	t.Parallel()

	// Empty script: every request gets a 400 from the fake.
	model := &fakeModel{}
	a, _ := newTestAssistant(t, model, 2)

	_, err := a.HandleMessage(context.Background(), "s-1", "hello")
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestHandleMessageUnknownToolDegrades(t *testing.T) {
	t.Parallel()

	// An unknown tool name comes back as an error payload to the model, and
	// the conversation still finishes.
	model := &fakeModel{script: []string{
		toolCallResponse("call_1", "teleport", `{}`),
		textResponse("I can't do that, but I can plan gifts."),
	}}
	a, _ := newTestAssistant(t, model, 4)

	reply, err := a.HandleMessage(context.Background(), "s-1", "teleport me")
	if err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if !strings.Contains(reply, "plan gifts") {
		t.Fatalf("reply = %q", reply)
	}

	second := model.request(1)
	raw, _ := json.Marshal(second)
	if !strings.Contains(string(raw), "not available") {
		t.Fatalf("tool error not relayed to the model: %s", raw)
	}
}

func TestGenerateIdeas(t *testing.T) {
	t.Parallel()

	model := &fakeModel{script: []string{textResponse("1. Yoga mat\n2. Tea set")}}
	a, _ := newTestAssistant(t, model, 4)

	ideas, err := a.GenerateIdeas(context.Background(), contractx.IdeaRequest{
		Request:       "birthday gift",
		RecipientName: "Mia",
		Interests:     []string{"yoga"},
	})
	if err != nil {
		t.Fatalf("GenerateIdeas: %v", err)
	}
	if !strings.Contains(ideas, "Yoga mat") {
		t.Fatalf("ideas = %q", ideas)
	}

	// The request carries the profile payload and no tool catalog.
	first := model.request(0)
	if _, ok := first["tools"]; ok {
		t.Fatal("idea generation must not advertise tools")
	}
	raw, _ := json.Marshal(first["messages"])
	if !strings.Contains(string(raw), "Mia") || !strings.Contains(string(raw), "yoga") {
		t.Fatalf("profile payload missing from request: %s", raw)
	}
}

func TestGenerateIdeasUpstreamError(t *testing.T) {
	t.Parallel()

	model := &fakeModel{}
	a, _ := newTestAssistant(t, model, 4)

	_, err := a.GenerateIdeas(context.Background(), contractx.IdeaRequest{Request: "anything"})
	if !errors.Is(err, contractx.ErrExternal) {
		t.Fatalf("expected ErrExternal, got %v", err)
	}
}

func TestNewValidatesInputs(t *testing.T) {
	t.Parallel()

	store := statex.NewMemoryStore()
	cfg := llmx.Config{APIKey: "k", Model: "m", MaxToolTurns: 4}
	client := openrouterx.NewClient(openrouterx.Config{APIKey: "k"})

	if _, err := New(nil, cfg, store); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := New(client, cfg, nil); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(client, llmx.Config{Model: "m", MaxToolTurns: 4}, store); !errors.Is(err, contractx.ErrValidation) {
		t.Fatal("expected validation error for missing api key")
	}
}
