package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func mustBackend(t *testing.T, name string) backend {
	t.Helper()
	b, ok := lookupBackend(name)
	if !ok {
		t.Fatalf("no backend %q", name)
	}
	return b
}

func TestBackendResolve(t *testing.T) {
	tests := []struct {
		backend string
		model   string
		want    string
	}{
		{"groq", "", "llama-3.3-70b-versatile"},
		{"groq", "llama-8b", "llama-3.1-8b-instant"},
		{"gemini", "", "gemini-2.5-flash"},
		{"gemini", "gemini-flash-lite", "gemini-2.5-flash-lite"},
		{"gemini", "gemini-2.0-flash", "gemini-2.0-flash"},
		{"anthropic", "", "claude-haiku-4-5-20251001"},
		{"anthropic", "claude-sonnet", "claude-sonnet-4-20250514"},
		{"openai", "", "gpt-4o-mini"},
		{"openrouter", "anthropic/claude-3-haiku", "anthropic/claude-3-haiku"},
	}
	for _, tt := range tests {
		t.Run(tt.backend+"/"+tt.model, func(t *testing.T) {
			got := mustBackend(t, tt.backend).resolve(Endpoint{Model: tt.model})
			if got.Model != tt.want {
				t.Errorf("model = %q, want %q", got.Model, tt.want)
			}
		})
	}

	or := mustBackend(t, "openrouter")
	if ep := or.resolve(Endpoint{}); ep.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("default base URL = %q", ep.BaseURL)
	}
	if ep := or.resolve(Endpoint{BaseURL: "http://proxy/v1"}); ep.BaseURL != "http://proxy/v1" {
		t.Errorf("base URL override lost: %q", ep.BaseURL)
	}
}

func TestBackendsOpen(t *testing.T) {
	ctx := context.Background()
	for _, name := range BackendNames() {
		t.Run(name, func(t *testing.T) {
			b := mustBackend(t, name)
			p, err := b.open(ctx, b.resolve(Endpoint{APIKey: "test-key"}))
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if p.ModelID() != b.resolve(Endpoint{}).Model {
				t.Errorf("ModelID = %q", p.ModelID())
			}
			if _, err := b.open(ctx, b.resolve(Endpoint{})); err == nil {
				t.Error("expected an error without an API key")
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	if _, err := NewProvider(ctx, Config{Provider: "nope"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := NewProvider(ctx, Config{Provider: "anthropic"}, nil); err == nil || !strings.Contains(err.Error(), "FIDO_ANTHROPIC_API_KEY") {
		t.Errorf("missing key error should name the variable, got %v", err)
	}

	p, err := NewProvider(ctx, Config{Provider: "mock", Retry: DefaultConfig().Retry}, nil)
	if err != nil {
		t.Fatalf("mock: %v", err)
	}
	resp, err := p.Generate(ctx, Request{System: "ask"})
	if err != nil || Text(resp) == "" {
		t.Fatalf("mock question: %q, %v", Text(resp), err)
	}
}

func TestGroqSendsSchemaAsJSONObject(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("llama-3.3-70b-versatile", `{"name":"Sam","age":3}`, "stop"))
	}))
	t.Cleanup(server.Close)

	b := mustBackend(t, "groq")
	p, err := b.open(context.Background(), b.resolve(Endpoint{APIKey: "gsk-test", BaseURL: server.URL + "/v1"}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are a competency assessment expert.",
		Messages: []Message{{Role: RoleUser, Content: "Describe Sam."}},
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(resp.Content) != `{"name":"Sam","age":3}` {
		t.Errorf("content = %s", resp.Content)
	}

	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", got["response_format"])
	}
	msgs, _ := got["messages"].([]any)
	last, _ := msgs[len(msgs)-1].(map[string]any)
	if content, _ := last["content"].(string); !strings.Contains(content, "test-object") {
		t.Errorf("schema instructions missing from prompt: %v", last)
	}
}

func TestDefaultModelsPriced(t *testing.T) {
	for _, b := range backends {
		models := []string{b.resolve(Endpoint{}).Model}
		for _, id := range b.aliases {
			models = append(models, id)
		}
		for _, m := range models {
			if LookupCost(m) == nil {
				t.Errorf("%s: no pricing for %q", b.name, m)
			}
		}
	}
}
