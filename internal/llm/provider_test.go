package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_QueuedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestContextLabels(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	if s := SessionFrom(ctx); s != "" {
		t.Fatalf("expected no session, got %q", s)
	}

	ctx = WithSession(WithPurpose(ctx, "question-gen"), "01J")
	if p := PurposeFrom(ctx); p != "question-gen" {
		t.Fatalf("expected 'question-gen', got %q", p)
	}
	if s := SessionFrom(ctx); s != "01J" {
		t.Fatalf("expected session '01J', got %q", s)
	}
}

func TestConfig_Validate(t *testing.T) {
	withKey := func(name string) Config {
		return Config{Provider: name, Endpoints: map[string]Endpoint{name: {APIKey: "k"}}}
	}
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", withKey("anthropic"), false},
		{"key for another backend", Config{Provider: "openai", Endpoints: map[string]Endpoint{"groq": {APIKey: "k"}}}, true},
		{"groq with key", withKey("groq"), false},
		{"openrouter with key", withKey("openrouter"), false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", withKey("unknown"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", "How did the sprint go?", "How did the sprint go?"},
		{"json string", `"How did the sprint go?"`, "How did the sprint go?"},
		{"surrounding space", "  Next question?\n", "Next question?"},
		{"json object stays raw", `{"a":1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(&Response{Content: json.RawMessage(tt.raw)})
			if got != tt.want {
				t.Fatalf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
	if Text(nil) != "" {
		t.Fatal("Text(nil) should be empty")
	}
}

func TestConfigFromEnv_FidoPrefix(t *testing.T) {
	t.Setenv("FIDO_LLM_PROVIDER", "groq")
	t.Setenv("FIDO_GROQ_API_KEY", "gsk-env")
	t.Setenv("FIDO_GROQ_MODEL", "llama-8b")
	t.Setenv("FIDO_OPENROUTER_BASE_URL", "http://proxy/v1")

	cfg := ConfigFromEnv()
	groq := cfg.Endpoints["groq"]
	if cfg.Provider != "groq" || groq.APIKey != "gsk-env" || groq.Model != "llama-8b" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Endpoints["openrouter"].BaseURL != "http://proxy/v1" {
		t.Errorf("openrouter endpoint = %+v", cfg.Endpoints["openrouter"])
	}
	if _, ok := cfg.Endpoints["anthropic"]; ok {
		t.Error("unset backends should have no endpoint")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, b := range backends {
		t.Setenv(b.keyEnv, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("discovered a provider with no keys set")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "openai" || cfg.Endpoints["openai"].APIKey != "sk-oai" {
		t.Fatalf("expected openai ahead of anthropic, got %+v", cfg)
	}
}

func TestMockProvider_ResponderAfterQueue(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"queued"`)})
	mock.Responder = func(req Request) MockResponse {
		return MockResponse{Content: json.RawMessage(`"fallback"`)}
	}

	for _, want := range []string{"queued", "fallback", "fallback"} {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if Text(resp) != want {
			t.Fatalf("got %q, want %q", Text(resp), want)
		}
	}
}

func TestOfflineMock(t *testing.T) {
	m := newOfflineMock()
	ctx := context.Background()

	first, err := m.Generate(ctx, Request{System: "ask about Sam"})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	second, _ := m.Generate(ctx, Request{System: "ask about Sam"})
	if Text(first) == "" || Text(first) == Text(second) {
		t.Fatalf("expected rotating questions, got %q then %q", Text(first), Text(second))
	}

	_, err = m.Generate(ctx, Request{Schema: &Schema{Name: "x"}})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("structured request: expected ErrProviderUnavailable, got %v", err)
	}
}
