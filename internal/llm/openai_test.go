package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatCompletion is a minimal chat.completion body.
func chatCompletion(model, content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   model,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func openAIAt(t *testing.T, status int, body any) (*OpenAIProvider, *map[string]any) {
	t.Helper()
	var sent map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(Endpoint{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	return p, &sent
}

func TestOpenAIProvider_Question(t *testing.T) {
	p, sent := openAIAt(t, http.StatusOK,
		chatCompletion("gpt-4o-mini", "How did Sam handle the release planning?", "stop"))

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a competency assessment expert.",
		Messages:  []Message{{Role: RoleUser, Content: "Ask the next question."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Text(resp) != "How did Sam handle the release planning?" {
		t.Errorf("content = %q", Text(resp))
	}
	if resp.Usage != (Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}) {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}

	msgs, _ := (*sent)["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	if first, _ := msgs[0].(map[string]any); first["role"] != "system" {
		t.Errorf("first message role = %v", first["role"])
	}
	if _, ok := (*sent)["response_format"]; ok {
		t.Error("plain request should not set response_format")
	}
}

func TestOpenAIProvider_StrictSchema(t *testing.T) {
	p, sent := openAIAt(t, http.StatusOK,
		chatCompletion("gpt-4o-mini", `{"name":"Sam","age":30,"level":"B2"}`, "stop"))

	if _, err := p.Generate(context.Background(), Request{Schema: testSchema()}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	format, _ := (*sent)["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v", format)
	}
	js, _ := format["json_schema"].(map[string]any)
	if js["name"] != "test-object" || js["strict"] != true {
		t.Errorf("json_schema = %v", js)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p, _ := openAIAt(t, http.StatusOK, chatCompletion("gpt-4o-mini", "What did", "length"))
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.StopReason != "max_tokens" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	apiError := func(typ, msg string) map[string]any {
		return map[string]any{"error": map[string]any{"type": typ, "message": msg}}
	}
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"bad key", http.StatusUnauthorized, func(err error) bool {
			var auth *ErrAuth
			return errors.As(err, &auth) && auth.Status == http.StatusUnauthorized
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var unavail *ErrProviderUnavailable
			return errors.As(err, &unavail)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := openAIAt(t, tt.status, apiError("test", tt.name))
			_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "test"}}})
			if err == nil || !tt.check(err) {
				t.Fatalf("unexpected error %T (%v)", err, err)
			}
		})
	}
}
