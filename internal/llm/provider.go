// Package llm talks to the language models behind FIDO's follow-up
// questions and language feedback. Backends sit behind Provider and are
// wrapped with retry and event-logging middleware by NewProvider.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider generates one completion.
type Provider interface {
	// Generate returns validated JSON when req.Schema is set and raw text
	// otherwise.
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System string

	// Messages replays the conversation so far. Question generation sends
	// the whole feedback transcript; analysis sends a single user message.
	Messages []Message

	// Schema, when set, asks the backend for structured output using its
	// native mechanism (tool use, json_schema, response schema).
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the backend default
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema. Name is sent as the OpenAI schema name and
// in logged transcripts, so keep it kebab-case.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalised stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
	StopError     = "error"
)

type Response struct {
	// Content is the validated JSON object for schema requests. Otherwise
	// it is the text, which some backends wrap as a JSON string; use Text.
	Content json.RawMessage

	Usage      Usage
	Model      string // the model that actually served the request
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns a plain-text response with any JSON string quoting removed.
func Text(resp *Response) string {
	if resp == nil {
		return ""
	}
	raw := strings.TrimSpace(string(resp.Content))
	var s string
	if strings.HasPrefix(raw, `"`) && json.Unmarshal([]byte(raw), &s) == nil {
		return strings.TrimSpace(s)
	}
	return raw
}

// DecodeJSON validates raw against schema and unmarshals it into v. A
// surrounding markdown code fence is ignored. Validation failures are
// *ErrInvalidResponse.
func DecodeJSON(schema *Schema, raw json.RawMessage, v any) error {
	if err := validateResponse(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(stripCodeFence(raw), v); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
