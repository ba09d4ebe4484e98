package llm

import (
	"context"
	"slices"
)

// backend describes one LLM service FIDO can talk to.
type backend struct {
	name    string
	keyEnv  string // conventional key variable used by DiscoverConfig
	model   string // default model
	baseURL string // OpenAI-compatible backends only
	aliases map[string]string

	open func(ctx context.Context, ep Endpoint) (Provider, error)
}

// backends is listed in discovery order: cheap and fast first.
var backends = []backend{
	{
		name:    "groq",
		keyEnv:  "GROQ_API_KEY",
		model:   "llama-3.3-70b-versatile",
		baseURL: "https://api.groq.com/openai/v1",
		aliases: map[string]string{
			"llama-70b": "llama-3.3-70b-versatile",
			"llama-8b":  "llama-3.1-8b-instant",
		},
		// Groq accepts json_object but not json_schema.
		open: openCompatible(true),
	},
	{
		name:   "gemini",
		keyEnv: "GEMINI_API_KEY",
		model:  "gemini-flash",
		aliases: map[string]string{
			"gemini-flash":      "gemini-2.5-flash",
			"gemini-flash-lite": "gemini-2.5-flash-lite",
			"gemini-pro":        "gemini-2.5-pro",
		},
		open: func(ctx context.Context, ep Endpoint) (Provider, error) {
			p, err := NewGeminiProvider(ctx, ep)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		name:   "openai",
		keyEnv: "OPENAI_API_KEY",
		model:  "gpt-4o-mini",
		aliases: map[string]string{
			"gpt-4o":      "gpt-4o",
			"gpt-4o-mini": "gpt-4o-mini",
		},
		open: openCompatible(false),
	},
	{
		name:   "anthropic",
		keyEnv: "ANTHROPIC_API_KEY",
		model:  "claude-haiku",
		aliases: map[string]string{
			"claude-sonnet": "claude-sonnet-4-20250514",
			"claude-haiku":  "claude-haiku-4-5-20251001",
		},
		open: func(_ context.Context, ep Endpoint) (Provider, error) {
			p, err := NewAnthropicProvider(ep)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
	},
	{
		name:    "openrouter",
		keyEnv:  "OPENROUTER_API_KEY",
		model:   "meta-llama/llama-3.3-70b-instruct",
		baseURL: "https://openrouter.ai/api/v1",
		open:    openCompatible(false),
	},
}

func openCompatible(jsonObjectOnly bool) func(context.Context, Endpoint) (Provider, error) {
	return func(_ context.Context, ep Endpoint) (Provider, error) {
		p, err := NewOpenAIProvider(ep)
		if err != nil {
			return nil, err
		}
		p.jsonObjectOnly = jsonObjectOnly
		return p, nil
	}
}

func lookupBackend(name string) (backend, bool) {
	i := slices.IndexFunc(backends, func(b backend) bool { return b.name == name })
	if i < 0 {
		return backend{}, false
	}
	return backends[i], true
}

// BackendNames lists the supported backends in discovery order.
func BackendNames() []string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.name
	}
	return names
}

// resolve fills in defaults and maps a model alias to its provider ID.
// Unknown model names pass through untouched.
func (b backend) resolve(ep Endpoint) Endpoint {
	if ep.Model == "" {
		ep.Model = b.model
	}
	if id, ok := b.aliases[ep.Model]; ok {
		ep.Model = id
	}
	if ep.BaseURL == "" {
		ep.BaseURL = b.baseURL
	}
	return ep
}
