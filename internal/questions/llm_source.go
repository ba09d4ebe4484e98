package questions

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/fido/internal/llm"
	"github.com/felixgeelhaar/fortify/timeout"
)

// Config holds question generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds one question fetch, including provider retries.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults for question generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   200,
		Temperature: 0.7,
		Timeout:     20 * time.Second,
	}
}

// LLMSource asks an LLM provider for each question.
type LLMSource struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMSource creates an LLM-backed question source.
func NewLLMSource(provider llm.Provider, cfg Config) *LLMSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &LLMSource{provider: provider, cfg: cfg}
}

// NextQuestion implements Source.
func (s *LLMSource) NextQuestion(ctx context.Context, req Request) (string, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	t := timeout.New[string](timeout.Config{
		DefaultTimeout: s.cfg.Timeout,
	})

	return t.Execute(ctx, s.cfg.Timeout, func(ctx context.Context) (string, error) {
		resp, err := s.provider.Generate(ctx, llm.Request{
			System: buildSystemPrompt(req),
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: buildUserMessage(req)},
			},
			MaxTokens:   s.cfg.MaxTokens,
			Temperature: s.cfg.Temperature,
		})
		if err != nil {
			return "", fmt.Errorf("question generation: %w", err)
		}

		q := cleanQuestion(llm.Text(resp))
		if q == "" {
			return "", ErrEmptyQuestion
		}
		return q, nil
	})
}
