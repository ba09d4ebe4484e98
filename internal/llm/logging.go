package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/fido/internal/store"
)

// LoggingProvider records every call to the wrapped provider as an LLM
// event. It sits under RetryProvider, so each attempt is its own event.
type LoggingProvider struct {
	inner   Provider
	backend string
	repo    store.EventRepo
	logger  *slog.Logger
}

// WithLogging wraps p. backend is the label stored on each event; a nil
// repo records nothing.
func WithLogging(p Provider, backend string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, backend: backend, repo: repo, logger: slog.Default()}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	if l.repo == nil {
		return resp, err
	}
	ev := l.event(ctx, req, resp, err, time.Since(start))
	if logErr := l.repo.AppendLLMRequest(ctx, ev); logErr != nil {
		// Losing an audit row must not fail the conversation.
		l.logger.WarnContext(ctx, "llm event not recorded",
			"purpose", ev.Purpose, "model", ev.Model, "error", logErr)
	}
	return resp, err
}

func (l *LoggingProvider) event(ctx context.Context, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.backend,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		SessionID:   SessionFrom(ctx),
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	return ev
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// transcript renders a request the way `fido llm view` shows it: one
// bracketed heading per part.
func transcript(req Request) string {
	var b strings.Builder
	part := func(heading, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", heading, body)
	}
	if req.System != "" {
		part("system", req.System)
	}
	for _, m := range req.Messages {
		part(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			part("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
