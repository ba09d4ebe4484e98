package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and offline runs.
// Queued responses are served first in FIFO order; once the queue is empty
// the Responder, if set, answers. Every request is recorded in Calls.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse

	// Responder answers requests once the queue runs dry. Nil means the
	// provider reports itself unavailable.
	Responder func(Request) MockResponse

	Calls []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var next MockResponse
	switch {
	case len(m.responses) > 0:
		next = m.responses[0]
		m.responses = m.responses[1:]
	case m.Responder != nil:
		next = m.Responder(req)
	default:
		return nil, &ErrProviderUnavailable{Err: errors.New("mock queue empty")}
	}
	if next.Err != nil {
		return nil, next.Err
	}

	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// offlineQuestions rotate when FIDO_LLM_PROVIDER=mock, so the whole flow can
// be driven without network access.
var offlineQuestions = []string{
	"What is one thing they did recently that you would like to see more of?",
	"Can you describe a moment where their work unblocked someone else?",
	"Where do you think they could grow over the next quarter?",
}

// newOfflineMock answers plain-text prompts with a rotating question and
// declines structured requests so callers take their local fallbacks.
func newOfflineMock() *MockProvider {
	m := NewMockProvider()
	n := 0
	m.Responder = func(req Request) MockResponse {
		if req.Schema != nil {
			return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("mock provider has no structured output")}}
		}
		q := offlineQuestions[n%len(offlineQuestions)]
		n++
		return MockResponse{
			Content: json.RawMessage(strconv.Quote(q)),
			Usage:   Usage{InputTokens: len(req.System) / 4, OutputTokens: len(q) / 4, TotalTokens: (len(req.System) + len(q)) / 4},
		}
	}
	return m
}
