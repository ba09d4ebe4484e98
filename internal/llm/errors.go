package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Every backend maps its failures onto the types below; RetryProvider and
// the question source only ever look at these.

// ErrRateLimit is a 429. RetryAfter is zero when the server gave no hint.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

// ErrAuth means the backend rejected the API key.
type ErrAuth struct {
	Status int
	Err    error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("LLM credentials rejected (HTTP %d): %v", e.Status, e.Err)
}

// ErrInvalidResponse is a reply that does not parse or does not match the
// requested schema. Content holds what came back.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string { return "invalid LLM response: " + e.Err.Error() }

// ErrProviderUnavailable covers outages, 5xx and transport failures.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return "LLM provider unavailable: " + e.Err.Error()
}

// ErrMaxTokensExceeded is structured output cut off by MaxTokens.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string { return "LLM response truncated at max tokens" }

func (e *ErrRateLimit) Unwrap() error           { return e.Err }
func (e *ErrAuth) Unwrap() error                { return e.Err }
func (e *ErrInvalidResponse) Unwrap() error     { return e.Err }
func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

type retryClass int

const (
	retryNever retryClass = iota
	retryOnce             // a second sample may parse
	retryBackoff
)

func (*ErrRateLimit) retryClass() retryClass           { return retryBackoff }
func (*ErrProviderUnavailable) retryClass() retryClass { return retryBackoff }
func (*ErrInvalidResponse) retryClass() retryClass     { return retryOnce }
func (*ErrAuth) retryClass() retryClass                { return retryNever }
func (*ErrMaxTokensExceeded) retryClass() retryClass   { return retryNever }

// classify decides how RetryProvider treats err. Errors from outside this
// package are assumed to be transport failures.
func classify(err error) retryClass {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}
	var c interface{ retryClass() retryClass }
	if errors.As(err, &c) {
		return c.retryClass()
	}
	return retryBackoff
}

// errorForStatus maps an HTTP status from any SDK onto the types above.
func errorForStatus(status int, retryAfter time.Duration, err error) error {
	switch status {
	case http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter, Err: err}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ErrAuth{Status: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// parseRetryAfter reads a Retry-After given in seconds. HTTP dates are
// ignored.
func parseRetryAfter(h http.Header) time.Duration {
	secs, err := strconv.ParseFloat(strings.TrimSpace(h.Get("Retry-After")), 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
