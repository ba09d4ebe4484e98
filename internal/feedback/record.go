package feedback

import (
	"context"
	"time"

	"github.com/abhisek/fido/internal/competency"
)

// Record is the structured result of a completed session.
type Record struct {
	ID            string              `json:"id"`
	SessionID     string              `json:"session_id"`
	Assessor      string              `json:"assessor"`
	Target        string              `json:"target"`
	Scores        competency.ScoreMap `json:"scores"`
	Strengths     []string            `json:"strengths"`
	Improvements  []string            `json:"improvements"`
	Summary       string              `json:"summary"`
	LanguageNotes *LanguageFeedback   `json:"language_notes,omitempty"`
	AnswerCount   int                 `json:"answer_count"`
	AnswerWords   int                 `json:"answer_words"`
	CompletedAt   time.Time           `json:"completed_at"`
}

// LanguageFeedback is the read-out of the assessor's own writing.
type LanguageFeedback struct {
	Vocabulary    []string `json:"vocabulary"`
	Grammar       []string `json:"grammar"`
	Pronunciation []string `json:"pronunciation"`
	Fluency       []string `json:"fluency"`
	Suggestions   []string `json:"suggestions"`
	Level         string   `json:"level"`
}

// Sink receives each completed record exactly once.
type Sink interface {
	Deliver(ctx context.Context, rec Record) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, rec Record) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// MultiSink delivers to each sink in order and stops at the first error.
type MultiSink []Sink

// Deliver implements Sink.
func (m MultiSink) Deliver(ctx context.Context, rec Record) error {
	for _, s := range m {
		if err := s.Deliver(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
