// Package questions supplies the assistant's next question during a
// feedback session.
package questions

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/fido/internal/competency"
)

// ErrEmptyQuestion is returned when a source produces no usable text.
var ErrEmptyQuestion = errors.New("question source returned empty text")

// Speaker identifies who said a transcript line.
type Speaker string

const (
	SpeakerAssessor  Speaker = "assessor"
	SpeakerAssistant Speaker = "assistant"
)

// Line is one transcript entry passed to a source as context.
type Line struct {
	Speaker    Speaker
	Text       string
	Competency competency.Area
}

// Request is everything a source may use to pick the next question.
type Request struct {
	Assessor   string
	Target     string
	Competency competency.Area
	Transcript []Line
}

// Source produces the next question for a competency. Implementations must
// be safe for concurrent use by independent sessions.
type Source interface {
	NextQuestion(ctx context.Context, req Request) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, req Request) (string, error)

// NextQuestion calls f.
func (f SourceFunc) NextQuestion(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Fallback is the question shown when a source fails.
func Fallback(area competency.Area, target string) string {
	if target == "" {
		target = "your colleague"
	}
	return fmt.Sprintf("Let's talk about %s. How would you describe %s's performance in this area?", area, target)
}
