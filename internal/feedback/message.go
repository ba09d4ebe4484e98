package feedback

import (
	"time"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/questions"
	"github.com/google/uuid"
)

// Speaker identifies the author of a message.
type Speaker string

const (
	SpeakerAssessor  Speaker = "assessor"
	SpeakerAssistant Speaker = "assistant"
)

// Message is one transcript entry. Messages are never modified once
// appended.
type Message struct {
	ID         string          `json:"id"`
	Speaker    Speaker         `json:"speaker"`
	Text       string          `json:"text"`
	Competency competency.Area `json:"competency,omitempty"`
	Choices    []string        `json:"choices,omitempty"`

	// ReviewNote marks the summary message shown for review.
	ReviewNote bool      `json:"review_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newMessage(now time.Time, speaker Speaker, text string, area competency.Area, choices []string) Message {
	return Message{
		ID:         uuid.NewString(),
		Speaker:    speaker,
		Text:       text,
		Competency: area,
		Choices:    cloneStrings(choices),
		CreatedAt:  now,
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		m.Choices = cloneStrings(m.Choices)
		out[i] = m
	}
	return out
}

// toLines converts a transcript into question-source context.
func toLines(msgs []Message) []questions.Line {
	lines := make([]questions.Line, len(msgs))
	for i, m := range msgs {
		sp := questions.SpeakerAssistant
		if m.Speaker == SpeakerAssessor {
			sp = questions.SpeakerAssessor
		}
		lines[i] = questions.Line{Speaker: sp, Text: m.Text, Competency: m.Competency}
	}
	return lines
}
