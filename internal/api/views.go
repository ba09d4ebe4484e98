package api

import (
	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
)

type sessionView struct {
	ID         string              `json:"id"`
	Assessor   string              `json:"assessor"`
	Target     string              `json:"target"`
	Phase      feedback.Phase      `json:"phase"`
	Current    competency.Area     `json:"current"`
	Busy       bool                `json:"busy"`
	Transcript []feedback.Message  `json:"transcript"`
	Choices    []string            `json:"choices,omitempty"`
	Scores     competency.ScoreMap `json:"scores"`
	Summary    string              `json:"summary,omitempty"`
	Record     *feedback.Record    `json:"record,omitempty"`
}

func newSessionView(s *feedback.Session) sessionView {
	cfg := s.Config()
	v := sessionView{
		ID:         s.ID(),
		Assessor:   cfg.Assessor,
		Target:     cfg.Target,
		Phase:      s.Phase(),
		Current:    s.Current(),
		Busy:       s.Busy(),
		Transcript: s.Transcript(),
		Choices:    s.Choices(),
		Scores:     s.Scores(),
		Summary:    s.Summary(),
	}
	if rec, ok := s.Record(); ok {
		v.Record = &rec
	}
	return v
}

type turnView struct {
	Phase         feedback.Phase     `json:"phase"`
	Current       competency.Area    `json:"current"`
	Messages      []feedback.Message `json:"messages"`
	Choices       []string           `json:"choices,omitempty"`
	Record        *feedback.Record   `json:"record,omitempty"`
	QuestionError string             `json:"question_error,omitempty"`
	DeliveryError string             `json:"delivery_error,omitempty"`
	AnalysisError string             `json:"analysis_error,omitempty"`
}

func newTurnView(t feedback.Turn, deliverErr error) turnView {
	v := turnView{
		Phase:    t.Phase,
		Current:  t.Current,
		Messages: t.Messages,
		Choices:  t.Choices,
		Record:   t.Record,
	}
	if t.QuestionErr != nil {
		v.QuestionError = t.QuestionErr.Error()
	}
	if deliverErr != nil {
		v.DeliveryError = deliverErr.Error()
	}
	if t.AnalysisErr != nil {
		v.AnalysisError = t.AnalysisErr.Error()
	}
	return v
}
