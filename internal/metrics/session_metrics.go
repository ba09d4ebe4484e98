package metrics

import (
	"context"
	"time"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("fido-sessions")

// SessionMetrics records feedback session activity. It implements
// feedback.Observer.
type SessionMetrics struct {
	sessionsStarted   metric.Int64Counter
	sessionsCompleted metric.Int64Counter
	sessionsActive    metric.Int64UpDownCounter
	questionsFetched  metric.Int64Counter
	questionDuration  metric.Float64Histogram
	phaseTransitions  metric.Int64Counter
}

// NewSessionMetrics creates the session instruments.
func NewSessionMetrics() (*SessionMetrics, error) {
	sessionsStarted, err := meter.Int64Counter(
		"fido.sessions.started",
		metric.WithDescription("Total number of feedback sessions started"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	sessionsCompleted, err := meter.Int64Counter(
		"fido.sessions.completed",
		metric.WithDescription("Total number of feedback sessions completed"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	sessionsActive, err := meter.Int64UpDownCounter(
		"fido.sessions.active",
		metric.WithDescription("Number of open feedback sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	questionsFetched, err := meter.Int64Counter(
		"fido.questions.fetched",
		metric.WithDescription("Questions requested from the question source"),
		metric.WithUnit("{question}"),
	)
	if err != nil {
		return nil, err
	}

	questionDuration, err := meter.Float64Histogram(
		"fido.question.duration",
		metric.WithDescription("Time spent waiting for the question source in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	phaseTransitions, err := meter.Int64Counter(
		"fido.phase.transitions",
		metric.WithDescription("Session phase transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &SessionMetrics{
		sessionsStarted:   sessionsStarted,
		sessionsCompleted: sessionsCompleted,
		sessionsActive:    sessionsActive,
		questionsFetched:  questionsFetched,
		questionDuration:  questionDuration,
		phaseTransitions:  phaseTransitions,
	}, nil
}

// SessionStarted records a new session.
func (m *SessionMetrics) SessionStarted(ctx context.Context) {
	m.sessionsStarted.Add(ctx, 1)
	m.sessionsActive.Add(ctx, 1)
}

// SessionClosed records a session leaving the registry.
func (m *SessionMetrics) SessionClosed(ctx context.Context) {
	m.sessionsActive.Add(ctx, -1)
}

// QuestionFetched implements feedback.Observer.
func (m *SessionMetrics) QuestionFetched(ctx context.Context, area competency.Area, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "fallback"
	}
	attrs := metric.WithAttributes(
		attribute.String("competency", string(area)),
		attribute.String("outcome", outcome),
	)
	m.questionsFetched.Add(ctx, 1, attrs)
	m.questionDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// PhaseChanged implements feedback.Observer.
func (m *SessionMetrics) PhaseChanged(ctx context.Context, from, to feedback.Phase) {
	m.phaseTransitions.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("from", string(from)),
			attribute.String("to", string(to)),
		),
	)
}

// Completed implements feedback.Observer.
func (m *SessionMetrics) Completed(ctx context.Context, _ feedback.Record, deliverErr error) {
	status := "delivered"
	if deliverErr != nil {
		status = "delivery_failed"
	}
	m.sessionsCompleted.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
