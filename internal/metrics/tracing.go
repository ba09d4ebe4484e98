// Package metrics exports OpenTelemetry metrics and traces for FIDO.
package metrics

import (
	"context"
	"fmt"
	"io"

	"github.com/abhisek/fido/internal/questions"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer installs a global tracer provider that writes spans to w.
// The returned function flushes and stops it.
func InitTracer(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// TracedSource wraps a question source so each fetch is a span.
type TracedSource struct {
	next   questions.Source
	tracer trace.Tracer
}

// NewTracedSource wraps next using the global tracer provider.
func NewTracedSource(next questions.Source) *TracedSource {
	return &TracedSource{next: next, tracer: otel.Tracer("fido-questions")}
}

// NextQuestion implements questions.Source.
func (t *TracedSource) NextQuestion(ctx context.Context, req questions.Request) (string, error) {
	ctx, span := t.tracer.Start(ctx, "questions.next")
	defer span.End()

	span.SetAttributes(
		attribute.String("competency", string(req.Competency)),
		attribute.Int("transcript.length", len(req.Transcript)),
	)

	q, err := t.next.NextQuestion(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	span.SetAttributes(attribute.Int("question.length", len(q)))
	return q, nil
}
