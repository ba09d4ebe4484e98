package questions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/llm"
)

func sampleRequest() Request {
	return Request{
		Assessor:   "Lee",
		Target:     "Sam",
		Competency: competency.Communication,
		Transcript: []Line{
			{Speaker: SpeakerAssistant, Text: "Hi Lee! How was work today ?."},
			{Speaker: SpeakerAssistant, Text: "How has Sam guided the team?", Competency: competency.Leadership},
			{Speaker: SpeakerAssessor, Text: "Sam ran the planning meeting well.", Competency: competency.Leadership},
		},
	}
}

func TestLLMSource_BuildsPromptFromTranscript(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`"How clearly does Sam explain priorities?"`),
	})
	src := NewLLMSource(mock, DefaultConfig())

	q, err := src.NextQuestion(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "How clearly does Sam explain priorities?" {
		t.Errorf("question = %q", q)
	}

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	req := mock.Calls[0]
	if !strings.Contains(req.System, "Lee") || !strings.Contains(req.System, "Sam") {
		t.Errorf("system prompt missing names: %q", req.System)
	}
	user := req.Messages[0].Content
	for _, want := range []string{
		"Assessor [Leadership & Management]: Sam ran the planning meeting well.",
		"Next competency area: Communication & Interpersonal Skills",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user message missing %q:\n%s", want, user)
		}
	}
	if req.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req.Temperature)
	}
}

func TestLLMSource_EmptyTranscript(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("Question: What did Sam lead?")})
	src := NewLLMSource(mock, DefaultConfig())

	q, err := src.NextQuestion(context.Background(), Request{Competency: competency.Leadership})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != "What did Sam lead?" {
		t.Errorf("prefix not stripped: %q", q)
	}
	if !strings.Contains(mock.Calls[0].Messages[0].Content, "(none)") {
		t.Error("empty transcript not marked")
	}
}

func TestLLMSource_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	src := NewLLMSource(mock, DefaultConfig())

	_, err := src.NextQuestion(context.Background(), sampleRequest())
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestLLMSource_EmptyResponse(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`"  "`)})
	src := NewLLMSource(mock, DefaultConfig())

	if _, err := src.NextQuestion(context.Background(), sampleRequest()); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("expected ErrEmptyQuestion, got %v", err)
	}
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestLLMSource_Timeout(t *testing.T) {
	src := NewLLMSource(slowProvider{}, Config{Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := src.NextQuestion(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not enforced, took %s", time.Since(start))
	}
}

func TestStaticSource_RotatesOnRevisit(t *testing.T) {
	src := NewStaticSource()
	req := Request{Target: "Sam", Competency: competency.Execution}

	first, err := src.NextQuestion(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(first, "Sam") {
		t.Errorf("question should name the target: %q", first)
	}

	req.Transcript = []Line{{Speaker: SpeakerAssistant, Text: first, Competency: competency.Execution}}
	second, _ := src.NextQuestion(context.Background(), req)
	if second == first {
		t.Errorf("revisit asked the same question: %q", second)
	}
}

func TestStaticSource_UnknownArea(t *testing.T) {
	q, err := NewStaticSource().NextQuestion(context.Background(), Request{Target: "Sam", Competency: "Leadership"})
	if err != nil {
		t.Fatal(err)
	}
	if q != "How has Sam demonstrated Leadership recently?" {
		t.Errorf("question = %q", q)
	}
}

func TestFallback(t *testing.T) {
	got := Fallback(competency.Innovation, "Sam")
	if !strings.Contains(got, string(competency.Innovation)) || !strings.Contains(got, "Sam") {
		t.Errorf("fallback = %q", got)
	}
}
