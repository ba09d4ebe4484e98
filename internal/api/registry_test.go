package api

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/questions"
)

type countingLifecycle struct {
	started, closed atomic.Int32
}

func (l *countingLifecycle) SessionStarted(context.Context) { l.started.Add(1) }
func (l *countingLifecycle) SessionClosed(context.Context)  { l.closed.Add(1) }

func TestRegistry(t *testing.T) {
	lc := &countingLifecycle{}
	reg := NewRegistry(func(assessor, target string) (*feedback.Session, error) {
		return feedback.New(feedback.Config{Assessor: assessor, Target: target, Catalog: competency.Default()}, questions.NewStaticSource())
	}, lc)
	ctx := context.Background()

	s, turn, err := reg.Create(ctx, "lee", "Sam")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(turn.Messages) != 2 {
		t.Errorf("start turn has %d messages, want 2", len(turn.Messages))
	}
	if got, _ := reg.Get(s.ID()); got != s {
		t.Error("Get returned a different session")
	}

	if err := reg.Remove(ctx, s.ID()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !s.Closed() {
		t.Error("removed session should be closed")
	}
	if _, err := reg.Get(s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Remove: err = %v", err)
	}
	if err := reg.Remove(ctx, s.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Remove: err = %v", err)
	}
	if lc.started.Load() != 1 || lc.closed.Load() != 1 {
		t.Errorf("lifecycle counts = %d/%d, want 1/1", lc.started.Load(), lc.closed.Load())
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	reg := NewRegistry(func(assessor, target string) (*feedback.Session, error) {
		return feedback.New(feedback.Config{Assessor: assessor, Target: target, Catalog: competency.Default()}, questions.NewStaticSource())
	}, nil)
	ctx := context.Background()
	for range 3 {
		if _, _, err := reg.Create(ctx, "lee", "Sam"); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	reg.CloseAll(ctx)
	if reg.Len() != 0 {
		t.Errorf("Len = %d after CloseAll", reg.Len())
	}
}
