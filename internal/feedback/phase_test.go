package feedback

import "testing"

func TestPhaseMachine_LegalPath(t *testing.T) {
	m, err := newPhaseMachine("s1")
	if err != nil {
		t.Fatalf("newPhaseMachine: %v", err)
	}
	if m.Current() != PhaseCollecting {
		t.Fatalf("initial phase = %s, want collecting", m.Current())
	}

	steps := []struct {
		event string
		want  Phase
	}{
		{eventReview, PhaseReviewing},
		{eventAdjust, PhaseAdjusting},
		{eventChoose, PhaseCollecting},
		{eventReview, PhaseReviewing},
		{eventConfirm, PhaseComplete},
	}
	for _, s := range steps {
		if err := m.Fire(s.event); err != nil {
			t.Fatalf("Fire(%q): %v", s.event, err)
		}
		if m.Current() != s.want {
			t.Fatalf("after %q phase = %s, want %s", s.event, m.Current(), s.want)
		}
	}
}

func TestPhaseMachine_RejectsIllegalEvents(t *testing.T) {
	m, err := newPhaseMachine("s1")
	if err != nil {
		t.Fatalf("newPhaseMachine: %v", err)
	}
	for _, ev := range []string{eventAdjust, eventConfirm, eventChoose} {
		if err := m.Fire(ev); err == nil {
			t.Errorf("Fire(%q) in collecting should fail", ev)
		}
	}

	_ = m.Fire(eventReview)
	_ = m.Fire(eventConfirm)
	for _, ev := range []string{eventReview, eventAdjust, eventConfirm, eventChoose} {
		if err := m.Fire(ev); err == nil {
			t.Errorf("Fire(%q) in complete should fail", ev)
		}
	}
	if m.Current() != PhaseComplete {
		t.Errorf("phase = %s, want complete", m.Current())
	}
}
