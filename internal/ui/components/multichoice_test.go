package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMultiChoice_EnterPicksHighlighted(t *testing.T) {
	m := NewMultiChoice([]string{"Yes, let's adjust", "No, this looks good"})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if _, ok := m.Chosen(); ok {
		t.Fatal("nothing should be chosen before enter")
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got, _ := m.Chosen(); got != "No, this looks good" {
		t.Errorf("Chosen = %q, want the wrapped-to last option", got)
	}
}

func TestMultiChoice_DigitLocks(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"})
	m, _ = m.Update(tea.KeyPressMsg{Code: '2', Text: "2"})
	m, _ = m.Update(tea.KeyPressMsg{Code: '3', Text: "3"})
	if got, _ := m.Chosen(); got != "b" {
		t.Errorf("Chosen = %q, want b", got)
	}
	if !strings.Contains(m.View(), "✓ 2) b") {
		t.Errorf("view should mark the pick:\n%s", m.View())
	}

	m, _ = NewMultiChoice([]string{"a"}).Update(tea.KeyPressMsg{Code: '9', Text: "9"})
	if _, ok := m.Chosen(); ok {
		t.Error("out-of-range digit should not pick")
	}
}
