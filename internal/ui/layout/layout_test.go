package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestFrame_TooSmall(t *testing.T) {
	f := Frame{Width: 60, Height: 20}
	out := f.Render(func(int, int) string { t.Fatal("body should not render"); return "" })
	if !strings.Contains(out, "Terminal too small") || !strings.Contains(out, "60 x 20") {
		t.Fatalf("unexpected message: %q", out)
	}
}

func TestFrame_RenderFillsTerminal(t *testing.T) {
	f := Frame{
		Width:  100,
		Height: 30,
		Trail:  []string{"Home", "Work Items"},
		Stats:  HeaderStats{Assessor: "lee", Points: 42, Tier: "Mentor"},
		Hints:  []KeyHint{{Key: "Esc", Description: "Back"}},
	}
	var bodyW, bodyH int
	out := f.Render(func(w, h int) string {
		bodyW, bodyH = w, h
		return "body"
	})

	if bodyW != 100 || bodyH <= 0 || bodyH >= 30 {
		t.Fatalf("body got %dx%d", bodyW, bodyH)
	}
	if h := lipgloss.Height(out); h != 30 {
		t.Fatalf("frame height = %d, want 30", h)
	}
	for _, want := range []string{"Home › Work Items", "◆ 42 pts", "Mentor", "lee", "body", "Back"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q", want)
		}
	}
}

func TestTrail(t *testing.T) {
	titles := []string{"Home", "Work Items", "Log Work Item"}
	if got := trail(titles, 100); got != "Home › Work Items › Log Work Item" {
		t.Errorf("wide: %q", got)
	}
	if got := trail(titles, 20); got != "… › Log Work Item" {
		t.Errorf("narrow: %q", got)
	}
	if got := trail(nil, 10); got != "" {
		t.Errorf("empty: %q", got)
	}
}

func TestFooterDropsHintsButKeepsLast(t *testing.T) {
	var hints []KeyHint
	for range 12 {
		hints = append(hints, KeyHint{Key: "Ctrl+X", Description: "Something long"})
	}
	hints = append(hints, KeyHint{Key: "Ctrl+C", Description: "Quit"})
	f := Frame{Width: 80, Height: 24, Hints: hints}

	out := f.footer()
	if !strings.Contains(out, "Quit") {
		t.Fatal("last hint dropped")
	}
	if len(f.Hints) != 13 || f.Hints[11].Key != "Ctrl+X" {
		t.Fatal("footer mutated the caller's hints")
	}
}
