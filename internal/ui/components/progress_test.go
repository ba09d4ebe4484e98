package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

func TestRatio(t *testing.T) {
	tests := []struct{ v, total, want float64 }{
		{3, 5, 0.6},
		{7, 5, 1},
		{-1, 5, 0},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := ratio(tt.v, tt.total); got != tt.want {
			t.Errorf("ratio(%v, %v) = %v, want %v", tt.v, tt.total, got, tt.want)
		}
	}
}

func TestGauge_View(t *testing.T) {
	out := NewGauge("Ownership", 3, 5, 40).WithCount().View()
	if !strings.Contains(out, "Ownership") || !strings.Contains(out, "3/5") {
		t.Fatalf("missing label or count: %q", out)
	}
	if w := lipgloss.Width(out); w != 40 {
		t.Fatalf("width = %d, want 40", w)
	}

	if !strings.Contains(NewGauge("", 1, 4, 30).WithPercent().View(), "25%") {
		t.Fatal("missing percent")
	}
}

func TestLogo_FallsBackWhenNarrow(t *testing.T) {
	if got := Logo(LogoWidth - 1); !strings.Contains(got, "F · I · D · O") {
		t.Errorf("narrow logo = %q", got)
	}
	full := Logo(80, theme.Primary, theme.Secondary)
	if n := strings.Count(full, "\n"); n != 5 {
		t.Errorf("full logo has %d line breaks, want 5", n)
	}
}
