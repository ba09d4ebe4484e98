package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

// Gauge is a horizontal bar showing value out of total.
type Gauge struct {
	Label string
	Value float64
	Total float64
	Width int // whole gauge, label and suffix included
	Fill  color.Color

	suffix func(value, total float64) string
}

// NewGauge builds a gauge with no numeric suffix.
func NewGauge(label string, value, total float64, width int) Gauge {
	return Gauge{Label: label, Value: value, Total: total, Width: width, Fill: theme.Secondary}
}

// WithCount appends "value/total", for discrete steps such as answered
// questions or competency scores.
func (g Gauge) WithCount() Gauge {
	g.suffix = func(v, t float64) string { return fmt.Sprintf("%d/%d", int(v), int(t)) }
	return g
}

// WithPercent appends the filled share as a percentage.
func (g Gauge) WithPercent() Gauge {
	g.suffix = func(v, t float64) string { return fmt.Sprintf("%3d%%", int(100*ratio(v, t))) }
	return g
}

// Color overrides the fill color.
func (g Gauge) Color(c color.Color) Gauge {
	g.Fill = c
	return g
}

func ratio(v, t float64) float64 {
	if t <= 0 {
		return 0
	}
	return min(max(v/t, 0), 1)
}

func (g Gauge) View() string {
	var head, tail string
	if g.Label != "" {
		head = lipgloss.NewStyle().Foreground(theme.Text).Render(g.Label) + "  "
	}
	if g.suffix != nil {
		tail = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(g.suffix(g.Value, g.Total))
	}

	bar := max(g.Width-lipgloss.Width(head)-lipgloss.Width(tail), 4)
	filled := int(float64(bar) * ratio(g.Value, g.Total))

	fill := g.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	return head +
		lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", bar-filled)) +
		tail
}
