package summary

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
	"github.com/abhisek/fido/internal/ui/theme"
)

// SummaryScreen displays one feedback record.
type SummaryScreen struct {
	record      feedback.Record
	deliveryErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen. deliveryErr is shown when the record
// could not be saved.
func New(rec feedback.Record, deliveryErr error) *SummaryScreen {
	return &SummaryScreen{record: rec, deliveryErr: deliveryErr}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Feedback Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	rec := s.record
	cw := components.ContentWidth(width)

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(fmt.Sprintf("Feedback for %s", rec.Target)))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("by %s · %s", rec.Assessor, rec.CompletedAt.Local().Format("Jan 2, 2006 15:04"))))
	b.WriteString("\n\n")

	if s.deliveryErr != nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Not saved: " + s.deliveryErr.Error()))
		b.WriteString("\n\n")
	}

	b.WriteString(section(width, cw, "Competencies"))
	for _, area := range scoredAreas(rec.Scores) {
		score := rec.Scores[area]
		bar := components.NewGauge(shorten(area.String(), 28), float64(score), competency.MaxScore, cw).WithCount().View()
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(section(width, cw, "Strengths"))
	b.WriteString(bullets(width, rec.Strengths, theme.Success))
	b.WriteString("\n")
	b.WriteString(section(width, cw, "Areas for Improvement"))
	b.WriteString(bullets(width, rec.Improvements, theme.Accent))

	if notes := rec.LanguageNotes; notes != nil && notes.Level != "" {
		b.WriteString("\n")
		b.WriteString(section(width, cw, "Your Writing"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("Level: "+notes.Level)))
		b.WriteString("\n")
		b.WriteString(bullets(width, notes.Suggestions, theme.Text))
	}

	return b.String()
}

// scoredAreas returns the areas of scores in display order: the default
// catalog order first, then any custom areas sorted by name.
func scoredAreas(scores competency.ScoreMap) []competency.Area {
	var out []competency.Area
	seen := make(map[competency.Area]bool, len(scores))
	for _, a := range competency.DefaultAreas() {
		if _, ok := scores[a]; ok {
			out = append(out, a)
			seen[a] = true
		}
	}
	var rest []competency.Area
	for a := range scores {
		if !seen[a] {
			rest = append(rest, a)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

func section(width, cw int, title string) string {
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(title)) + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, divider) + "\n"
}

func bullets(width int, items []string, fg color.Color) string {
	if len(items) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("(none)")) + "\n"
	}
	var b strings.Builder
	style := lipgloss.NewStyle().Foreground(fg)
	for _, it := range items {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render("• "+it)))
		b.WriteString("\n")
	}
	return b.String()
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s + strings.Repeat(" ", n-len(r))
	}
	return string(r[:n-1]) + "…"
}
