// Package placeholder renders a stand-in for a screen whose backing service
// was not wired at startup.
package placeholder

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
	"github.com/abhisek/fido/internal/ui/theme"
)

type Screen struct {
	title  string
	reason string
	fixes  []string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New returns a screen titled title explaining why it is empty. Each fix is
// shown as a suggested next step.
func New(title, reason string, fixes ...string) *Screen {
	if reason == "" {
		reason = "This feature is not available."
	}
	return &Screen{title: title, reason: reason, fixes: fixes}
}

func (p *Screen) Init() tea.Cmd { return nil }

func (p *Screen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return p, nil }

func (p *Screen) Title() string { return p.title }

func (p *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "esc", Description: "back"}}
}

func (p *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("OUT OF ORDER"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(p.reason))
	for _, f := range p.fixes {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("→ " + f))
	}
	card := components.ArcadeCard(b.String(), components.ContentWidth(width))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
