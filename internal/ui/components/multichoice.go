package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

// MultiChoice offers a few canned replies. It moves like a Menu and locks
// once a reply is picked.
type MultiChoice struct {
	menu   Menu
	chosen int
}

func NewMultiChoice(options []string) MultiChoice {
	items := make([]MenuItem, len(options))
	for i, o := range options {
		items[i] = MenuItem{Label: o}
	}
	return MultiChoice{menu: NewMenu(items), chosen: -1}
}

func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || m.chosen >= 0 || len(m.menu.Items) == 0 {
		return m, nil
	}
	m.menu, _ = m.menu.Update(msg)

	switch key := k.String(); {
	case key == "enter":
		m.chosen = m.menu.Selected
	case len(key) == 1 && key[0] >= '1' && key[0] <= '9' && int(key[0]-'1') < len(m.menu.Items):
		m.chosen = int(key[0] - '1')
	}
	return m, nil
}

// Chosen returns the picked reply, if any.
func (m MultiChoice) Chosen() (string, bool) {
	if m.chosen < 0 {
		return "", false
	}
	return m.menu.Items[m.chosen].Label, true
}

func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.menu.Labels() {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		marker := "  "
		switch {
		case m.chosen == i:
			style = style.Foreground(theme.Success).Bold(true)
			marker = "✓ "
		case m.chosen >= 0:
			style = style.Foreground(theme.TextDim)
		case m.menu.Selected == i:
			style = style.Foreground(theme.Primary).Bold(true)
			marker = "▸ "
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d) %s", marker, i+1, opt)))
		b.WriteString("\n")
	}
	return b.String()
}
