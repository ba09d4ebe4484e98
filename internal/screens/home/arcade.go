package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/theme"
)

const menuButtonWidth = 24

func centered(cw int, s string) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderTitle(cw int, compact bool) string {
	logoWidth := cw
	if compact {
		logoWidth = 0
	}
	return centered(cw, components.Logo(logoWidth))
}

// renderStatsBar shows tier, points and open work items in one strip.
func renderStatsBar(st Stats, cw int, compact bool) string {
	tierStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	pointStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	tier := "UNRANKED"
	if st.Tier.Title != "" {
		tier = strings.ToUpper(st.Tier.Label())
	}

	parts := []string{
		tierStyle.Render(tier),
		pointStyle.Render(fmt.Sprintf("◆ %d PTS", st.Points)),
		openItems(st.OpenItems, compact),
	}
	sep := "  "
	if compact {
		parts[0] = tierStyle.Render(st.Tier.Icon)
		parts[1] = pointStyle.Render(fmt.Sprintf("◆%d", st.Points))
		sep = " "
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, sep))
}

func openItems(n int, compact bool) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	active := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	switch {
	case n == 0 && compact:
		return dim.Render("▣0")
	case n == 0:
		return dim.Render("▣ ALL DONE")
	case compact:
		return active.Render(fmt.Sprintf("▣%d", n))
	default:
		return active.Render(fmt.Sprintf("▣ %d OPEN", n))
	}
}

// renderMenu draws the home menu as buttons, or as plain lines when the
// terminal is short. Labels carry their digit shortcut.
func renderMenu(m components.Menu, cw int, short bool) string {
	rows := make([]string, 0, len(m.Items))
	for i, label := range m.Labels() {
		state := components.ButtonNormal
		switch {
		case m.Disabled(i):
			state = components.ButtonDisabled
		case i == m.Selected:
			state = components.ButtonFocused
		}
		label = fmt.Sprintf("%d %s", i+1, label)
		if short {
			rows = append(rows, components.ArcadeLine(label, state))
		} else {
			rows = append(rows, components.ArcadeButton(label, state, menuButtonWidth))
		}
	}
	return centered(cw, strings.Join(rows, "\n"))
}

func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ No LLM API key set, using standard questions (see fido --help)")
}
