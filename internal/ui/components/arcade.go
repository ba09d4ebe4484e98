package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

const (
	minContentWidth = 20
	maxContentWidth = 60
)

// ContentWidth is the inner width every section of a screen is laid out at,
// given the frame width. It leaves room for the cabinet border and padding.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, minContentWidth), maxContentWidth)
}

// CabinetFrame draws the double-line frame around a full screen and centers
// content inside it.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard boxes content at content width cw.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ButtonState controls how ArcadeButton draws a label.
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonFocused
	ButtonDisabled
)

// ArcadeButton draws a bordered, fixed-width button.
func ArcadeButton(label string, state ButtonState, width int) string {
	st := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	switch state {
	case ButtonFocused:
		return st.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return st.Foreground(theme.TextDim).Render(label)
	default:
		return st.Foreground(theme.Text).Render(label)
	}
}

// ArcadeLine is the borderless ArcadeButton used when the terminal is too
// short for bordered buttons.
func ArcadeLine(label string, state ButtonState) string {
	switch state {
	case ButtonFocused:
		return lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Bold(true).
			Render(" ▸ " + label + " ")
	case ButtonDisabled:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
	default:
		return lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
	}
}
