package components

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

var logoRows = []string{
	" ███████╗██╗██████╗  ██████╗ ",
	" ██╔════╝██║██╔══██╗██╔═══██╗",
	" █████╗  ██║██║  ██║██║   ██║",
	" ██╔══╝  ██║██║  ██║██║   ██║",
	" ██║     ██║██████╔╝╚██████╔╝",
	" ╚═╝     ╚═╝╚═════╝  ╚═════╝ ",
}

// LogoWidth is the width of the full block-letter logo.
const LogoWidth = 29

// Logo renders the FIDO wordmark. Rows cycle through palette top to bottom;
// below LogoWidth columns the spaced-out short form is used in palette[0].
func Logo(width int, palette ...color.Color) string {
	if len(palette) == 0 {
		palette = []color.Color{theme.ArcadeYellow}
	}
	if width < LogoWidth {
		return lipgloss.NewStyle().Foreground(palette[0]).Bold(true).Render("F · I · D · O")
	}
	rows := make([]string, len(logoRows))
	for i, r := range logoRows {
		rows[i] = lipgloss.NewStyle().Foreground(palette[i*len(palette)/len(logoRows)]).Bold(true).Render(r)
	}
	return strings.Join(rows, "\n")
}
