package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats is the assessor summary on the right of the header.
type HeaderStats struct {
	Assessor string
	Points   int64
	Tier     string
}

// Frame is the chrome around every screen: a header with the navigation
// trail and assessor stats, and a footer of key hints.
type Frame struct {
	Width, Height int

	Trail []string // screen titles, bottom of the stack first
	Stats HeaderStats
	Hints []KeyHint
}

// TooSmall reports whether the terminal is below the minimum size.
func (f Frame) TooSmall() bool {
	return f.Width < MinWidth || f.Height < MinHeight
}

// Render draws the frame around the content produced by body, which
// receives the space left between header and footer.
func (f Frame) Render(body func(width, height int) string) string {
	if f.TooSmall() {
		return lipgloss.NewStyle().
			Width(f.Width).
			Height(f.Height).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
				MinWidth, MinHeight, f.Width, f.Height))
	}

	header, footer := f.header(), f.footer()
	h := max(f.Height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(f.Width).Height(h).Render(body(f.Width, h))
	return header + "\n" + content + "\n" + footer
}

func bar(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

func (f Frame) header() string {
	inner := max(f.Width-4, 0)

	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  FIDO")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("◆ %d pts", f.Stats.Points))
	if f.Stats.Tier != "" {
		right += "   " + lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(f.Stats.Tier)
	}
	if f.Stats.Assessor != "" {
		right = lipgloss.NewStyle().Foreground(theme.TextDim).Render(f.Stats.Assessor+"  ") + right
	}

	room := inner - lipgloss.Width(left) - lipgloss.Width(right) - 4
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(trail(f.Trail, room))

	// Center the trail on the whole bar, then fall back to whatever fits.
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar(f.Width, left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right)
}

// trail joins titles with arrows, dropping the oldest until it fits room.
func trail(titles []string, room int) string {
	const sep = " › "
	for i := range titles {
		s := strings.Join(titles[i:], sep)
		if i > 0 {
			s = "…" + sep + s
		}
		if lipgloss.Width(s) <= room || i == len(titles)-1 {
			return s
		}
	}
	return ""
}

// footer renders as many hints as fit on one line. The last hint is
// always kept.
func (f Frame) footer() string {
	render := func(h KeyHint) string {
		return lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
	}

	hints := f.Hints
	var content string
	for {
		parts := make([]string, len(hints))
		for i, h := range hints {
			parts[i] = render(h)
		}
		content = "  " + strings.Join(parts, "   ")
		if len(hints) <= 1 || lipgloss.Width(content) <= f.Width-4 {
			break
		}
		hints = append(hints[:len(hints)-2:len(hints)-2], hints[len(hints)-1])
	}
	return bar(f.Width, content)
}
