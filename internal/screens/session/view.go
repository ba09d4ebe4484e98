package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderTargetPrompt renders the opening step that names the colleague.
func (s *SessionScreen) renderTargetPrompt(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Who would you like to give feedback to?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Name: " + s.input.View()))
	b.WriteString("\n\n")

	if s.waiting {
		b.WriteString(s.renderWaiting(width, "Setting things up..."))
	} else if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Render(s.notice))
	}
	return b.String()
}

// renderChat renders the progress line, the tail of the transcript and the
// input area.
func (s *SessionScreen) renderChat(width, height int) string {
	header := s.renderProgress(width)
	footer := s.renderInput(width)

	avail := height - lipgloss.Height(header) - lipgloss.Height(footer) - 2
	if avail < 3 {
		avail = 3
	}
	body := tailLines(s.renderTranscript(width-4), avail)

	return header + "\n" + body + "\n\n" + footer
}

func (s *SessionScreen) renderProgress(width int) string {
	cfg := s.sess.Config()
	total := cfg.Catalog.Len()

	var label string
	var done int
	switch s.turn.Phase {
	case feedback.PhaseCollecting:
		done = cfg.Catalog.IndexOf(s.turn.Current)
		label = fmt.Sprintf("  %s", s.turn.Current)
	case feedback.PhaseReviewing:
		done, label = total, "  Review"
	case feedback.PhaseAdjusting:
		done, label = total, "  Adjusting"
	case feedback.PhaseComplete:
		done, label = total, "  Complete"
	}
	if done < 0 {
		done = 0
	}

	info := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(label)

	right := components.NewGauge("", float64(done), float64(total), 26).WithCount().View()
	line := info
	if pad := width - lipgloss.Width(info) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}

	return line + "\n" + lipgloss.NewStyle().
		Foreground(theme.Border).
		Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *SessionScreen) renderTranscript(width int) string {
	assistant := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
	assessor := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Width(width).Align(lipgloss.Right)
	review := lipgloss.NewStyle().
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Padding(0, 1)

	var parts []string
	for _, m := range s.transcript {
		switch {
		case m.Speaker == feedback.SpeakerAssessor:
			text := m.Text
			if strings.TrimSpace(text) == "" {
				text = "(no answer)"
			}
			parts = append(parts, assessor.Render(text))
		case m.ReviewNote:
			parts = append(parts, review.Render(m.Text))
		default:
			parts = append(parts, assistant.Render("FIDO: "+m.Text))
		}
	}
	return strings.Join(parts, "\n\n")
}

func (s *SessionScreen) renderInput(width int) string {
	var b strings.Builder

	if s.notice != "" {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("  " + s.notice))
		b.WriteString("\n")
	}

	switch {
	case s.waiting:
		b.WriteString(s.renderWaiting(width, "FIDO is thinking..."))
	case s.stage == stageDone:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Feedback recorded. Press Enter to see the summary."))
	case s.mcActive:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choice.View()))
	default:
		b.WriteString("  > " + s.input.View())
	}
	return b.String()
}

func (s *SessionScreen) renderWaiting(width int, text string) string {
	frame := spinnerFrames[s.spinnerFrame%len(spinnerFrames)]
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(frame + " " + text)
}

// tailLines keeps the last n lines of s.
func tailLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	cw := components.ContentWidth(width)
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Leave this conversation?"),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Nothing is saved until the review is confirmed."),
	)
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		components.ArcadeButton("[Y] Yes, discard", components.ButtonNormal, 22),
		"  ",
		components.ArcadeButton("[N] No, keep going", components.ButtonFocused, 22),
	)
	dialog := lipgloss.JoinVertical(lipgloss.Center, components.ArcadeCard(body, cw), "", buttons)
	return "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, dialog)
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
