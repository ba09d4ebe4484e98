// Package welcome is the splash screen shown on launch.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/theme"
)

const (
	tickInterval = 80 * time.Millisecond

	bannerAt   = 600 * time.Millisecond
	greetingAt = 1400 * time.Millisecond
	autoHomeAt = 4 * time.Second

	// columns the dog walks in from
	walkDistance = 24
)

// Two frames of a trotting dog; the tail and legs alternate.
var dogFrames = [2]string{
	`  __      _
o'')}____//
 '_/      )
 (_(_/--(_/`,
	`  __      /
o'')}____/
 '_/      )
  (_/--(_/_)`,
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// WelcomeScreen plays a short splash and then replaces itself with the
// home screen, either on any key or once the animation has finished.
type WelcomeScreen struct {
	assessor string
	next     func() screen.Screen

	elapsed time.Duration
	frame   int
	done    bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(assessor string, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{assessor: assessor, next: next}
}

func (w *WelcomeScreen) Title() string { return "Welcome" }

func (w *WelcomeScreen) Init() tea.Cmd { return tick() }

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.done {
			return w, nil
		}
		w.elapsed += tickInterval
		w.frame++
		if w.elapsed >= autoHomeAt {
			return w, w.leave()
		}
		return w, tick()
	case tea.KeyPressMsg:
		return w, w.leave()
	}
	return w, nil
}

// leave hands over to the next screen exactly once.
func (w *WelcomeScreen) leave() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	s := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}

// offset is how far the dog still has to walk, in columns.
func (w *WelcomeScreen) offset() int {
	return max(walkDistance-2*w.frame, 0)
}

func (w *WelcomeScreen) dog() string {
	art := dogFrames[0]
	if w.offset() > 0 {
		art = dogFrames[w.frame%2]
	}
	pad := strings.Repeat(" ", w.offset())
	lines := strings.Split(art, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Join(lines, "\n"))
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{w.dog()}

	if w.elapsed >= bannerAt {
		sections = append(sections, "", components.Logo(width, theme.Primary, theme.Secondary, theme.Accent), "",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Feedback that helps people grow."))
	}
	if w.elapsed >= greetingAt {
		if w.assessor != "" {
			sections = append(sections,
				lipgloss.NewStyle().Foreground(theme.Secondary).Render("Welcome back, "+w.assessor+"!"))
		}
		sections = append(sections, "",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
