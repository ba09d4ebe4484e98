// Package app is the root Bubble Tea model of the FIDO terminal UI.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/screens/home"
	"github.com/abhisek/fido/internal/screens/welcome"
	"github.com/abhisek/fido/internal/ui/layout"
)

// Options wires the services the TUI needs.
type Options = home.Deps

type statsMsg layout.HeaderStats

var (
	rootHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "1-5", Description: "Jump"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	nestedHints = []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	stats  layout.HeaderStats
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	toHome := func() screen.Screen { return home.New(opts) }
	return AppModel{
		opts:   opts,
		router: router.New(welcome.New(opts.Assessor, toHome)),
		stats:  layout.HeaderStats{Assessor: opts.Assessor},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.loadStats)
}

// loadStats refreshes the header after anything that can award points.
func (m AppModel) loadStats() tea.Msg {
	st := home.LoadStats(context.Background(), m.opts)
	return statsMsg{Assessor: m.opts.Assessor, Points: st.Points, Tier: st.Tier.Label()}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case statsMsg:
		m.stats = layout.HeaderStats(msg)
		return m, nil

	case screen.RefreshMsg:
		return m, tea.Batch(m.router.Update(msg), m.loadStats)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if c, ok := m.router.Active().(screen.Closer); ok {
				c.Close()
			}
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) hints() []layout.KeyHint {
	if kp, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(kp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return nestedHints
	}
	return rootHints
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}

	frame := layout.Frame{
		Width:  m.width,
		Height: m.height,
		Trail:  m.router.Trail(),
		Stats:  m.stats,
		Hints:  m.hints(),
	}
	v.SetContent(frame.Render(m.router.View))
	return v
}

// Run starts the TUI and blocks until the user quits.
func Run(opts Options) error {
	_, err := tea.NewProgram(newAppModel(opts)).Run()
	return err
}
