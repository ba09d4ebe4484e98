package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fido/internal/leaderboard"
	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/screens/dashboard"
	"github.com/abhisek/fido/internal/screens/history"
	"github.com/abhisek/fido/internal/screens/placeholder"
	"github.com/abhisek/fido/internal/screens/ranking"
	sessionscreen "github.com/abhisek/fido/internal/screens/session"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/workitem"
)

// Deps are the services reachable from the home menu. Nil services
// disable the matching entry.
type Deps struct {
	Assessor    string
	NewSession  sessionscreen.Factory
	WorkItems   *workitem.Service
	Leaderboard *leaderboard.Service
	Feedback    store.FeedbackRepo

	// LLMReady is false when questions come from the offline bank.
	LLMReady bool
}

// Stats is the assessor summary shown on the home screen.
type Stats struct {
	Points     int64
	Tier       leaderboard.Tier
	OpenItems  int
	RecentWins bool
}

// LoadStats reads the assessor's points and open work items.
func LoadStats(ctx context.Context, d Deps) Stats {
	var st Stats
	if d.Leaderboard != nil {
		if p, err := d.Leaderboard.Profile(ctx, d.Assessor); err == nil {
			st.Points = p.Earned
			st.Tier = d.Leaderboard.Tiers().TierFor(p.Earned)
			for _, a := range p.Awards {
				if time.Since(a.AwardedAt) < 24*time.Hour {
					st.RecentWins = true
					break
				}
			}
		}
	}
	if d.WorkItems != nil {
		if items, err := d.WorkItems.List(ctx, d.Assessor); err == nil {
			for _, it := range items {
				if it.Status != workitem.StatusCompleted {
					st.OpenItems++
				}
			}
		}
	}
	return st
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps  Deps
	menu  components.Menu
	stats Stats
	mood  Mood
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}

	items := []components.MenuItem{
		{Label: "GIVE FEEDBACK", Action: func() tea.Cmd {
			if deps.NewSession == nil {
				return push(placeholder.New("Give Feedback", "No session factory configured.", "run fido with a database so sessions can be saved"))
			}
			return push(sessionscreen.New(deps.NewSession))
		}},
		{Label: "WORK ITEMS", Disabled: deps.WorkItems == nil, Action: func() tea.Cmd {
			return push(dashboard.New(deps.WorkItems, deps.Assessor))
		}},
		{Label: "LEADERBOARD", Disabled: deps.Leaderboard == nil, Action: func() tea.Cmd {
			return push(ranking.New(deps.Leaderboard, deps.Assessor))
		}},
		{Label: "HISTORY", Disabled: deps.Feedback == nil, Action: func() tea.Cmd {
			return push(history.New(deps.Feedback))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h := &HomeScreen{
		deps: deps,
		menu: components.NewMenu(items),
	}
	h.refresh()
	return h
}

func (h *HomeScreen) refresh() {
	h.stats = LoadStats(context.Background(), h.deps)
	h.mood = moodFor(h.stats)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(screen.RefreshMsg); ok {
		h.refresh()
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, centered(cw, RenderMascot(h.mood)))
	}

	sections = append(sections, renderStatsBar(h.stats, cw, compact))

	if !h.deps.LLMReady {
		sections = append(sections, renderLLMBanner(cw))
	}

	sections = append(sections, renderMenu(h.menu, cw, termHeight < 26))

	content := strings.Join(sections, "\n\n")

	return components.CabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
