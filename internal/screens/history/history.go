// Package history lists completed feedback sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/competency"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/screens/summary"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
	"github.com/abhisek/fido/internal/ui/theme"
)

const historyLimit = 50

type loadedMsg struct {
	target  string
	records []feedback.Record
	err     error
}

type HistoryScreen struct {
	repo    store.FeedbackRepo
	records []feedback.Record
	loaded  bool
	err     error

	cursor   int
	offset   int
	expanded map[string]bool // by record ID

	// target narrows the list to one person; filter edits it.
	target    string
	filter    components.TextInput
	filtering bool
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
	_ screen.BackInterceptor = (*HistoryScreen)(nil)
)

func New(repo store.FeedbackRepo) *HistoryScreen {
	f := components.NewTextInput("name", components.InputText, 40)
	f.Blur()
	return &HistoryScreen{repo: repo, expanded: map[string]bool{}, filter: f}
}

func (s *HistoryScreen) load(target string) tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		recs, err := feedback.ListRecords(context.Background(), repo, target, historyLimit)
		return loadedMsg{target: target, records: recs, err: err}
	}
}

func (s *HistoryScreen) Init() tea.Cmd { return s.load(s.target) }

func (s *HistoryScreen) Title() string {
	if s.target != "" {
		return "History: " + s.target
	}
	return "History"
}

func (s *HistoryScreen) InterceptBack() bool { return s.filtering }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.filtering {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "Space", Description: "Scores"},
		{Key: "/", Description: "Filter"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.target != s.target {
			return s, nil
		}
		s.records, s.err, s.loaded = msg.records, msg.err, true
		s.cursor, s.offset = 0, 0
		return s, nil

	case screen.RefreshMsg:
		return s, s.Init()

	case tea.KeyPressMsg:
		if s.filtering {
			return s, s.updateFilter(msg)
		}
		return s, s.updateList(msg)
	}
	return s, nil
}

func (s *HistoryScreen) updateFilter(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		s.filtering = false
		s.filter.Blur()
		return nil
	case "enter":
		s.filtering = false
		s.filter.Blur()
		s.target = strings.TrimSpace(s.filter.Value())
		s.loaded = false
		return s.load(s.target)
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	return cmd
}

func (s *HistoryScreen) updateList(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = max(min(s.cursor+1, len(s.records)-1), 0)
	case "space", " ":
		if rec, ok := s.current(); ok {
			s.expanded[rec.ID] = !s.expanded[rec.ID]
		}
	case "/":
		s.filtering = true
		return s.filter.Focus()
	case "enter":
		if rec, ok := s.current(); ok {
			return func() tea.Msg { return router.PushScreenMsg{Screen: summary.New(rec, nil)} }
		}
	case "esc":
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return nil
}

func (s *HistoryScreen) current() (feedback.Record, bool) {
	if s.cursor < len(s.records) {
		return s.records[s.cursor], true
	}
	return feedback.Record{}, false
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render("\n\n" + text)
	}

	var head string
	if s.filtering {
		head = lipgloss.PlaceHorizontal(width, lipgloss.Center, "Person: "+s.filter.View()) + "\n"
	}

	switch {
	case s.err != nil:
		return head + center(lipgloss.NewStyle().Foreground(theme.Error), "Error: "+s.err.Error())
	case !s.loaded:
		return head + center(dim, "Loading history...")
	case len(s.records) == 0 && s.target != "":
		return head + center(dim.Italic(true), "No feedback about "+s.target+" yet. Press / to change the filter.")
	case len(s.records) == 0:
		return head + center(dim.Italic(true), "No feedback yet. Give some from the home screen!")
	}

	rows := s.rows(width)
	visible := max(height-lipgloss.Height(head)-1, 1)
	s.scrollTo(rows, visible)

	var b strings.Builder
	b.WriteString(head)
	b.WriteString("\n")
	used := 0
	for i := s.offset; i < len(rows) && used < visible; i++ {
		for _, line := range rows[i] {
			if used == visible {
				break
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
			b.WriteString("\n")
			used++
		}
	}
	return b.String()
}

// rows renders each record as its summary line plus, when expanded, one
// line per scored area.
func (s *HistoryScreen) rows(width int) [][]string {
	out := make([][]string, len(s.records))
	for i, rec := range s.records {
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if i == s.cursor {
			style = style.Foreground(theme.Primary).Bold(true)
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-16s  by %-12s  %d pts total", prefix,
			rec.CompletedAt.Local().Format("Jan 02, 2006"), rec.Target, rec.Assessor, rec.Scores.Total())
		out[i] = []string{style.Render(line)}

		if !s.expanded[rec.ID] {
			continue
		}
		for _, a := range competency.DefaultAreas() {
			score, ok := rec.Scores[a]
			if !ok {
				continue
			}
			dots := strings.Repeat("●", score) + strings.Repeat("○", competency.MaxScore-score)
			out[i] = append(out[i], lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("    %-45s %s", a, dots)))
		}
	}
	return out
}

// scrollTo moves offset so the cursor's record is fully inside the window.
func (s *HistoryScreen) scrollTo(rows [][]string, visible int) {
	if s.cursor < s.offset {
		s.offset = s.cursor
		return
	}
	for {
		n := 0
		for i := s.offset; i <= s.cursor; i++ {
			n += len(rows[i])
		}
		if n <= visible || s.offset == s.cursor {
			return
		}
		s.offset++
	}
}
