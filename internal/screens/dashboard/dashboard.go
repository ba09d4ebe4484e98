// Package dashboard shows a user's work items and their roll-up, and logs
// new ones.
package dashboard

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
	"github.com/abhisek/fido/internal/ui/theme"
	"github.com/abhisek/fido/internal/workitem"
)

type itemsLoadedMsg struct {
	Items     []workitem.Item
	Dashboard workitem.Dashboard
	Err       error
}

type itemUpdatedMsg struct {
	Err error
}

// DashboardScreen lists work items next to their roll-up.
type DashboardScreen struct {
	svc    *workitem.Service
	userID string

	items    []workitem.Item
	dash     workitem.Dashboard
	selected int
	loaded   bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)

// New creates a new DashboardScreen for userID.
func New(svc *workitem.Service, userID string) *DashboardScreen {
	return &DashboardScreen{svc: svc, userID: userID}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return s.load
}

func (s *DashboardScreen) load() tea.Msg {
	items, err := s.svc.List(context.Background(), s.userID)
	if err != nil {
		return itemsLoadedMsg{Err: err}
	}
	// Newest first, same order as the recent list.
	slices.SortStableFunc(items, func(a, b workitem.Item) int {
		return b.StartDate.Compare(a.StartDate)
	})
	return itemsLoadedMsg{Items: items, Dashboard: workitem.Rollup(items)}
}

func (s *DashboardScreen) Title() string {
	return "Work Items"
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "N", Description: "New item"},
		{Key: "S", Description: "Advance status"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.items = msg.Items
			s.dash = msg.Dashboard
			s.selected = min(s.selected, max(len(s.items)-1, 0))
		}
		s.loaded = true
		return s, nil

	case itemUpdatedMsg:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, s.load

	case screen.RefreshMsg:
		return s, s.load

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.items)-1 {
				s.selected++
			}
		case "n":
			form := NewForm(s.svc, s.userID)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }
		case "s":
			return s, s.advanceStatus()
		}
	}
	return s, nil
}

// advanceStatus moves the selected item planned → in progress → completed.
func (s *DashboardScreen) advanceStatus() tea.Cmd {
	if s.selected >= len(s.items) {
		return nil
	}
	it := s.items[s.selected]
	var next workitem.Status
	switch it.Status {
	case workitem.StatusPlanned:
		next = workitem.StatusInProgress
	case workitem.StatusInProgress:
		next = workitem.StatusCompleted
	default:
		s.notice = "Item is already completed."
		return nil
	}
	s.notice = ""
	svc, user := s.svc, s.userID
	return func() tea.Msg {
		_, err := svc.Update(context.Background(), user, it.ID, workitem.Patch{Status: &next})
		return itemUpdatedMsg{Err: err}
	}
}

func (s *DashboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading work items...")
	}

	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderStats(s.dash, cw)))
	b.WriteString("\n\n")

	if len(s.items) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No work items yet. Press N to log one."))
		return b.String()
	}

	maxVisible := max(height-12, 3)
	start := 0
	if s.selected >= maxVisible {
		start = s.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(s.items))

	for i := start; i < end; i++ {
		it := s.items[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		hours := "-"
		if it.TimeSpent != nil {
			hours = fmt.Sprintf("%.1fh", *it.TimeSpent)
		}
		line := fmt.Sprintf("%s%-28s %-13s %-12s %s %5s",
			prefix, truncate(it.Title, 28), string(it.Type), it.Status.Label(),
			strings.Repeat("★", it.Complexity)+strings.Repeat("☆", workitem.MaxComplexity-it.Complexity), hours)

		style := lipgloss.NewStyle().Foreground(statusColor(it.Status))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	if end < len(s.items) {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(s.items)-end)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(s.notice))
	}
	return b.String()
}

// renderStats renders the roll-up counters and hours by type.
func renderStats(d workitem.Dashboard, cw int) string {
	counts := fmt.Sprintf("%s  %s  %s  %s",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d TOTAL", d.TotalItems)),
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("%d DONE", d.CompletedItems)),
		lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(fmt.Sprintf("%d ACTIVE", d.InProgressItems)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d PLANNED", d.PlannedItems)),
	)
	avg := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).
		Render(fmt.Sprintf("avg %.1fh per completed item", d.AverageCompletionTime))

	lines := []string{counts, avg}
	if len(d.TimeSpentByType) > 0 {
		var total float64
		for _, th := range d.TimeSpentByType {
			total += th.Hours
		}
		lines = append(lines, "")
		for _, th := range d.TimeSpentByType {
			label := fmt.Sprintf("%-13s %5.1fh", th.Type, th.Hours)
			lines = append(lines, components.NewGauge(label, th.Hours, total, cw-8).WithPercent().View())
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func statusColor(s workitem.Status) color.Color {
	switch s {
	case workitem.StatusCompleted:
		return theme.Success
	case workitem.StatusInProgress:
		return theme.ArcadeCyan
	default:
		return theme.Text
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
