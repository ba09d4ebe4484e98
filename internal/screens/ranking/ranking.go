// Package ranking shows the leaderboard, the rewards catalog and the
// assessor's own points account.
package ranking

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/leaderboard"
	"github.com/abhisek/fido/internal/router"
	"github.com/abhisek/fido/internal/screen"
	"github.com/abhisek/fido/internal/ui/components"
	"github.com/abhisek/fido/internal/ui/layout"
	"github.com/abhisek/fido/internal/ui/theme"
)

type tab int

const (
	tabStandings tab = iota
	tabRewards
	tabAwards
	tabCount
)

var tabNames = [tabCount]string{"Standings", "Rewards", "My Points"}

type boardLoadedMsg struct {
	Standings []leaderboard.Standing
	Profile   leaderboard.Profile
	Err       error
}

type redeemedMsg struct {
	Reward leaderboard.Reward
	Err    error
}

// RankingScreen displays standings, rewards and the assessor's account.
type RankingScreen struct {
	svc       *leaderboard.Service
	userID    string
	standings []leaderboard.Standing
	profile   leaderboard.Profile

	tab          tab
	selected     int // reward cursor
	scrollOffset int
	loaded       bool
	errMsg       string
	notice       string
}

var _ screen.Screen = (*RankingScreen)(nil)
var _ screen.KeyHintProvider = (*RankingScreen)(nil)

// New creates a new RankingScreen for userID.
func New(svc *leaderboard.Service, userID string) *RankingScreen {
	return &RankingScreen{svc: svc, userID: userID}
}

func (s *RankingScreen) Init() tea.Cmd {
	return s.load
}

func (s *RankingScreen) load() tea.Msg {
	ctx := context.Background()
	standings, err := s.svc.Leaderboard(ctx)
	if err != nil {
		return boardLoadedMsg{Err: err}
	}
	profile, err := s.svc.Profile(ctx, s.userID)
	return boardLoadedMsg{Standings: standings, Profile: profile, Err: err}
}

func (s *RankingScreen) Title() string {
	return "Leaderboard"
}

func (s *RankingScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Switch view"}}
	if s.tab == tabRewards {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Redeem"})
	}
	return append(hints,
		layout.KeyHint{Key: "↑↓", Description: "Scroll"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *RankingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.standings = msg.Standings
			s.profile = msg.Profile
		}
		s.loaded = true
		return s, nil

	case redeemedMsg:
		switch {
		case errors.Is(msg.Err, leaderboard.ErrInsufficientPoints):
			s.notice = fmt.Sprintf("Not enough points for %s.", msg.Reward.Name)
		case msg.Err != nil:
			s.notice = msg.Err.Error()
		default:
			s.notice = fmt.Sprintf("Redeemed %s!", msg.Reward.Name)
		}
		return s, s.load

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.tab = (s.tab + 1) % tabCount
			s.scrollOffset, s.notice = 0, ""
			return s, nil
		case "shift+tab":
			s.tab = (s.tab - 1 + tabCount) % tabCount
			s.scrollOffset, s.notice = 0, ""
			return s, nil
		case "up", "k":
			if s.tab == tabRewards {
				if s.selected > 0 {
					s.selected--
				}
			} else if s.scrollOffset > 0 {
				s.scrollOffset--
			}
			return s, nil
		case "down", "j":
			if s.tab == tabRewards {
				if s.selected < len(s.svc.Rewards())-1 {
					s.selected++
				}
			} else if s.scrollOffset < s.rowCount()-1 {
				s.scrollOffset++
			}
			return s, nil
		case "enter":
			if s.tab == tabRewards {
				return s, s.redeem()
			}
		}
	}
	return s, nil
}

func (s *RankingScreen) redeem() tea.Cmd {
	rewards := s.svc.Rewards()
	if s.selected >= len(rewards) {
		return nil
	}
	reward := rewards[s.selected]
	svc, user := s.svc, s.userID
	return func() tea.Msg {
		_, err := svc.Redeem(context.Background(), user, reward.ID)
		return redeemedMsg{Reward: reward, Err: err}
	}
}

func (s *RankingScreen) rowCount() int {
	if s.tab == tabAwards {
		return len(s.profile.Awards)
	}
	return len(s.standings)
}

func (s *RankingScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading leaderboard...")
	}

	var b strings.Builder

	b.WriteString(s.renderAccount(width))
	b.WriteString("\n\n")

	var tabs []string
	for i, name := range tabNames {
		if tab(i) == s.tab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(name))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(name))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n")
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	maxVisible := max(height-14, 3)
	switch s.tab {
	case tabStandings:
		b.WriteString(s.renderStandings(width, maxVisible))
	case tabRewards:
		b.WriteString(s.renderRewards(width))
	case tabAwards:
		b.WriteString(s.renderAwards(width, maxVisible))
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(s.notice))
	}
	return b.String()
}

func (s *RankingScreen) renderAccount(width int) string {
	tiers := s.svc.Tiers()
	tier := tiers.TierFor(s.profile.Earned)

	line := fmt.Sprintf("%s   %d pts earned   %d to spend",
		tier.Label(), s.profile.Earned, s.profile.Balance)
	out := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(tierColor(tiers, tier)).Bold(true).Render(line))

	bar := components.NewGauge("", tiers.Progress(s.profile.Earned), 1, 40).Color(tierColor(tiers, tier)).View()
	next := "top tier reached"
	if need, nt, ok := tiers.PointsToNext(s.profile.Earned); ok {
		next = fmt.Sprintf("%d pts to %s", need, nt.Label())
	}
	out += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
		bar+lipgloss.NewStyle().Foreground(theme.TextDim).Render("  "+next))
	return out
}

func (s *RankingScreen) renderStandings(width, maxVisible int) string {
	if len(s.standings) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("Nobody has earned points yet")
	}
	tiers := s.svc.Tiers()
	var b strings.Builder
	start, end := window(s.scrollOffset, maxVisible, len(s.standings))
	for _, st := range s.standings[start:end] {
		marker := "  "
		style := lipgloss.NewStyle().Foreground(tierColor(tiers, st.Tier))
		if st.User.ID == s.userID {
			marker = "▸ "
			style = style.Bold(true)
		}
		line := fmt.Sprintf("%s#%-3d %-20s %7d pts   %s", marker, st.Position, st.User.Name, st.User.Points, st.Tier.Label())
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	if end < len(s.standings) {
		b.WriteString(moreLine(width, len(s.standings)-end))
	}
	return b.String()
}

func (s *RankingScreen) renderRewards(width int) string {
	var b strings.Builder
	for i, r := range s.svc.Rewards() {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%-18s %5d pts   %s", prefix, r.Name, r.Cost, r.Description)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case !r.Available:
			style = style.Foreground(theme.TextDim).Strikethrough(true)
		case r.Cost > s.profile.Balance:
			style = style.Foreground(theme.TextDim)
		}
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *RankingScreen) renderAwards(width, maxVisible int) string {
	awards := s.profile.Awards
	if len(awards) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No points yet. Give some feedback!")
	}
	var b strings.Builder
	// Newest first.
	start, end := window(s.scrollOffset, maxVisible, len(awards))
	for i := len(awards) - 1 - start; i >= len(awards)-end; i-- {
		a := awards[i]
		line := fmt.Sprintf("  +%-4d %-36s %s", a.Points, a.Reason, a.AwardedAt.Local().Format("Jan 02, 2006"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Success).Render(line)))
		b.WriteString("\n")
	}
	if end < len(awards) {
		b.WriteString(moreLine(width, len(awards)-end))
	}
	return b.String()
}

func window(offset, size, n int) (int, int) {
	start := min(offset, max(n-1, 0))
	return start, min(start+size, n)
}

func moreLine(width, n int) string {
	return "\n" + lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("... %d more", n))
}

// tierColor shades tiers from plain text up to the accent color.
func tierColor(tiers leaderboard.Tiers, t leaderboard.Tier) color.Color {
	palette := []color.Color{theme.Text, theme.Secondary, theme.Primary, theme.ArcadeYellow, theme.Accent}
	for i, tt := range tiers.All() {
		if tt.Title == t.Title {
			return palette[min(i, len(palette)-1)]
		}
	}
	return theme.Text
}
