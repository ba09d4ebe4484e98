package home

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fido/internal/ui/theme"
)

// Mood picks the mascot pose from the assessor's stats.
type Mood int

const (
	MoodIdle Mood = iota
	MoodCelebrating // points awarded in the last day
	MoodAlert       // open work items piling up
)

// moodFor maps home stats to a mood. A backlog outranks a recent win.
func moodFor(st Stats) Mood {
	switch {
	case st.OpenItems >= 3:
		return MoodAlert
	case st.RecentWins:
		return MoodCelebrating
	default:
		return MoodIdle
	}
}

var poses = map[Mood]struct {
	art string
	fg  color.Color
}{
	MoodIdle: {fg: theme.Primary, art: `  __      _
o'')}____//
 '_/      )
 (_(_/--(_/`},
	MoodCelebrating: {fg: theme.ArcadeYellow, art: `  __   ★  _
*'')}____//
 '_/  ~~  )
 (_(_/--(_/`},
	MoodAlert: {fg: theme.Accent, art: `  __   !  _
o'')}____//
 'O/      )
 (_(_/--(_/`},
}

// RenderMascot draws the dog for mood.
func RenderMascot(mood Mood) string {
	p, ok := poses[mood]
	if !ok {
		p = poses[MoodIdle]
	}
	return lipgloss.NewStyle().Foreground(p.fg).Render(p.art)
}
