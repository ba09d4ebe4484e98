package home

import (
	"context"
	"testing"

	"github.com/abhisek/fido/internal/leaderboard"
	"github.com/abhisek/fido/internal/store"
	"github.com/abhisek/fido/internal/workitem"
)

func TestMoodFor(t *testing.T) {
	tests := []struct {
		name string
		st   Stats
		want Mood
	}{
		{"nothing going on", Stats{}, MoodIdle},
		{"recent win", Stats{RecentWins: true}, MoodCelebrating},
		{"backlog", Stats{OpenItems: 3}, MoodAlert},
		{"backlog beats win", Stats{OpenItems: 4, RecentWins: true}, MoodAlert},
		{"two open items", Stats{OpenItems: 2}, MoodIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := moodFor(tt.st); got != tt.want {
				t.Fatalf("moodFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadStats(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	items := workitem.NewService(kv)
	board := leaderboard.NewService(kv)

	for _, status := range []workitem.Status{workitem.StatusPlanned, workitem.StatusInProgress, workitem.StatusCompleted} {
		_, err := items.Log(ctx, workitem.Item{
			UserID:      "ana",
			Title:       "Item " + string(status),
			Description: "d",
			Type:        workitem.TypeFeature,
			Status:      status,
			Complexity:  2,
		})
		if err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
	if _, err := board.Award(ctx, "ana", leaderboard.Award{Type: leaderboard.AwardFeedbackSubmission, Points: 10}); err != nil {
		t.Fatalf("Award: %v", err)
	}

	st := LoadStats(ctx, Deps{Assessor: "ana", WorkItems: items, Leaderboard: board})
	if st.OpenItems != 2 {
		t.Errorf("OpenItems = %d, want 2", st.OpenItems)
	}
	if st.Points != 10 || !st.RecentWins {
		t.Errorf("Points = %d, RecentWins = %v", st.Points, st.RecentWins)
	}
}

func TestNew_DisablesMissingServices(t *testing.T) {
	h := New(Deps{Assessor: "ana"})
	labels := h.menu.Labels()
	for i, label := range labels {
		want := label == "WORK ITEMS" || label == "LEADERBOARD" || label == "HISTORY"
		if h.menu.Disabled(i) != want {
			t.Errorf("%s disabled = %v, want %v", label, h.menu.Disabled(i), want)
		}
	}
	if h.View(120, 40) == "" {
		t.Fatal("empty view")
	}
}
