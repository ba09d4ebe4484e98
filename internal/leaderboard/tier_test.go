package leaderboard

import (
	"strings"
	"testing"
)

func TestDefaultTiers_Boundaries(t *testing.T) {
	tiers := DefaultTiers()
	tests := []struct {
		points int64
		want   string
	}{
		{0, "Rookie"},
		{99, "Rookie"},
		{100, "Champion"},
		{299, "Champion"},
		{300, "Master"},
		{599, "Master"},
		{600, "Legend"},
		{999, "Legend"},
		{1000, "Guru"},
		{Unbounded, "Guru"},
	}
	for _, tt := range tests {
		if got := tiers.TierFor(tt.points).Title; got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.points, got, tt.want)
		}
	}
}

func TestNewTiers_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
		want  string
	}{
		{"empty", nil, "no tiers"},
		{"gap", []Tier{{Title: "a", Min: 0, Max: 9}, {Title: "b", Min: 11, Max: Unbounded}}, "gap"},
		{"overlap", []Tier{{Title: "a", Min: 0, Max: 10}, {Title: "b", Min: 10, Max: Unbounded}}, "overlaps"},
		{"not from zero", []Tier{{Title: "a", Min: 5, Max: Unbounded}}, "start at 0"},
		{"bounded top", []Tier{{Title: "a", Min: 0, Max: 9}, {Title: "b", Min: 10, Max: 20}}, "unbounded"},
		{"inverted", []Tier{{Title: "a", Min: 0, Max: 9}, {Title: "b", Min: 10, Max: 5}, {Title: "c", Min: 6, Max: Unbounded}}, "below min"},
		{"duplicate title", []Tier{{Title: "a", Min: 0, Max: 9}, {Title: "a", Min: 10, Max: Unbounded}}, "duplicate"},
		{"untitled", []Tier{{Min: 0, Max: Unbounded}}, "no title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTiers(tt.tiers)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestNewTiers_SingleUnboundedTier(t *testing.T) {
	tiers, err := NewTiers([]Tier{{Title: "Everyone", Min: 0, Max: Unbounded}})
	if err != nil {
		t.Fatalf("NewTiers: %v", err)
	}
	if _, _, ok := tiers.PointsToNext(5); ok {
		t.Error("single tier has no next tier")
	}
}

func TestPointsToNext(t *testing.T) {
	tiers := DefaultTiers()

	need, next, ok := tiers.PointsToNext(40)
	if !ok || need != 60 || next.Title != "Champion" {
		t.Errorf("PointsToNext(40) = %d, %s, %v", need, next.Title, ok)
	}
	need, next, ok = tiers.PointsToNext(999)
	if !ok || need != 1 || next.Title != "Guru" {
		t.Errorf("PointsToNext(999) = %d, %s, %v", need, next.Title, ok)
	}
	if _, _, ok := tiers.PointsToNext(5000); ok {
		t.Error("top tier should report no next tier")
	}
}

func TestProgress(t *testing.T) {
	tiers := DefaultTiers()
	if p := tiers.Progress(150); p != 0.25 {
		t.Errorf("Progress(150) = %v, want 0.25", p)
	}
	if p := tiers.Progress(0); p != 0 {
		t.Errorf("Progress(0) = %v, want 0", p)
	}
	if p := tiers.Progress(1200); p != 1 {
		t.Errorf("Progress(1200) = %v, want 1", p)
	}
}
