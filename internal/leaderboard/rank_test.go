package leaderboard

import "testing"

func TestRank_OrdersByPointsThenID(t *testing.T) {
	roster := []User{
		{ID: "carol", Points: 300},
		{ID: "bob", Points: 1200},
		{ID: "alice", Points: 300},
		{ID: "dave", Points: 0},
	}
	got := Rank(roster, DefaultTiers())

	want := []struct {
		id   string
		tier string
	}{
		{"bob", "Guru"},
		{"alice", "Master"},
		{"carol", "Master"},
		{"dave", "Rookie"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].User.ID != w.id || got[i].Tier.Title != w.tier || got[i].Position != i+1 {
			t.Errorf("standing %d = %+v, want %s/%s", i, got[i], w.id, w.tier)
		}
	}
	if roster[0].ID != "carol" {
		t.Error("Rank must not reorder the roster")
	}
}

func TestRank_Invariants(t *testing.T) {
	tiers := DefaultTiers()
	var roster []User
	for i := range 50 {
		roster = append(roster, User{ID: string(rune('a' + i%26)), Points: int64((i * 137) % 1500)})
	}
	got := Rank(roster, tiers)
	for i, s := range got {
		if !s.Tier.Contains(s.User.Points) {
			t.Errorf("%s with %d points placed in %s", s.User.ID, s.User.Points, s.Tier.Title)
		}
		if i > 0 && got[i-1].User.Points < s.User.Points {
			t.Errorf("points increase at position %d", s.Position)
		}
	}
}

func TestRank_Empty(t *testing.T) {
	if got := Rank(nil, DefaultTiers()); len(got) != 0 {
		t.Errorf("Rank(nil) = %v", got)
	}
}

func TestRank_ZeroTiersUseDefaults(t *testing.T) {
	got := Rank([]User{{ID: "a", Points: 150}, {ID: "b", Points: 5}}, Tiers{})
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Tier.Title != "Champion" || got[1].Tier.Title != "Rookie" {
		t.Errorf("tiers = %q, %q", got[0].Tier.Title, got[1].Tier.Title)
	}
	var zero Tiers
	if need, next, ok := zero.PointsToNext(150); !ok || need != 150 || next.Title != "Master" {
		t.Errorf("PointsToNext(150) = %d, %q, %v", need, next.Title, ok)
	}
	if zero.Len() != DefaultTiers().Len() {
		t.Errorf("Len = %d", zero.Len())
	}
}
