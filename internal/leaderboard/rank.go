package leaderboard

import (
	"cmp"
	"slices"
)

// User is one roster entry.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int64  `json:"points"`
}

// Standing is a user's place on the leaderboard.
type Standing struct {
	Position int  `json:"position"` // 1-based
	User     User `json:"user"`
	Tier     Tier `json:"tier"`
}

// Rank orders roster by points descending, breaking ties by ID, and
// assigns each user a tier. The roster is not modified.
func Rank(roster []User, tiers Tiers) []Standing {
	sorted := slices.Clone(roster)
	slices.SortFunc(sorted, func(a, b User) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	out := make([]Standing, len(sorted))
	for i, u := range sorted {
		out[i] = Standing{Position: i + 1, User: u, Tier: tiers.TierFor(u.Points)}
	}
	return out
}
