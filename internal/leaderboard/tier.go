// Package leaderboard ranks users by points, maps points to tiers, awards
// points for completed feedback, and redeems rewards.
package leaderboard

import (
	"fmt"
	"math"
	"strings"
)

// Unbounded is the Max of the top tier.
const Unbounded int64 = math.MaxInt64

// Tier is an inclusive points range with a title.
type Tier struct {
	Title string `json:"title" yaml:"title"`
	Icon  string `json:"icon" yaml:"icon"`
	Min   int64  `json:"min" yaml:"min"`
	Max   int64  `json:"max" yaml:"max"`
}

// Contains reports whether points fall inside the tier.
func (t Tier) Contains(points int64) bool {
	return points >= t.Min && points <= t.Max
}

// Label returns "icon title".
func (t Tier) Label() string {
	if t.Icon == "" {
		return t.Title
	}
	return t.Icon + " " + t.Title
}

// Tiers is an ordered set of tiers covering [0, +inf) without gaps or
// overlaps. Build one with NewTiers; the zero value behaves as
// DefaultTiers.
type Tiers struct {
	tiers []Tier
}

var defaultTierTable = []Tier{
	{Title: "Rookie", Icon: "🌱", Min: 0, Max: 99},
	{Title: "Champion", Icon: "🏆", Min: 100, Max: 299},
	{Title: "Master", Icon: "👑", Min: 300, Max: 599},
	{Title: "Legend", Icon: "⭐", Min: 600, Max: 999},
	{Title: "Guru", Icon: "🔮", Min: 1000, Max: Unbounded},
}

// NewTiers validates tiers and returns them as a lookup table.
func NewTiers(tiers []Tier) (Tiers, error) {
	if err := validateTiers(tiers); err != nil {
		return Tiers{}, err
	}
	return Tiers{tiers: append([]Tier(nil), tiers...)}, nil
}

// DefaultTiers returns Rookie, Champion, Master, Legend and Guru.
func DefaultTiers() Tiers {
	t, err := NewTiers(defaultTierTable)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Tiers) table() []Tier {
	if len(t.tiers) == 0 {
		return defaultTierTable
	}
	return t.tiers
}

// All returns a copy of the tiers in ascending order.
func (t Tiers) All() []Tier {
	return append([]Tier(nil), t.table()...)
}

// Len returns the number of tiers.
func (t Tiers) Len() int { return len(t.table()) }

// TierFor returns the tier containing points. Negative points map to the
// first tier.
func (t Tiers) TierFor(points int64) Tier {
	tiers := t.table()
	for _, tier := range tiers {
		if tier.Contains(points) {
			return tier
		}
	}
	return tiers[0]
}

// PointsToNext returns how many more points reach the next tier. ok is
// false in the top tier and for negative points.
func (t Tiers) PointsToNext(points int64) (need int64, next Tier, ok bool) {
	tiers := t.table()
	for i, tier := range tiers {
		if tier.Contains(points) {
			if i == len(tiers)-1 {
				return 0, Tier{}, false
			}
			next = tiers[i+1]
			return next.Min - points, next, true
		}
	}
	return 0, Tier{}, false
}

// Progress returns how far points are through their tier, in [0, 1]. The
// top tier always reports 1.
func (t Tiers) Progress(points int64) float64 {
	tier := t.TierFor(points)
	if tier.Max == Unbounded {
		return 1
	}
	span := float64(tier.Max - tier.Min + 1)
	p := float64(points-tier.Min) / span
	return min(1, max(0, p))
}

func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("rank tier validation failed:\n  no tiers defined")
	}

	var errs []string
	titles := make(map[string]bool, len(tiers))
	for i, t := range tiers {
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Sprintf("tier %d has no title", i))
		} else if titles[t.Title] {
			errs = append(errs, fmt.Sprintf("duplicate tier title: %q", t.Title))
		}
		titles[t.Title] = true
		if t.Max < t.Min {
			errs = append(errs, fmt.Sprintf("tier %q: max %d is below min %d", t.Title, t.Max, t.Min))
		}
		if i > 0 {
			prev := tiers[i-1]
			switch {
			case t.Min <= prev.Max:
				errs = append(errs, fmt.Sprintf("tier %q overlaps %q", t.Title, prev.Title))
			case prev.Max != Unbounded && t.Min != prev.Max+1:
				errs = append(errs, fmt.Sprintf("gap between %q and %q", prev.Title, t.Title))
			}
		}
	}
	if tiers[0].Min != 0 {
		errs = append(errs, fmt.Sprintf("first tier must start at 0, got %d", tiers[0].Min))
	}
	if last := tiers[len(tiers)-1]; last.Max != Unbounded {
		errs = append(errs, fmt.Sprintf("last tier %q must be unbounded", last.Title))
	}

	if len(errs) > 0 {
		return fmt.Errorf("rank tier validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
