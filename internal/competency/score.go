package competency

import (
	"fmt"
	"strings"
)

// MaxScore is the ceiling of every area score.
const MaxScore = 5

// ScoreMap holds one score in [0, MaxScore] per catalog area.
type ScoreMap map[Area]int

// NewScoreMap returns a zeroed score map covering every area of c.
func NewScoreMap(c Catalog) ScoreMap {
	m := make(ScoreMap, c.Len())
	for _, a := range c.areas {
		m[a] = 0
	}
	return m
}

// Clone returns an independent copy.
func (m ScoreMap) Clone() ScoreMap {
	out := make(ScoreMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Total sums every score in m.
func (m ScoreMap) Total() int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// Validate checks that m holds exactly the areas of c, each in range.
func (m ScoreMap) Validate(c Catalog) error {
	var errs []string
	for _, a := range c.areas {
		v, ok := m[a]
		if !ok {
			errs = append(errs, fmt.Sprintf("missing score for %q", a))
			continue
		}
		if v < 0 || v > MaxScore {
			errs = append(errs, fmt.Sprintf("score for %q out of range: %d", a, v))
		}
	}
	for a := range m {
		if !c.Contains(a) {
			errs = append(errs, fmt.Sprintf("score for unknown area %q", a))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid score map:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Accumulate returns a copy of scores with area raised by one, capped at
// MaxScore. Every other entry is unchanged.
func Accumulate(scores ScoreMap, area Area) ScoreMap {
	out := scores.Clone()
	out[area] = min(MaxScore, out[area]+1)
	return out
}

// Overwrite returns a copy of scores where area counts only the latest
// answer.
func Overwrite(scores ScoreMap, area Area) ScoreMap {
	out := scores.Clone()
	out[area] = 1
	return out
}

// Policy decides how a repeated answer for the same area is scored.
type Policy string

const (
	// PolicyAccumulate adds one per answer, capped at MaxScore.
	PolicyAccumulate Policy = "accumulate"

	// PolicyOverwrite scores only the latest answer for an area.
	PolicyOverwrite Policy = "overwrite"
)

// ParsePolicy maps a config value to a Policy. Empty means accumulate.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAccumulate:
		return PolicyAccumulate, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	default:
		return "", fmt.Errorf("unknown reanswer policy %q (want accumulate or overwrite)", s)
	}
}

// Apply scores one answer for area according to the policy. answered
// reports whether area already received an answer in this session.
func (p Policy) Apply(scores ScoreMap, area Area, answered bool) ScoreMap {
	if p == PolicyOverwrite && answered {
		return Overwrite(scores, area)
	}
	return Accumulate(scores, area)
}
