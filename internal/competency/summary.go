package competency

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// DefaultStrengths and DefaultImprovements are listed in every summary
// until a richer analysis replaces them.
var (
	DefaultStrengths    = []string{"Communication skills", "Technical expertise"}
	DefaultImprovements = []string{"Strategic planning", "Time management"}
)

const (
	strengthsHeader    = "Strengths:"
	improvementsHeader = "Areas for Improvement:"
)

// RenderSummary formats the score summary for target. Score lines follow
// catalog order as "<area>: <score>/5".
func RenderSummary(target string, c Catalog, scores ScoreMap, strengths, improvements []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feedback Summary for %s:\n\n", target)
	for _, a := range c.areas {
		fmt.Fprintf(&b, "%s: %d/%d\n", a, scores[a], MaxScore)
	}
	b.WriteString("\n" + strengthsHeader + "\n")
	for _, s := range strengths {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n" + improvementsHeader + "\n")
	for i, s := range improvements {
		fmt.Fprintf(&b, "- %s", s)
		if i < len(improvements)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ParseScores reads the score lines back out of a rendered summary. Every
// catalog area must appear exactly once.
func ParseScores(summary string, c Catalog) (ScoreMap, error) {
	out := make(ScoreMap, c.Len())
	sc := bufio.NewScanner(strings.NewReader(summary))
	for sc.Scan() {
		line := sc.Text()
		if line == strengthsHeader {
			break
		}
		sep := strings.LastIndex(line, ": ")
		if sep < 0 || !strings.HasSuffix(line, fmt.Sprintf("/%d", MaxScore)) {
			continue
		}
		area := Area(line[:sep])
		if !c.Contains(area) {
			continue
		}
		raw := strings.TrimSuffix(line[sep+2:], fmt.Sprintf("/%d", MaxScore))
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse score for %q: %w", area, err)
		}
		if _, dup := out[area]; dup {
			return nil, fmt.Errorf("duplicate score line for %q", area)
		}
		out[area] = v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan summary: %w", err)
	}
	if err := out.Validate(c); err != nil {
		return nil, err
	}
	return out, nil
}
