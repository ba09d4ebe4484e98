package llm

import (
	"math"
	"testing"
)

func TestLookupCost_Unknown(t *testing.T) {
	if LookupCost("no-such-model") != nil {
		t.Error("expected nil cost for unknown model")
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 0.59, OutputPerMTok: 0.79}
	got := c.Cost(1_000_000, 500_000)
	if math.Abs(got-0.985) > 1e-9 {
		t.Fatalf("cost = %f, want 0.985", got)
	}
}
