package script

import (
	"testing"

	"github.com/BaSui01/videoflow/types"

	"pgregory.net/rapid"
)

// Estimated durations must always land inside the short-form window,
// whatever the point count.
func TestEstimateDuration_AlwaysInWindow(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 1000).Draw(t, "points")
		got := EstimateDuration(n)
		if got < types.MinEstimatedSeconds || got > types.MaxEstimatedSeconds {
			t.Fatalf("estimate %d for %d points outside [%d, %d]",
				got, n, types.MinEstimatedSeconds, types.MaxEstimatedSeconds)
		}
	})
}

// Parsing never panics and never produces more than MaxMainPoints,
// regardless of how mangled the payload is.
func TestParse_RobustAgainstArbitraryPayloads(t *testing.T) {
	p := NewParser(nil)

	rapid.Check(t, func(t *rapid.T) {
		raw := map[string]any{
			"topic":       rapid.String().Draw(t, "topic"),
			"hook":        rapid.String().Draw(t, "hook"),
			"body":        rapid.String().Draw(t, "body"),
			"main_points": rapid.SliceOfN(rapid.String(), 0, 12).Draw(t, "points"),
		}
		if rapid.Bool().Draw(t, "with_duration") {
			raw["duration"] = rapid.String().Draw(t, "duration")
		}

		s := p.Parse(raw)
		if s == nil {
			t.Fatal("parse returned nil")
		}
		if len(s.MainPoints) > types.MaxMainPoints {
			t.Fatalf("got %d main points, cap is %d", len(s.MainPoints), types.MaxMainPoints)
		}
		if s.Hook == "" {
			t.Fatal("hook must never be empty after parsing")
		}
		if s.CallToAction == "" {
			t.Fatal("call to action must never be empty after parsing")
		}
	})
}
