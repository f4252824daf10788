package registry

import (
	"testing"
	"time"

	"github.com/BaSui01/videoflow/testutil/mocks"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// The incremental average must track the true arithmetic mean of the
// recorded durations, within integer-division slack.
func TestProperty_RunningAverageMatchesMean(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("running average tracks arithmetic mean", prop.ForAll(
		func(durationsMs []int) bool {
			r := New(nil)
			r.Register(mocks.NewMockProvider("p"))

			var total time.Duration
			for _, ms := range durationsMs {
				d := time.Duration(ms) * time.Millisecond
				r.UpdateMetrics("p", true, d, nil)
				total += d
			}

			m, ok := r.Snapshot("p")
			if !ok {
				return false
			}
			if len(durationsMs) == 0 {
				return m.AvgGenerationTime == 0 && m.SuccessCount == 0
			}

			mean := total / time.Duration(len(durationsMs))
			diff := m.AvgGenerationTime - mean
			if diff < 0 {
				diff = -diff
			}
			// Each incremental step truncates, so allow one millisecond
			// of drift per recorded sample.
			return diff <= time.Duration(len(durationsMs))*time.Millisecond
		},
		gen.SliceOf(gen.IntRange(1, 120_000)),
	))

	properties.Property("success rate stays within [0,1]", prop.ForAll(
		func(successes, failures int) bool {
			r := New(nil)
			r.Register(mocks.NewMockProvider("p"))
			for i := 0; i < successes; i++ {
				r.UpdateMetrics("p", true, time.Second, nil)
			}
			for i := 0; i < failures; i++ {
				r.UpdateMetrics("p", false, 0, nil)
			}
			m, _ := r.Snapshot("p")
			rate := m.SuccessRate()
			return rate >= 0 && rate <= 1
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}
