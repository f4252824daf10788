package registry

import (
	"fmt"
	"testing"
	"time"

	"github.com/BaSui01/videoflow/testutil/mocks"
	"github.com/BaSui01/videoflow/types"

	"pgregory.net/rapid"
)

// Whatever mix of providers is registered, Select must never hand back
// one that fails the hard filter.
func TestSelect_NeverViolatesHardFilter(t *testing.T) {
	allCaps := types.AllCapabilities()
	allTiers := types.AllQualityTiers()

	rapid.Check(t, func(t *rapid.T) {
		r := New(nil)

		n := rapid.IntRange(0, 8).Draw(t, "providers")
		for i := 0; i < n; i++ {
			caps := rapid.SampledFrom([]int{1, 2, 4, 6}).Draw(t, fmt.Sprintf("caps_%d", i))
			tiers := rapid.IntRange(1, len(allTiers)).Draw(t, fmt.Sprintf("tiers_%d", i))
			p := mocks.NewMockProvider(fmt.Sprintf("p-%d", i)).
				WithCapabilities(allCaps[:caps]...).
				WithTiers(allTiers[:tiers]...).
				WithCost(rapid.Float64Range(0.01, 2.0).Draw(t, fmt.Sprintf("cost_%d", i))).
				WithAvgTime(time.Duration(rapid.IntRange(1, 200).Draw(t, fmt.Sprintf("avg_%d", i))) * time.Second).
				WithAvailable(rapid.Bool().Draw(t, fmt.Sprintf("avail_%d", i)))
			r.Register(p)
		}

		quality := allTiers[rapid.IntRange(0, len(allTiers)-1).Draw(t, "quality")]
		reqCaps := rapid.IntRange(1, len(allCaps)).Draw(t, "required")
		required := types.NewCapabilitySet(allCaps[:reqCaps]...)

		p, ok := r.Select(quality, required, "air", "")
		if !ok {
			return
		}
		d := p.Descriptor()
		if !d.Available {
			t.Fatalf("selected unavailable provider %s", d.ID)
		}
		if !types.SupportsTier(d.SupportedTiers, quality) {
			t.Fatalf("selected provider %s without tier %s", d.ID, quality)
		}
		if !d.Capabilities.ContainsAll(required) {
			t.Fatalf("selected provider %s missing required capabilities", d.ID)
		}
	})
}
