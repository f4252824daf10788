package registry

import (
	"time"

	"github.com/BaSui01/videoflow/types"
)

// MetadataOptimizedChannel is the descriptor metadata key a provider
// sets to declare itself tuned for one channel, earning the flat
// channel bonus during scoring.
const MetadataOptimizedChannel = "optimized_channel"

// ScoreWeights is the tunable policy surface of provider selection.
// The defaults encode: performance matters most, capability/quality/
// cost roughly equal, channel affinity is a fixed bonus.
type ScoreWeights struct {
	Capability   float64 `json:"capability" yaml:"capability"`
	Quality      float64 `json:"quality" yaml:"quality"`
	Performance  float64 `json:"performance" yaml:"performance"`
	Cost         float64 `json:"cost" yaml:"cost"`
	ChannelBonus float64 `json:"channel_bonus" yaml:"channel_bonus"`
}

// DefaultScoreWeights returns the stock weight vector.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Capability:   0.25,
		Quality:      0.20,
		Performance:  0.35,
		Cost:         0.20,
		ChannelBonus: 0.2,
	}
}

// Score is the per-candidate breakdown computed fresh on every
// selection call. Each sub-score lies in [0,1]; Total is the weighted
// sum plus any channel bonus.
type Score struct {
	Capability   float64 `json:"capability"`
	Quality      float64 `json:"quality"`
	Performance  float64 `json:"performance"`
	Cost         float64 `json:"cost"`
	ChannelBonus float64 `json:"channel_bonus"`
	Total        float64 `json:"total"`
}

// scoreCandidate computes the full breakdown for one filtered
// candidate. Filtering has already guaranteed tier support and
// capability coverage; scoring only ranks the survivors.
func scoreCandidate(
	w ScoreWeights,
	d types.ProviderDescriptor,
	required types.CapabilitySet,
	quality types.QualityTier,
	channel string,
	m Metrics,
) Score {
	s := Score{
		Capability:  capabilityScore(d.Capabilities, required),
		Quality:     qualityScore(d.SupportedTiers, quality),
		Performance: performanceScore(m, d.AvgGenerationTime),
		Cost:        costScore(d.CostPerSecond),
	}
	if channel != "" && d.Metadata[MetadataOptimizedChannel] == channel {
		s.ChannelBonus = w.ChannelBonus
	}
	s.Total = w.Capability*s.Capability +
		w.Quality*s.Quality +
		w.Performance*s.Performance +
		w.Cost*s.Cost +
		s.ChannelBonus
	return s
}

// capabilityScore rewards capability headroom beyond the required
// minimum: 0.5 for a bare match, +0.1 per extra capability, capped at 1.
func capabilityScore(caps, required types.CapabilitySet) float64 {
	score := 0.5 + 0.1*float64(caps.Len()-required.Len())
	if score > 1.0 {
		return 1.0
	}
	return score
}

// qualityScore rewards providers that support tiers above the requested
// one. A provider whose best tier equals the request scores 0.5.
func qualityScore(tiers []types.QualityTier, requested types.QualityTier) float64 {
	headroom := types.TierIndex(types.HighestTier(tiers)) - types.TierIndex(requested)
	return 0.5 + 0.5*float64(headroom)/float64(len(types.AllQualityTiers()))
}

// performanceScore blends observed success rate with a step-function
// speed score. When the provider has no recorded jobs yet, the
// descriptor's advertised average generation time stands in.
func performanceScore(m Metrics, advertised time.Duration) float64 {
	avg := m.AvgGenerationTime
	if m.SuccessCount == 0 {
		avg = advertised
	}
	return 0.7*m.SuccessRate() + 0.3*speedScore(avg)
}

func speedScore(avg time.Duration) float64 {
	switch {
	case avg < 30*time.Second:
		return 1.0
	case avg < 60*time.Second:
		return 0.8
	case avg < 120*time.Second:
		return 0.6
	default:
		return 0.4
	}
}

func costScore(costPerSecond float64) float64 {
	switch {
	case costPerSecond <= 0.1:
		return 1.0
	case costPerSecond <= 0.5:
		return 0.8
	case costPerSecond <= 1.0:
		return 0.6
	default:
		return 0.4
	}
}
