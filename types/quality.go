package types

// QualityTier is an ordered level of output fidelity. A request demands
// exactly one tier; a provider supports a subset.
type QualityTier string

const (
	QualityLow      QualityTier = "low"
	QualityStandard QualityTier = "standard"
	QualityHigh     QualityTier = "high"
	QualityUltra    QualityTier = "ultra"
)

// AllQualityTiers returns the tiers in ascending order of fidelity.
func AllQualityTiers() []QualityTier {
	return []QualityTier{QualityLow, QualityStandard, QualityHigh, QualityUltra}
}

// TierIndex returns the position of t in the tier order, or -1 for an
// unknown tier.
func TierIndex(t QualityTier) int {
	for i, tier := range AllQualityTiers() {
		if tier == t {
			return i
		}
	}
	return -1
}

// SupportsTier reports whether tiers contains t.
func SupportsTier(tiers []QualityTier, t QualityTier) bool {
	for _, tier := range tiers {
		if tier == t {
			return true
		}
	}
	return false
}

// HighestTier returns the highest-fidelity tier in tiers, or QualityLow
// when tiers is empty.
func HighestTier(tiers []QualityTier) QualityTier {
	best := QualityLow
	bestIdx := -1
	for _, tier := range tiers {
		if idx := TierIndex(tier); idx > bestIdx {
			best, bestIdx = tier, idx
		}
	}
	return best
}
