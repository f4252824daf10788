package registry

import "time"

// DefaultSuccessRate is assumed for providers with no recorded history,
// so that new providers are neither punished nor handed a perfect score.
const DefaultSuccessRate = 0.8

// Metrics is the running performance record for one registered
// provider. It is created at registration, mutated only by
// Registry.UpdateMetrics, and removed when the provider unregisters.
type Metrics struct {
	SuccessCount      int           `json:"success_count"`
	FailureCount      int           `json:"failure_count"`
	AvgGenerationTime time.Duration `json:"avg_generation_time"`
	LastSuccess       time.Time     `json:"last_success,omitzero"`
	LastFailure       time.Time     `json:"last_failure,omitzero"`
	LastError         string        `json:"last_error,omitempty"`
}

// SuccessRate returns the observed success ratio, or DefaultSuccessRate
// when the provider has no history yet.
func (m Metrics) SuccessRate() float64 {
	total := m.SuccessCount + m.FailureCount
	if total == 0 {
		return DefaultSuccessRate
	}
	return float64(m.SuccessCount) / float64(total)
}
