package types

import (
	"context"
	"time"
)

// ProviderDescriptor is the static information a provider exposes for
// filtering and scoring. Descriptors are treated as read-only snapshots
// once registered; only the registry's metrics record evolves at runtime.
type ProviderDescriptor struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Capabilities       CapabilitySet     `json:"capabilities"`
	SupportedTiers     []QualityTier     `json:"supported_tiers"`
	MaxDurationSeconds int               `json:"max_duration_seconds"`
	CostPerSecond      float64           `json:"cost_per_second"`
	AvgGenerationTime  time.Duration     `json:"avg_generation_time"`
	Available          bool              `json:"available"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// Provider is the contract a rendering backend must satisfy to plug
// into the engine. How a provider does its work (local encoding, remote
// API, avatar synthesis) is entirely its own concern.
//
// Implementations MUST:
//   - Return a stable Descriptor for the lifetime of the registration
//   - Reject unsupported requests from ValidateRequest with a reason
//   - Report job state transitions through Status until terminal
//   - Refuse Cancel (return false) once a job can no longer be stopped
type Provider interface {
	// Descriptor returns the provider's static capability card.
	Descriptor() ProviderDescriptor

	// ValidateRequest is the pre-flight check run before dispatch.
	// It returns false plus a human-readable reason for rejections.
	ValidateRequest(req *GenerationRequest) (bool, string)

	// Generate starts rendering and returns the accepted job's result,
	// normally still in a non-terminal state.
	Generate(ctx context.Context, req *GenerationRequest) (*GenerationResult, error)

	// Status returns the current state of a previously accepted job.
	Status(ctx context.Context, jobID string) (*GenerationResult, error)

	// Cancel requests cooperative cancellation of a job. It returns
	// true only when the provider actually stopped the job.
	Cancel(ctx context.Context, jobID string) (bool, error)
}
