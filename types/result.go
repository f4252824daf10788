package types

import "time"

// VideoStatus is the lifecycle state of a generation job.
// Transitions: pending -> processing -> {completed, failed, cancelled}.
// Terminal states are final.
type VideoStatus string

const (
	StatusPending    VideoStatus = "pending"
	StatusProcessing VideoStatus = "processing"
	StatusCompleted  VideoStatus = "completed"
	StatusFailed     VideoStatus = "failed"
	StatusCancelled  VideoStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s VideoStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// GenerationResult is the only value handed back across the engine
// boundary. A provider creates one when it accepts a request; the
// service tracks non-terminal results for polling and cancellation.
type GenerationResult struct {
	ID              string         `json:"id"`
	Status          VideoStatus    `json:"status"`
	ProviderID      string         `json:"provider_id,omitempty"`
	OutputURL       string         `json:"output_url,omitempty"`
	ThumbnailURL    string         `json:"thumbnail_url,omitempty"`
	DurationSeconds float64        `json:"duration_seconds,omitempty"`
	SizeBytes       int64          `json:"size_bytes,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	ErrorMessage    string         `json:"error_message,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	CompletedAt     time.Time      `json:"completed_at,omitzero"`
}
