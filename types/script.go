package types

// Limits enforced by script validation. Parsing never rejects input;
// these bounds are checked by the separate validation pass.
const (
	MaxHookLength       = 500
	MaxCTALength        = 300
	MaxMainPointLength  = 1000
	MaxMainPoints       = 5
	MaxDurationSeconds  = 180
	MinEstimatedSeconds = 15
	MaxEstimatedSeconds = 60
)

// Script is the structured content unit a generation request is built
// from. It is produced by the parser from loosely-typed raw input and
// treated as read-only once validated, with one exception: a channel
// strategy's EnhanceRequest may backfill VisualStyle and MusicStyle
// when they were left empty.
type Script struct {
	Channel              string         `json:"channel"`
	Topic                string         `json:"topic"`
	Hook                 string         `json:"hook"`
	MainPoints           []string       `json:"main_points"`
	CallToAction         string         `json:"call_to_action"`
	DurationSeconds      int            `json:"duration_seconds"`
	VisualStyle          string         `json:"visual_style,omitempty"`
	MusicStyle           string         `json:"music_style,omitempty"`
	Transitions          []string       `json:"transitions,omitempty"`
	RequiredCapabilities CapabilitySet  `json:"required_capabilities,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
}
