package types

// GenerationRequest wraps a Script with everything a provider needs to
// render it. A request is owned by the generation service for the
// duration of one call and is never shared between calls; channel
// strategies mutate Options in place during enhancement.
type GenerationRequest struct {
	Script         *Script        `json:"script"`
	Channel        string         `json:"channel"`
	Quality        QualityTier    `json:"quality"`
	PreferProvider string         `json:"prefer_provider,omitempty"`
	Options        map[string]any `json:"options,omitempty"`
	Priority       int            `json:"priority,omitempty"` // 1-10, higher is more urgent
	Callback       func(*GenerationResult) `json:"-"`
}

// EnsureOptions initializes the Options map if it is nil and returns it.
func (r *GenerationRequest) EnsureOptions() map[string]any {
	if r.Options == nil {
		r.Options = make(map[string]any)
	}
	return r.Options
}
