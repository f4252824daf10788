package script

import (
	"testing"

	"github.com/BaSui01/videoflow/types"

	"github.com/stretchr/testify/assert"
)

func TestRequiredFeatures(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name   string
		script *types.Script
		want   []types.Capability
	}{
		{
			name:   "nil script still requires text to video",
			script: nil,
			want:   []types.Capability{types.CapabilityTextToVideo},
		},
		{
			name:   "bare script",
			script: &types.Script{Topic: "x"},
			want:   []types.Capability{types.CapabilityTextToVideo},
		},
		{
			name:   "animated visual style",
			script: &types.Script{VisualStyle: "Animated"},
			want:   []types.Capability{types.CapabilityTextToVideo, types.CapabilityAnimation},
		},
		{
			name:   "cartoon visual style",
			script: &types.Script{VisualStyle: "cartoon"},
			want:   []types.Capability{types.CapabilityTextToVideo, types.CapabilityAnimation},
		},
		{
			name:   "live action style needs no animation",
			script: &types.Script{VisualStyle: "cinematic"},
			want:   []types.Capability{types.CapabilityTextToVideo},
		},
		{
			name:   "transitions",
			script: &types.Script{Transitions: []string{"fade"}},
			want:   []types.Capability{types.CapabilityTextToVideo, types.CapabilityTransitions},
		},
		{
			name:   "music style needs audio mixing",
			script: &types.Script{MusicStyle: "lofi"},
			want:   []types.Capability{types.CapabilityTextToVideo, types.CapabilityAudioMixing},
		},
		{
			name: "metadata flags",
			script: &types.Script{Metadata: map[string]any{
				"ai_generation": true,
				"real_time":     true,
				"style_transfer": false,
			}},
			want: []types.Capability{
				types.CapabilityTextToVideo,
				types.CapabilityAIGeneration,
				types.CapabilityRealTime,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := p.RequiredFeatures(tt.script)
			assert.Equal(t, len(tt.want), caps.Len())
			for _, c := range tt.want {
				assert.True(t, caps.Contains(c), "missing capability %s", c)
			}
		})
	}
}
