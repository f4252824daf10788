package script

import (
	"testing"

	"github.com/BaSui01/videoflow/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExplicitFields(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"channel":        "fire",
		"topic":          "morning workout",
		"hook":           "No excuses today.",
		"main_points":    []any{"warm up", "push hard", "cool down"},
		"call_to_action": "Join the challenge!",
		"duration":       45,
		"visual_style":   "animated",
		"music_style":    "trap",
		"transitions":    []any{"flash_cut"},
	})

	assert.Equal(t, "fire", s.Channel)
	assert.Equal(t, "No excuses today.", s.Hook)
	assert.Equal(t, []string{"warm up", "push hard", "cool down"}, s.MainPoints)
	assert.Equal(t, "Join the challenge!", s.CallToAction)
	assert.Equal(t, 45, s.DurationSeconds)
	assert.Equal(t, "animated", s.VisualStyle)
	assert.Equal(t, "trap", s.MusicStyle)
	assert.Equal(t, []string{"flash_cut"}, s.Transitions)
}

func TestParse_FallbackHookAndCTA(t *testing.T) {
	// Scenario: upstream copywriter sent points but left hook and CTA blank.
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"channel":        "air",
		"topic":          "5 Second Deck Check",
		"main_points":    []any{"tip one", "tip two"},
		"hook":           "",
		"call_to_action": "",
	})

	assert.Equal(t, DefaultHook, s.Hook)
	assert.Equal(t, DefaultCTA, s.CallToAction)
	assert.Equal(t, []string{"tip one", "tip two"}, s.MainPoints)
	// 4s hook + 7s per point + 4s CTA
	assert.Equal(t, 22, s.DurationSeconds)
}

func TestParse_NestedContent(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"topic": "deep sleep routine",
		"content": map[string]any{
			"hook":   "Can't sleep? Watch this.",
			"points": []any{"dim the lights", "no screens"},
			"cta":    "Save this for tonight",
		},
	})

	assert.Equal(t, "Can't sleep? Watch this.", s.Hook)
	assert.Equal(t, []string{"dim the lights", "no screens"}, s.MainPoints)
	assert.Equal(t, "Save this for tonight", s.CallToAction)
}

func TestParse_HookFromIntroSentence(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"topic": "garden prep",
		"intro": "Your soil is lying to you. Here is how to fix it before spring.",
	})

	assert.Equal(t, "Your soil is lying to you.", s.Hook)
}

func TestParse_BodySplitPriority(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "numbered beats bullets",
			body: "1. first thing\n2. second thing\n- stray bullet",
			want: []string{"first thing", "second thing"},
		},
		{
			name: "bullets",
			body: "- one\n* two\n• three",
			want: []string{"one", "two", "three"},
		},
		{
			name: "newlines",
			body: "alpha\nbeta\ngamma",
			want: []string{"alpha", "beta", "gamma"},
		},
		{
			name: "sentences",
			body: "Do this. Then that! Finally this?",
			want: []string{"Do this", "Then that", "Finally this"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := p.Parse(map[string]any{"topic": "x", "body": tt.body})
			assert.Equal(t, tt.want, s.MainPoints)
		})
	}
}

func TestParse_MainPointsCappedAtFive(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"topic":       "x",
		"main_points": []any{"a", "b", "c", "d", "e", "f", "g"},
	})

	assert.Len(t, s.MainPoints, types.MaxMainPoints)
}

func TestParse_DurationForms(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"int", 90, 90},
		{"float", 42.0, 42},
		{"minutes and seconds", "1m30s", 90},
		{"seconds only", "45s", 45},
		{"minutes only", "2m", 120},
		{"bare number string", "75", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := p.Parse(map[string]any{"topic": "x", "duration": tt.raw, "main_points": []any{"a"}})
			assert.Equal(t, tt.want, s.DurationSeconds)
		})
	}
}

func TestParse_UnparseableDurationFallsBackToEstimate(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"topic":       "x",
		"duration":    "a while",
		"main_points": []any{"a", "b"},
	})

	assert.Equal(t, EstimateDuration(2), s.DurationSeconds)
}

func TestEstimateDuration_Clamped(t *testing.T) {
	assert.Equal(t, types.MinEstimatedSeconds, EstimateDuration(0))
	assert.Equal(t, 22, EstimateDuration(2))
	assert.Equal(t, 43, EstimateDuration(5))
	assert.Equal(t, types.MaxEstimatedSeconds, EstimateDuration(20))
}

func TestParse_MetadataProvenanceAndPassthrough(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{
		"topic":           "x",
		"hashtags":        []any{"#fit"},
		"target_audience": "beginners",
		"mood":            "hype",
		"metadata":        map[string]any{"ai_generation": true},
	})

	require.NotNil(t, s.Metadata)
	assert.Equal(t, "videoflow.Parser", s.Metadata["parsed_by"])
	assert.Equal(t, "beginners", s.Metadata["target_audience"])
	assert.Equal(t, "hype", s.Metadata["mood"])
	assert.Equal(t, true, s.Metadata["ai_generation"])
}

func TestParse_DefaultTransitions(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(map[string]any{"topic": "x"})

	assert.Equal(t, DefaultTransitions, s.Transitions)
}

func TestParse_NilInput(t *testing.T) {
	p := NewParser(nil)

	s := p.Parse(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultHook, s.Hook)
	assert.Equal(t, DefaultCTA, s.CallToAction)
	assert.True(t, s.RequiredCapabilities.Contains(types.CapabilityTextToVideo))
}
