package videoflow

import (
	"context"
	"testing"
	"time"

	"github.com/BaSui01/videoflow/providers/stub"
	"github.com/BaSui01/videoflow/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// End to end through the facade: raw payload in, rendered video out,
// backed by the stub renderer.
func TestEngine_EndToEnd(t *testing.T) {
	cfg := stub.DefaultConfig("stub-e2e")
	cfg.RenderDuration = 20 * time.Millisecond
	cfg.CancelableWindow = 0

	svc := New(
		WithProvider(stub.New(cfg, nil)),
		WithMaxConcurrent(2),
	)

	raw := map[string]any{
		"topic":          "sunrise hike adventure",
		"hook":           "The view nobody shows you.",
		"main_points":    []any{"pack light", "start in the dark", "summit by six"},
		"call_to_action": "Plan your own trip",
		"duration":       50,
	}

	res := svc.Generate(context.Background(), raw, "air", types.QualityStandard, "", nil)
	require.Equal(t, types.StatusProcessing, res.Status)
	require.Equal(t, "stub-e2e", res.ProviderID)
	assert.Equal(t, 1, svc.ActiveJobs())

	deadline := time.After(2 * time.Second)
	var final *types.GenerationResult
	for {
		final = svc.Status(context.Background(), res.ID, "")
		if final.Status.Terminal() {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job never finished")
		case <-time.After(5 * time.Millisecond):
		}
	}

	assert.Equal(t, types.StatusCompleted, final.Status)
	assert.Equal(t, "stub://"+res.ID+".mp4", final.OutputURL)
	assert.Zero(t, svc.ActiveJobs())
}

func TestEngine_ChannelGateStillApplies(t *testing.T) {
	svc := New(WithProvider(stub.New(stub.DefaultConfig("stub-1"), nil)))

	raw := map[string]any{
		"topic":          "sunrise hike adventure",
		"main_points":    []any{"a", "b"},
		"hook":           "h",
		"call_to_action": "c",
		"duration":       70, // over the air channel's 60s cap
	}
	res := svc.Generate(context.Background(), raw, "air", types.QualityStandard, "", nil)
	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrChannelMismatch), res.Metadata["error_code"])
}

func TestEngine_CustomProfiles(t *testing.T) {
	svc := New(
		WithProvider(stub.New(stub.DefaultConfig("stub-1"), nil)),
		WithProfiles(nil),
	)

	raw := map[string]any{
		"topic":          "anything",
		"main_points":    []any{"a"},
		"hook":           "h",
		"call_to_action": "c",
		"duration":       30,
	}
	res := svc.Generate(context.Background(), raw, "air", types.QualityStandard, "", nil)
	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrChannelMismatch), res.Metadata["error_code"])

	_, ok := svc.StrategyFor("air")
	assert.False(t, ok, "empty profile table must expose no strategies")
}

func TestEngine_ProvidersListed(t *testing.T) {
	svc := New(
		WithProvider(stub.New(stub.DefaultConfig("a"), nil)),
		WithProvider(stub.New(stub.DefaultConfig("b"), nil)),
	)

	descriptors := svc.Providers()
	require.Len(t, descriptors, 2)
	assert.Equal(t, "a", descriptors[0].ID)
	assert.Equal(t, "b", descriptors[1].ID)
}
