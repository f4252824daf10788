package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BaSui01/videoflow/channel"
	"github.com/BaSui01/videoflow/registry"
	"github.com/BaSui01/videoflow/script"
	"github.com/BaSui01/videoflow/testutil/mocks"
	"github.com/BaSui01/videoflow/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(providers ...types.Provider) (*Service, *registry.Registry) {
	reg := registry.New(nil)
	for _, p := range providers {
		reg.Register(p)
	}
	parser := script.NewParser(nil)
	strategies := channel.NewStrategies(channel.BuiltinProfiles(), nil)
	return New(parser, strategies, reg, nil), reg
}

func rawScript() map[string]any {
	return map[string]any{
		"topic":          "morning workout routine",
		"hook":           "Five minutes is all you need.",
		"main_points":    []any{"jumping jacks", "push ups", "plank"},
		"call_to_action": "Save this routine!",
		"duration":       40,
	}
}

func errorCode(res *types.GenerationResult) string {
	code, _ := res.Metadata["error_code"].(string)
	return code
}

func TestGenerate_HappyPathTracksJob(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", nil)

	require.NotNil(t, res)
	assert.Equal(t, types.StatusProcessing, res.Status)
	assert.Equal(t, "render-1", res.ProviderID)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "fire", res.Metadata["channel"])
	assert.Equal(t, 1, svc.ActiveJobs())
	assert.Equal(t, 1, mock.ValidateCalls)
	assert.Equal(t, 1, mock.GenerateCalls)
}

func TestGenerate_InvalidScript(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	res := svc.Generate(context.Background(), map[string]any{"topic": ""}, "fire", types.QualityStandard, "", nil)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrScriptInvalid), errorCode(res))
	assert.Contains(t, res.ErrorMessage, "invalid script")
	assert.Zero(t, mock.GenerateCalls, "provider must not be reached")
	assert.Zero(t, svc.ActiveJobs())
}

func TestGenerate_UnknownChannel(t *testing.T) {
	svc, _ := newTestService(mocks.NewMockProvider("render-1"))

	res := svc.Generate(context.Background(), rawScript(), "lava", types.QualityStandard, "", nil)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrChannelMismatch), errorCode(res))
	assert.Contains(t, res.ErrorMessage, `unknown channel "lava"`)
}

func TestGenerate_ChannelRejectsContent(t *testing.T) {
	svc, _ := newTestService(mocks.NewMockProvider("render-1"))

	// A fitness topic does not fit the water channel's themes.
	res := svc.Generate(context.Background(), rawScript(), "water", types.QualityStandard, "", nil)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrChannelMismatch), errorCode(res))
	assert.Contains(t, res.ErrorMessage, "content rejected by channel")
}

func TestGenerate_NoProviderAvailable(t *testing.T) {
	narrow := mocks.NewMockProvider("narrow").WithTiers(types.QualityLow)
	svc, _ := newTestService(narrow)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityUltra, "", nil)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrNoProviderAvailable), errorCode(res))
	assert.Contains(t, res.ErrorMessage, "no suitable provider")
}

func TestGenerate_ProviderPreflightRejection(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	mock.SetValidateResult(false, "resolution unsupported")
	svc, _ := newTestService(mock)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", nil)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrProviderRequestInvalid), errorCode(res))
	assert.Contains(t, res.ErrorMessage, "resolution unsupported")
	assert.Zero(t, mock.GenerateCalls)
}

func TestGenerate_ProviderDispatchErrorCountsAsFailure(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	mock.SetGenerateError(errors.New("quota exhausted"))
	svc, reg := newTestService(mock)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", nil)

	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrProviderGeneration), errorCode(res))

	m, _ := reg.Snapshot("render-1")
	assert.Equal(t, 1, m.FailureCount)
	assert.Contains(t, m.LastError, "quota exhausted")
}

func TestGenerate_SynchronousCompletionSettlesImmediately(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	mock.SetGenerateStatus(types.StatusCompleted)
	svc, reg := newTestService(mock)

	var callbackRes *types.GenerationResult
	opts := map[string]any{
		"callback": func(r *types.GenerationResult) { callbackRes = r },
	}

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", opts)

	assert.Equal(t, types.StatusCompleted, res.Status)
	assert.Zero(t, svc.ActiveJobs(), "terminal result must not be tracked")
	require.NotNil(t, callbackRes)
	assert.Equal(t, res.ID, callbackRes.ID)

	m, _ := reg.Snapshot("render-1")
	assert.Equal(t, 1, m.SuccessCount)
}

// panicProvider blows up inside Generate to exercise fault recovery.
type panicProvider struct {
	*mocks.MockProvider
}

func (p *panicProvider) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	panic("renderer lost its mind")
}

func TestGenerate_PanicBecomesOrchestrationFault(t *testing.T) {
	svc, _ := newTestService(&panicProvider{mocks.NewMockProvider("render-1")})

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", nil)

	require.NotNil(t, res)
	assert.Equal(t, types.StatusFailed, res.Status)
	assert.Equal(t, string(types.ErrOrchestrationFault), errorCode(res))
	assert.Contains(t, res.ErrorMessage, "renderer lost its mind")
	assert.Zero(t, svc.ActiveJobs())
}

func TestGenerate_PreferredProvider(t *testing.T) {
	fast := mocks.NewMockProvider("fast")
	slow := mocks.NewMockProvider("slow").WithAvgTime(150 * time.Second).WithCost(1.5)
	svc, _ := newTestService(fast, slow)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "slow", nil)

	assert.Equal(t, "slow", res.ProviderID)
}

func TestGenerate_PriorityFromOptions(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	tests := []struct {
		name string
		opts map[string]any
	}{
		{"explicit priority", map[string]any{"priority": 9}},
		{"out of range falls back", map[string]any{"priority": 42}},
		{"no options", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", tt.opts)
			assert.Equal(t, types.StatusProcessing, res.Status)
		})
	}
}

func TestStatus_TrackedJobLifecycle(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, reg := newTestService(mock)

	var callbackRes *types.GenerationResult
	opts := map[string]any{
		"callback": func(r *types.GenerationResult) { callbackRes = r },
	}
	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", opts)
	require.Equal(t, types.StatusProcessing, res.Status)

	// Still processing: entry stays tracked.
	mid := svc.Status(context.Background(), res.ID, "")
	assert.Equal(t, types.StatusProcessing, mid.Status)
	assert.Equal(t, 1, svc.ActiveJobs())

	// Provider finishes: the next poll settles the job.
	now := time.Now()
	mock.SetStatus(res.ID, &types.GenerationResult{
		ID:          res.ID,
		Status:      types.StatusCompleted,
		ProviderID:  "render-1",
		OutputURL:   "mock://" + res.ID + ".mp4",
		CreatedAt:   now.Add(-20 * time.Second),
		CompletedAt: now,
	})

	final := svc.Status(context.Background(), res.ID, "")
	assert.Equal(t, types.StatusCompleted, final.Status)
	assert.Zero(t, svc.ActiveJobs())
	require.NotNil(t, callbackRes)
	assert.Equal(t, res.ID, callbackRes.ID)

	m, _ := reg.Snapshot("render-1")
	assert.Equal(t, 1, m.SuccessCount)
	assert.Equal(t, 20*time.Second, m.AvgGenerationTime)
}

// gatedStatusProvider parks Status calls on a release channel so a test
// can line up several pollers on the same job before any answer lands.
type gatedStatusProvider struct {
	*mocks.MockProvider
	entered chan struct{}
	release chan struct{}
}

func newGatedStatusProvider(id string) *gatedStatusProvider {
	return &gatedStatusProvider{
		MockProvider: mocks.NewMockProvider(id),
		entered:      make(chan struct{}, 8),
		release:      make(chan struct{}),
	}
}

func (p *gatedStatusProvider) Status(ctx context.Context, jobID string) (*types.GenerationResult, error) {
	p.entered <- struct{}{}
	<-p.release
	return p.MockProvider.Status(ctx, jobID)
}

// Two polls racing on the same job must settle it exactly once: one
// success in the provider metrics and one callback invocation.
func TestStatus_ConcurrentTerminalPollsSettleOnce(t *testing.T) {
	gated := newGatedStatusProvider("render-1")
	svc, reg := newTestService(gated)

	var callbackCount atomic.Int64
	opts := map[string]any{
		"callback": func(*types.GenerationResult) { callbackCount.Add(1) },
	}
	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", opts)
	require.Equal(t, types.StatusProcessing, res.Status)

	now := time.Now()
	gated.SetStatus(res.ID, &types.GenerationResult{
		ID:          res.ID,
		Status:      types.StatusCompleted,
		ProviderID:  "render-1",
		CreatedAt:   now.Add(-20 * time.Second),
		CompletedAt: now,
	})

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := svc.Status(context.Background(), res.ID, "")
			assert.Equal(t, types.StatusCompleted, got.Status)
		}()
	}

	// Both pollers are inside the provider, so both passed the tracked
	// check before either saw the terminal answer.
	<-gated.entered
	<-gated.entered
	close(gated.release)
	wg.Wait()

	assert.Zero(t, svc.ActiveJobs())
	assert.Equal(t, int64(1), callbackCount.Load(), "callback must fire exactly once")
	m, _ := reg.Snapshot("render-1")
	assert.Equal(t, 1, m.SuccessCount, "one job must record one success")
}

func TestStatus_TransientPollErrorKeepsJobTracked(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", nil)
	mock.SetStatusError(errors.New("connection reset"))

	got := svc.Status(context.Background(), res.ID, "")
	assert.Equal(t, types.StatusFailed, got.Status)
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, 1, svc.ActiveJobs(), "transient poll error must not drop the job")

	// Recovery: polling works again afterwards.
	mock.SetStatusError(nil)
	again := svc.Status(context.Background(), res.ID, "")
	assert.Equal(t, types.StatusProcessing, again.Status)
}

func TestStatus_UntrackedWithProviderHint(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	seeded := &types.GenerationResult{ID: "job-77", Status: types.StatusProcessing, ProviderID: "render-1"}
	mock.SetStatus("job-77", seeded)

	got := svc.Status(context.Background(), "job-77", "render-1")
	assert.Equal(t, types.StatusProcessing, got.Status)

	missing := svc.Status(context.Background(), "job-99", "ghost")
	assert.Equal(t, types.StatusFailed, missing.Status)
	assert.Equal(t, string(types.ErrJobNotFound), errorCode(missing))
}

func TestStatus_UnknownJob(t *testing.T) {
	svc, _ := newTestService(mocks.NewMockProvider("render-1"))

	got := svc.Status(context.Background(), "nope", "")
	assert.Equal(t, types.StatusFailed, got.Status)
	assert.Equal(t, "nope", got.ID)
	assert.Equal(t, string(types.ErrJobNotFound), errorCode(got))
}

func TestCancel(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	res := svc.Generate(context.Background(), rawScript(), "fire", types.QualityStandard, "", nil)
	require.Equal(t, 1, svc.ActiveJobs())

	// Provider refuses: job stays tracked.
	mock.SetCancelResult(false, nil)
	assert.False(t, svc.Cancel(context.Background(), res.ID))
	assert.Equal(t, 1, svc.ActiveJobs())

	// Provider errors: same.
	mock.SetCancelResult(false, errors.New("too late"))
	assert.False(t, svc.Cancel(context.Background(), res.ID))
	assert.Equal(t, 1, svc.ActiveJobs())

	// Provider confirms: job resolves as cancelled and is dropped.
	mock.SetCancelResult(true, nil)
	assert.True(t, svc.Cancel(context.Background(), res.ID))
	assert.Zero(t, svc.ActiveJobs())

	// Unknown IDs are a clean no-op.
	assert.False(t, svc.Cancel(context.Background(), "nope"))
}

func TestProviderForAndStrategyFor(t *testing.T) {
	mock := mocks.NewMockProvider("render-1")
	svc, _ := newTestService(mock)

	d, ok := svc.ProviderFor(types.QualityStandard, types.NewCapabilitySet(types.CapabilityTextToVideo), "fire")
	require.True(t, ok)
	assert.Equal(t, "render-1", d.ID)

	_, ok = svc.ProviderFor(types.QualityUltra, types.NewCapabilitySet(types.AllCapabilities()...), "fire")
	assert.True(t, ok, "mock carries every capability")

	st, ok := svc.StrategyFor("water")
	require.True(t, ok)
	assert.Equal(t, "water", st.Name())

	_, ok = svc.StrategyFor("lava")
	assert.False(t, ok)

	assert.Len(t, svc.Providers(), 1)
}
