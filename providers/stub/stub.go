package stub

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/BaSui01/videoflow/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config describes a stub provider: its public descriptor plus the
// knobs controlling the simulated render.
type Config struct {
	ID                 string
	Name               string
	Capabilities       types.CapabilitySet
	SupportedTiers     []types.QualityTier
	MaxDurationSeconds int
	CostPerSecond      float64
	AvgGenerationTime  time.Duration
	Available          bool
	Metadata           map[string]string

	// RenderDuration is the simulated wall-clock render time.
	RenderDuration time.Duration
	// CancelableWindow is how long after acceptance a job can still be
	// cancelled; afterwards the stub reports it is already rendering.
	CancelableWindow time.Duration
	// FailureRate in [0,1] makes that fraction of jobs fail.
	FailureRate float64
}

// DefaultConfig returns a broadly capable, always-available stub.
func DefaultConfig(id string) Config {
	return Config{
		ID:   id,
		Name: "Stub Renderer " + id,
		Capabilities: types.NewCapabilitySet(
			types.CapabilityTextToVideo,
			types.CapabilityAnimation,
			types.CapabilityTransitions,
			types.CapabilityAudioMixing,
		),
		SupportedTiers:     []types.QualityTier{types.QualityLow, types.QualityStandard, types.QualityHigh},
		MaxDurationSeconds: 180,
		CostPerSecond:      0.05,
		AvgGenerationTime:  20 * time.Second,
		Available:          true,
		RenderDuration:     50 * time.Millisecond,
		CancelableWindow:   25 * time.Millisecond,
	}
}

type job struct {
	result  *types.GenerationResult
	started time.Time
	cancel  chan struct{}
}

// Provider simulates an asynchronous rendering backend. Accepted jobs
// run on their own goroutine and transition processing -> completed
// (or failed) after the configured render duration.
type Provider struct {
	cfg    Config
	logger *zap.Logger

	mu   sync.Mutex
	jobs map[string]*job

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a stub provider. A nil logger falls back to zap.NewNop().
func New(cfg Config, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		cfg:    cfg,
		logger: logger.With(zap.String("provider", cfg.ID)),
		jobs:   make(map[string]*job),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Descriptor returns the provider's static capability card.
func (p *Provider) Descriptor() types.ProviderDescriptor {
	return types.ProviderDescriptor{
		ID:                 p.cfg.ID,
		Name:               p.cfg.Name,
		Capabilities:       p.cfg.Capabilities.Clone(),
		SupportedTiers:     append([]types.QualityTier(nil), p.cfg.SupportedTiers...),
		MaxDurationSeconds: p.cfg.MaxDurationSeconds,
		CostPerSecond:      p.cfg.CostPerSecond,
		AvgGenerationTime:  p.cfg.AvgGenerationTime,
		Available:          p.cfg.Available,
		Metadata:           p.cfg.Metadata,
	}
}

// ValidateRequest is the pre-flight check before dispatch.
func (p *Provider) ValidateRequest(req *types.GenerationRequest) (bool, string) {
	if req == nil || req.Script == nil {
		return false, "request has no script"
	}
	if !p.cfg.Available {
		return false, "provider is unavailable"
	}
	if !types.SupportsTier(p.cfg.SupportedTiers, req.Quality) {
		return false, fmt.Sprintf("quality tier %q not supported", req.Quality)
	}
	if req.Script.DurationSeconds > p.cfg.MaxDurationSeconds {
		return false, fmt.Sprintf("duration %ds exceeds provider maximum %ds",
			req.Script.DurationSeconds, p.cfg.MaxDurationSeconds)
	}
	if !p.cfg.Capabilities.ContainsAll(req.Script.RequiredCapabilities) {
		return false, "script requires capabilities this provider lacks"
	}
	return true, ""
}

// Generate accepts a request and starts a simulated render. The
// returned result is in the processing state; the job completes, fails,
// or is cancelled asynchronously.
func (p *Provider) Generate(ctx context.Context, req *types.GenerationRequest) (*types.GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok, reason := p.ValidateRequest(req); !ok {
		return nil, types.NewError(types.ErrProviderRequestInvalid, reason).WithProvider(p.cfg.ID)
	}

	id := uuid.NewString()
	now := time.Now()
	j := &job{
		result: &types.GenerationResult{
			ID:         id,
			Status:     types.StatusProcessing,
			ProviderID: p.cfg.ID,
			Metadata: map[string]any{
				"channel": req.Channel,
				"quality": string(req.Quality),
			},
			CreatedAt: now,
		},
		started: now,
		cancel:  make(chan struct{}),
	}

	p.mu.Lock()
	p.jobs[id] = j
	p.mu.Unlock()

	willFail := p.roll() < p.cfg.FailureRate
	go p.render(j, req, willFail)

	p.logger.Debug("job accepted",
		zap.String("job_id", id),
		zap.String("channel", req.Channel),
		zap.Bool("will_fail", willFail))

	return p.snapshot(j), nil
}

// render simulates the rendering work for one job.
func (p *Provider) render(j *job, req *types.GenerationRequest, willFail bool) {
	select {
	case <-time.After(p.cfg.RenderDuration):
	case <-j.cancel:
		return // Cancel already finalized the result
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if j.result.Status.Terminal() {
		return
	}
	j.result.CompletedAt = time.Now()
	if willFail {
		j.result.Status = types.StatusFailed
		j.result.ErrorMessage = "simulated render failure"
		return
	}
	j.result.Status = types.StatusCompleted
	j.result.OutputURL = fmt.Sprintf("stub://%s.mp4", j.result.ID)
	j.result.ThumbnailURL = fmt.Sprintf("stub://%s.jpg", j.result.ID)
	j.result.DurationSeconds = float64(req.Script.DurationSeconds)
	j.result.SizeBytes = int64(req.Script.DurationSeconds) * 350_000
}

// Status returns a copy of the job's current state.
func (p *Provider) Status(ctx context.Context, jobID string) (*types.GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	j, ok := p.jobs[jobID]
	p.mu.Unlock()
	if !ok {
		return nil, types.Errorf(types.ErrJobNotFound, "job %s unknown", jobID).WithProvider(p.cfg.ID)
	}
	return p.snapshot(j), nil
}

// Cancel stops a job if it is still inside the cancelable window.
// Once the simulated render is past that point the job is "already
// rendering" and cancellation is refused.
func (p *Provider) Cancel(ctx context.Context, jobID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	j, ok := p.jobs[jobID]
	if !ok {
		return false, types.Errorf(types.ErrJobNotFound, "job %s unknown", jobID).WithProvider(p.cfg.ID)
	}
	if j.result.Status.Terminal() {
		return false, nil
	}
	if time.Since(j.started) > p.cfg.CancelableWindow {
		p.logger.Debug("cancel refused, job already rendering", zap.String("job_id", jobID))
		return false, nil
	}

	j.result.Status = types.StatusCancelled
	j.result.CompletedAt = time.Now()
	close(j.cancel)
	p.logger.Debug("job cancelled", zap.String("job_id", jobID))
	return true, nil
}

// snapshot copies a job's result under the lock so callers never see
// concurrent mutation.
func (p *Provider) snapshot(j *job) *types.GenerationResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := *j.result
	if j.result.Metadata != nil {
		out.Metadata = make(map[string]any, len(j.result.Metadata))
		for k, v := range j.result.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}

func (p *Provider) roll() float64 {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.Float64()
}
