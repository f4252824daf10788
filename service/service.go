package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BaSui01/videoflow/channel"
	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/internal/telemetry"
	"github.com/BaSui01/videoflow/registry"
	"github.com/BaSui01/videoflow/script"
	"github.com/BaSui01/videoflow/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultPriority is assigned to requests that do not specify one.
const DefaultPriority = 5

// trackedJob is one non-terminal generation job in the active table.
type trackedJob struct {
	result     *types.GenerationResult
	callback   func(*types.GenerationResult)
	dispatched time.Time
}

// Service is the generation orchestrator. It owns the active-jobs
// table; the registry owns provider metrics. Those two maps are the
// only shared mutable state in the engine, and each is guarded by its
// owner's mutex.
type Service struct {
	parser     *script.Parser
	strategies map[string]*channel.Strategy
	registry   *registry.Registry

	mu     sync.Mutex
	active map[string]*trackedJob

	maxConcurrent int64
	logger        *zap.Logger
	collector     *metrics.Collector
	tracer        trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithCollector attaches a Prometheus collector. Nil is valid.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Service) { s.collector = c }
}

// WithMaxConcurrent sets the default batch concurrency bound used when
// a batch call passes a non-positive limit.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = int64(n)
		}
	}
}

// New creates a Service. A nil logger falls back to zap.NewNop().
func New(
	parser *script.Parser,
	strategies map[string]*channel.Strategy,
	reg *registry.Registry,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		parser:        parser,
		strategies:    strategies,
		registry:      reg,
		active:        make(map[string]*trackedJob),
		maxConcurrent: 3,
		logger:        logger.With(zap.String("component", "service")),
		tracer:        otel.Tracer(telemetry.TracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs the full pipeline for one raw script and returns the
// in-flight (or synthetically failed) result. Pipeline stages execute
// strictly in order: parse, script validation, channel validation,
// feature extraction, provider selection, request enhancement,
// provider pre-flight, dispatch. The first gate that rejects
// short-circuits into a FAILED result.
func (s *Service) Generate(
	ctx context.Context,
	raw map[string]any,
	channelName string,
	quality types.QualityTier,
	preferProvider string,
	options map[string]any,
) (result *types.GenerationResult) {
	ctx, span := s.tracer.Start(ctx, "generate",
		trace.WithAttributes(
			attribute.String("channel", channelName),
			attribute.String("quality", string(quality)),
		))
	defer span.End()

	// A panic anywhere in the pipeline must not crash the orchestrator
	// or leave the active table inconsistent.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("orchestration fault", zap.Any("panic", r), zap.String("channel", channelName))
			result = s.failure(types.ErrOrchestrationFault, "", fmt.Sprintf("unexpected orchestration fault: %v", r), channelName)
		}
	}()

	sc := s.parser.Parse(raw)
	sc.Channel = channelName

	if ok, reason := s.parser.Validate(sc); !ok {
		s.collector.RecordRejection("script_invalid")
		return s.failure(types.ErrScriptInvalid, "", "invalid script: "+reason, channelName)
	}

	strategy, ok := s.strategies[channelName]
	if !ok {
		s.collector.RecordRejection("unknown_channel")
		return s.failure(types.ErrChannelMismatch, "", fmt.Sprintf("unknown channel %q", channelName), channelName)
	}
	if ok, reason := strategy.ValidateContent(sc); !ok {
		s.collector.RecordRejection("channel_mismatch")
		return s.failure(types.ErrChannelMismatch, "", "content rejected by channel: "+reason, channelName)
	}

	required := s.parser.RequiredFeatures(sc)
	span.SetAttributes(attribute.StringSlice("required_capabilities", required.Strings()))

	provider, ok := s.registry.Select(quality, required, channelName, preferProvider)
	if !ok {
		s.collector.RecordRejection("no_provider")
		return s.failure(types.ErrNoProviderAvailable, "",
			fmt.Sprintf("no suitable provider for quality %q and capabilities %v", quality, required.Strings()),
			channelName)
	}
	providerID := provider.Descriptor().ID
	span.SetAttributes(attribute.String("provider", providerID))

	req := &types.GenerationRequest{
		Script:         sc,
		Channel:        channelName,
		Quality:        quality,
		PreferProvider: preferProvider,
		Options:        options,
		Priority:       priorityFrom(options),
		Callback:       callbackFrom(options),
	}
	strategy.EnhanceRequest(req)

	if ok, reason := provider.ValidateRequest(req); !ok {
		s.collector.RecordRejection("provider_preflight")
		return s.failure(types.ErrProviderRequestInvalid, providerID,
			fmt.Sprintf("provider %s rejected request: %s", providerID, reason), channelName)
	}

	dispatched := time.Now()
	res, err := provider.Generate(ctx, req)
	if err != nil {
		s.registry.UpdateMetrics(providerID, false, 0, err)
		s.collector.RecordGeneration(channelName, providerID, string(types.StatusFailed), 0)
		return s.failure(types.ErrProviderGeneration, providerID,
			fmt.Sprintf("provider %s failed to start generation: %v", providerID, err), channelName)
	}
	if res.ProviderID == "" {
		res.ProviderID = providerID
	}
	if res.Metadata == nil {
		res.Metadata = make(map[string]any)
	}
	res.Metadata["channel"] = channelName

	s.logger.Info("generation dispatched",
		zap.String("video_id", res.ID),
		zap.String("provider", providerID),
		zap.String("channel", channelName),
		zap.String("status", string(res.Status)))

	if res.Status.Terminal() {
		// Provider finished synchronously; fold the outcome straight
		// into its metrics instead of tracking the job.
		s.settle(res, req.Callback, time.Since(dispatched))
		return res
	}

	s.mu.Lock()
	s.active[res.ID] = &trackedJob{result: res, callback: req.Callback, dispatched: dispatched}
	s.mu.Unlock()
	s.collector.JobStarted()

	return res
}

// Status returns the current state of a generation job. Tracked jobs
// are re-polled against their owning provider and the table entry is
// refreshed; a terminal answer removes the entry. Untracked IDs can
// still be resolved by naming the provider directly. When neither
// source knows the ID, a synthetic FAILED result is returned.
func (s *Service) Status(ctx context.Context, videoID, providerID string) *types.GenerationResult {
	s.mu.Lock()
	job, tracked := s.active[videoID]
	s.mu.Unlock()

	if tracked {
		return s.refresh(ctx, videoID, job)
	}

	if providerID != "" {
		provider, ok := s.registry.Get(providerID)
		if !ok {
			return s.failure(types.ErrJobNotFound, providerID,
				fmt.Sprintf("provider %q not registered", providerID), "")
		}
		res, err := provider.Status(ctx, videoID)
		if err != nil {
			return s.failure(types.ErrJobNotFound, providerID,
				fmt.Sprintf("job %s not found on provider %s: %v", videoID, providerID, err), "")
		}
		return res
	}

	return s.notFound(videoID)
}

// refresh polls the owning provider for a tracked job and reconciles
// the active table with the answer.
func (s *Service) refresh(ctx context.Context, videoID string, job *trackedJob) *types.GenerationResult {
	provider, ok := s.registry.Get(job.result.ProviderID)
	if !ok {
		// Provider vanished mid-job; resolve the job as failed so it
		// does not linger in the table forever.
		s.finish(videoID)
		failed := s.failure(types.ErrProviderGeneration, job.result.ProviderID,
			fmt.Sprintf("provider %s no longer registered", job.result.ProviderID), "")
		failed.ID = videoID
		return failed
	}

	fresh, err := provider.Status(ctx, videoID)
	if err != nil {
		// Transient poll failure: keep the job tracked, surface the
		// error to this caller only.
		s.logger.Warn("status poll failed",
			zap.String("video_id", videoID),
			zap.String("provider", job.result.ProviderID),
			zap.Error(err))
		failed := s.failure(types.ErrProviderGeneration, job.result.ProviderID,
			fmt.Sprintf("status poll failed: %v", err), "")
		failed.ID = videoID
		return failed
	}

	s.mu.Lock()
	if current, still := s.active[videoID]; still {
		current.result = fresh
	}
	s.mu.Unlock()

	if fresh.Status.Terminal() {
		// Concurrent polls can both observe the terminal answer; only
		// the one that removes the table entry settles, so metrics and
		// the callback fire exactly once per job.
		if s.finish(videoID) {
			s.settle(fresh, job.callback, time.Since(job.dispatched))
		}
	}
	return fresh
}

// Cancel requests cooperative cancellation of an active job. It returns
// false without mutation when the ID is not tracked, and only marks the
// job cancelled once the provider confirms it actually stopped.
func (s *Service) Cancel(ctx context.Context, videoID string) bool {
	s.mu.Lock()
	job, ok := s.active[videoID]
	s.mu.Unlock()
	if !ok {
		return false
	}

	provider, ok := s.registry.Get(job.result.ProviderID)
	if !ok {
		s.logger.Warn("cancel: provider no longer registered",
			zap.String("video_id", videoID),
			zap.String("provider", job.result.ProviderID))
		return false
	}

	cancelled, err := provider.Cancel(ctx, videoID)
	if err != nil || !cancelled {
		// Provider could not stop the job (already rendering); leave it
		// tracked so polling can still resolve it.
		s.logger.Info("cancellation refused",
			zap.String("video_id", videoID),
			zap.String("provider", job.result.ProviderID),
			zap.Error(err))
		return false
	}

	s.mu.Lock()
	if current, still := s.active[videoID]; still {
		current.result.Status = types.StatusCancelled
		current.result.CompletedAt = time.Now()
		delete(s.active, videoID)
		s.collector.JobFinished()
	}
	s.mu.Unlock()

	s.collector.RecordGeneration(channelOf(job.result), job.result.ProviderID, string(types.StatusCancelled), 0)
	s.logger.Info("generation cancelled", zap.String("video_id", videoID))
	return true
}

// ActiveJobs returns the number of currently tracked jobs.
func (s *Service) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Providers returns the descriptors of all registered providers, for
// dashboards and tooling that display capability, pricing, and
// availability without running a job.
func (s *Service) Providers() []types.ProviderDescriptor {
	return s.registry.List()
}

// ProviderFor reports which provider the registry would select for the
// given requirements, without dispatching anything.
func (s *Service) ProviderFor(quality types.QualityTier, required types.CapabilitySet, channelName string) (types.ProviderDescriptor, bool) {
	p, ok := s.registry.Select(quality, required, channelName, "")
	if !ok {
		return types.ProviderDescriptor{}, false
	}
	return p.Descriptor(), true
}

// StrategyFor returns the strategy for a channel, for external
// consumers that need style metadata without running generation.
func (s *Service) StrategyFor(channelName string) (*channel.Strategy, bool) {
	st, ok := s.strategies[channelName]
	return st, ok
}

// settle folds a terminal result into provider metrics, Prometheus, and
// the caller's callback.
func (s *Service) settle(res *types.GenerationResult, callback func(*types.GenerationResult), elapsed time.Duration) {
	switch res.Status {
	case types.StatusCompleted:
		s.registry.UpdateMetrics(res.ProviderID, true, jobDuration(res, elapsed), nil)
	case types.StatusFailed:
		s.registry.UpdateMetrics(res.ProviderID, false, 0,
			types.NewError(types.ErrProviderGeneration, res.ErrorMessage).WithProvider(res.ProviderID))
	}
	s.collector.RecordGeneration(channelOf(res), res.ProviderID, string(res.Status), elapsed)
	if callback != nil {
		callback(res)
	}
}

// finish removes a job from the active table. It reports whether this
// call actually removed the entry, so racing callers can tell which one
// of them won.
func (s *Service) finish(videoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[videoID]; ok {
		delete(s.active, videoID)
		s.collector.JobFinished()
		return true
	}
	return false
}

// failure builds a synthetic FAILED result for an expected pipeline
// rejection.
func (s *Service) failure(code types.ErrorCode, providerID, message, channelName string) *types.GenerationResult {
	now := time.Now()
	s.logger.Warn("generation failed",
		zap.String("code", string(code)),
		zap.String("provider", providerID),
		zap.String("reason", message))
	s.collector.RecordGeneration(channelName, providerID, string(types.StatusFailed), 0)
	return &types.GenerationResult{
		ID:           uuid.NewString(),
		Status:       types.StatusFailed,
		ProviderID:   providerID,
		ErrorMessage: message,
		Metadata:     map[string]any{"error_code": string(code)},
		CreatedAt:    now,
		CompletedAt:  now,
	}
}

// notFound builds the synthetic result for an unknown job ID.
func (s *Service) notFound(videoID string) *types.GenerationResult {
	res := s.failure(types.ErrJobNotFound, "", fmt.Sprintf("job %s not found", videoID), "")
	res.ID = videoID
	return res
}

func channelOf(res *types.GenerationResult) string {
	if ch, ok := res.Metadata["channel"].(string); ok {
		return ch
	}
	return ""
}

func jobDuration(res *types.GenerationResult, fallback time.Duration) time.Duration {
	if !res.CompletedAt.IsZero() && res.CompletedAt.After(res.CreatedAt) {
		return res.CompletedAt.Sub(res.CreatedAt)
	}
	return fallback
}

func priorityFrom(options map[string]any) int {
	if p, ok := options["priority"].(int); ok && p >= 1 && p <= 10 {
		return p
	}
	return DefaultPriority
}

// callbackFrom extracts an optional completion callback from the open
// options map. The callback fires once the job reaches a terminal state
// through the service.
func callbackFrom(options map[string]any) func(*types.GenerationResult) {
	cb, _ := options["callback"].(func(*types.GenerationResult))
	return cb
}
