package registry

import (
	"sync"
	"time"

	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/types"

	"go.uber.org/zap"
)

// Registry is a thread-safe registry of rendering providers. It owns
// the per-provider performance metrics; no other component writes them.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]types.Provider
	order     []string // registration order, used for first-seen tie-breaks
	metrics   map[string]*Metrics
	weights   ScoreWeights
	logger    *zap.Logger
	collector *metrics.Collector
}

// Option configures a Registry.
type Option func(*Registry)

// WithScoreWeights overrides the default selection weight vector.
func WithScoreWeights(w ScoreWeights) Option {
	return func(r *Registry) { r.weights = w }
}

// WithCollector attaches a Prometheus collector. Nil is valid.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Registry) { r.collector = c }
}

// New creates an empty Registry. A nil logger falls back to zap.NewNop().
func New(logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		providers: make(map[string]types.Provider),
		metrics:   make(map[string]*Metrics),
		weights:   DefaultScoreWeights(),
		logger:    logger.With(zap.String("component", "registry")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a provider under its descriptor ID and creates a fresh
// metrics record for it. Re-registering an existing ID replaces the
// provider (last write wins) and resets its metrics; the replacement is
// logged rather than treated as an error.
func (r *Registry) Register(p types.Provider) {
	d := p.Descriptor()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[d.ID]; exists {
		r.logger.Warn("replacing registered provider", zap.String("provider", d.ID))
	} else {
		r.order = append(r.order, d.ID)
	}
	r.providers[d.ID] = p
	r.metrics[d.ID] = &Metrics{}

	r.logger.Info("provider registered",
		zap.String("provider", d.ID),
		zap.Strings("capabilities", d.Capabilities.Strings()),
		zap.Float64("cost_per_second", d.CostPerSecond))
}

// Unregister removes a provider and its metrics record. Unknown IDs are
// a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[id]; !ok {
		return
	}
	delete(r.providers, id)
	delete(r.metrics, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Info("provider unregistered", zap.String("provider", id))
}

// Get retrieves a provider by ID.
func (r *Registry) Get(id string) (types.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	return p, ok
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// List returns the descriptors of all registered providers in
// registration order.
func (r *Registry) List() []types.ProviderDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.ProviderDescriptor, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.providers[id]; ok {
			out = append(out, p.Descriptor())
		}
	}
	return out
}

// Select picks the best provider for the requested quality tier and
// capability set. A usable preferred provider short-circuits scoring;
// otherwise candidates are filtered and the highest-scoring survivor
// wins, with ties broken by registration order. It returns false when
// no registered provider meets the requirements — callers must treat
// that as a hard failure, not retry internally.
func (r *Registry) Select(
	quality types.QualityTier,
	required types.CapabilitySet,
	channel string,
	prefer string,
) (types.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if prefer != "" {
		if p, ok := r.providers[prefer]; ok && meets(p.Descriptor(), quality, required) {
			r.logger.Debug("preferred provider selected",
				zap.String("provider", prefer),
				zap.String("quality", string(quality)))
			r.collector.RecordSelection(prefer, channel)
			return p, true
		}
	}

	var (
		best      types.Provider
		bestID    string
		bestScore Score
		found     bool
	)
	for _, id := range r.order {
		p := r.providers[id]
		d := p.Descriptor()
		if !meets(d, quality, required) {
			continue
		}
		s := scoreCandidate(r.weights, d, required, quality, channel, r.metricsFor(id))
		// Strict inequality keeps the first-seen candidate on ties.
		if !found || s.Total > bestScore.Total {
			best, bestID, bestScore, found = p, id, s, true
		}
	}

	if !found {
		r.logger.Warn("no provider meets requirements",
			zap.String("quality", string(quality)),
			zap.Strings("required", required.Strings()))
		return nil, false
	}

	r.logger.Debug("provider selected",
		zap.String("provider", bestID),
		zap.Float64("score", bestScore.Total),
		zap.Float64("performance", bestScore.Performance),
		zap.Float64("cost", bestScore.Cost))
	r.collector.RecordSelection(bestID, channel)
	return best, true
}

// ScoreCandidates returns the score breakdown for every candidate that
// passes the filter, keyed by provider ID. Intended for dashboards and
// tests; selection itself never exposes intermediate scores.
func (r *Registry) ScoreCandidates(
	quality types.QualityTier,
	required types.CapabilitySet,
	channel string,
) map[string]Score {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Score)
	for _, id := range r.order {
		d := r.providers[id].Descriptor()
		if !meets(d, quality, required) {
			continue
		}
		out[id] = scoreCandidate(r.weights, d, required, quality, channel, r.metricsFor(id))
	}
	return out
}

// UpdateMetrics absorbs the outcome of one generation job. It is the
// sole mutation path for provider metrics; scoring only reads them.
// On success the rolling average generation time is updated as
// (old*(n-1)+new)/n where n is the new success count.
func (r *Registry) UpdateMetrics(id string, success bool, duration time.Duration, genErr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.metrics[id]
	if !ok {
		r.logger.Warn("metrics update for unknown provider", zap.String("provider", id))
		return
	}

	now := time.Now()
	if success {
		m.SuccessCount++
		n := time.Duration(m.SuccessCount)
		m.AvgGenerationTime = (m.AvgGenerationTime*(n-1) + duration) / n
		m.LastSuccess = now
	} else {
		m.FailureCount++
		m.LastFailure = now
		if genErr != nil {
			m.LastError = genErr.Error()
		}
	}

	r.logger.Debug("provider metrics updated",
		zap.String("provider", id),
		zap.Bool("success", success),
		zap.Duration("duration", duration),
		zap.Float64("success_rate", m.SuccessRate()))
}

// Snapshot returns a copy of a provider's metrics record.
func (r *Registry) Snapshot(id string) (Metrics, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.metrics[id]
	if !ok {
		return Metrics{}, false
	}
	return *m, true
}

// metricsFor returns a copy of the metrics record for scoring. Callers
// must hold at least the read lock.
func (r *Registry) metricsFor(id string) Metrics {
	if m, ok := r.metrics[id]; ok {
		return *m
	}
	return Metrics{}
}

// meets reports whether a descriptor satisfies the hard requirements:
// availability, requested tier support, and full capability coverage.
func meets(d types.ProviderDescriptor, quality types.QualityTier, required types.CapabilitySet) bool {
	return d.Available &&
		types.SupportsTier(d.SupportedTiers, quality) &&
		d.Capabilities.ContainsAll(required)
}
