package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector aggregates the engine's Prometheus metrics. A nil *Collector
// is valid and records nothing, so components can treat metrics as
// optional wiring.
type Collector struct {
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	selectionsTotal    *prometheus.CounterVec
	rejectionsTotal    *prometheus.CounterVec
	activeJobs         prometheus.Gauge
	batchSize          prometheus.Histogram

	logger *zap.Logger
}

// NewCollector creates a Collector registered on the default Prometheus
// registry under the given namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of video generation jobs by outcome",
		},
		[]string{"channel", "provider", "status"},
	)

	c.generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall-clock duration of completed generation jobs",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"provider"},
	)

	c.selectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_selected_total",
			Help:      "Number of times a provider won selection",
		},
		[]string{"provider", "channel"},
	)

	c.rejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_rejections_total",
			Help:      "Requests rejected before dispatch, by pipeline gate",
		},
		[]string{"gate"},
	)

	c.activeJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_jobs",
			Help:      "Generation jobs currently tracked as in-flight",
		},
	)

	c.batchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch submission",
			Buckets:   []float64{1, 2, 5, 10, 20, 50},
		},
	)

	return c
}

// RecordGeneration records a finished (or synthetically failed) job.
func (c *Collector) RecordGeneration(channel, provider, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.generationsTotal.WithLabelValues(channel, provider, status).Inc()
	if duration > 0 && provider != "" {
		c.generationDuration.WithLabelValues(provider).Observe(duration.Seconds())
	}
}

// RecordSelection records a provider winning selection for a channel.
func (c *Collector) RecordSelection(provider, channel string) {
	if c == nil {
		return
	}
	c.selectionsTotal.WithLabelValues(provider, channel).Inc()
}

// RecordRejection records a request stopped at a pipeline gate.
func (c *Collector) RecordRejection(gate string) {
	if c == nil {
		return
	}
	c.rejectionsTotal.WithLabelValues(gate).Inc()
}

// JobStarted increments the active-jobs gauge.
func (c *Collector) JobStarted() {
	if c == nil {
		return
	}
	c.activeJobs.Inc()
}

// JobFinished decrements the active-jobs gauge.
func (c *Collector) JobFinished() {
	if c == nil {
		return
	}
	c.activeJobs.Dec()
}

// ObserveBatchSize records the size of a batch submission.
func (c *Collector) ObserveBatchSize(n int) {
	if c == nil {
		return
	}
	c.batchSize.Observe(float64(n))
}
