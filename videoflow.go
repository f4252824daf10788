// Package videoflow provides a top-level convenience entry point for
// assembling the generation engine with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/videoflow"
//
//	svc := videoflow.New(
//	    videoflow.WithProvider(myProvider),
//	    videoflow.WithLogger(logger),
//	)
//	res := svc.Generate(ctx, raw, "fire", types.QualityStandard, "", nil)
//
// The facade wires the parser, the built-in channel strategies, the
// provider registry, and the generation service together; every piece
// can still be constructed and combined by hand from its own package.
package videoflow

import (
	"github.com/BaSui01/videoflow/channel"
	"github.com/BaSui01/videoflow/internal/metrics"
	"github.com/BaSui01/videoflow/registry"
	"github.com/BaSui01/videoflow/script"
	"github.com/BaSui01/videoflow/service"
	"github.com/BaSui01/videoflow/types"

	"go.uber.org/zap"
)

type options struct {
	logger           *zap.Logger
	profiles         []channel.Profile
	weights          *registry.ScoreWeights
	providers        []types.Provider
	maxConcurrent    int
	metricsNamespace string
}

// Option configures the engine assembled by [New].
type Option func(*options)

// WithLogger sets the zap logger shared by all components.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProfiles replaces the built-in channel profile table.
func WithProfiles(profiles []channel.Profile) Option {
	return func(o *options) { o.profiles = profiles }
}

// WithScoreWeights overrides the provider selection weight vector.
func WithScoreWeights(w registry.ScoreWeights) Option {
	return func(o *options) { o.weights = &w }
}

// WithProvider registers a rendering provider.
func WithProvider(p types.Provider) Option {
	return func(o *options) { o.providers = append(o.providers, p) }
}

// WithMaxConcurrent sets the default batch concurrency bound.
func WithMaxConcurrent(n int) Option {
	return func(o *options) { o.maxConcurrent = n }
}

// WithMetricsNamespace enables Prometheus collection under the given
// namespace. Without it the engine records no metrics.
func WithMetricsNamespace(namespace string) Option {
	return func(o *options) { o.metricsNamespace = namespace }
}

// New assembles a ready-to-use generation service.
func New(opts ...Option) *service.Service {
	o := &options{
		profiles: channel.BuiltinProfiles(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	var collector *metrics.Collector
	if o.metricsNamespace != "" {
		collector = metrics.NewCollector(o.metricsNamespace, o.logger)
	}

	regOpts := []registry.Option{registry.WithCollector(collector)}
	if o.weights != nil {
		regOpts = append(regOpts, registry.WithScoreWeights(*o.weights))
	}
	reg := registry.New(o.logger, regOpts...)
	for _, p := range o.providers {
		reg.Register(p)
	}

	svcOpts := []service.Option{service.WithCollector(collector)}
	if o.maxConcurrent > 0 {
		svcOpts = append(svcOpts, service.WithMaxConcurrent(o.maxConcurrent))
	}

	return service.New(
		script.NewParser(o.logger),
		channel.NewStrategies(o.profiles, o.logger),
		reg,
		o.logger,
		svcOpts...,
	)
}
