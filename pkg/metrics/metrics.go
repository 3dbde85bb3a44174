// Package metrics exports Prometheus metrics for renders and resource loads.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/engine"
	"github.com/vango-dev/prerender/pkg/markup"
	"github.com/vango-dev/prerender/pkg/render"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metric namespace (default: "prerender").
	Namespace string

	// Subsystem is the metric subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the duration histogram buckets (default: prometheus.DefBuckets).
	Buckets []float64

	// Registry registers the metrics (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metric namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metric subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets labels added to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the registry the metrics are registered with.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "prerender",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records renders and resource loads. It implements
// render.Metrics and cache.Observer, so passing it to render.WithMetrics
// also observes the loads of that render.
type Collector struct {
	rendersTotal    *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	renderPasses    *prometheus.HistogramVec
	renderErrors    *prometheus.CounterVec
	forcedFallbacks *prometheus.CounterVec
	suspensions     *prometheus.CounterVec

	lookupsTotal  *prometheus.CounterVec
	loadsStarted  *prometheus.CounterVec
	loadsInFlight *prometheus.GaugeVec
	loadDuration  *prometheus.HistogramVec
	loadErrors    *prometheus.CounterVec
}

var (
	_ render.Metrics = (*Collector)(nil)
	_ cache.Observer = (*Collector)(nil)
)

// New creates a Collector and registers its metrics.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of renders",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render duration in seconds, including time spent waiting on resources",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"mode"}),

		renderPasses: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_passes",
			Help:        "Number of render passes per render",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 8, 13},
		}, []string{"mode"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total number of failed renders by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"mode", "error_type"}),

		forcedFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "forced_fallbacks_total",
			Help:        "Total number of suspense boundaries that committed their fallback after waiting",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		suspensions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "suspensions_total",
			Help:        "Total number of suspended reads across render passes",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		lookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_lookups_total",
			Help:        "Total number of cache reads by the status found",
			ConstLabels: config.ConstLabels,
		}, []string{"resource", "status"}),

		loadsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_loads_total",
			Help:        "Total number of resource loads started",
			ConstLabels: config.ConstLabels,
		}, []string{"resource"}),

		loadsInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_loads_in_flight",
			Help:        "Number of resource loads not yet settled",
			ConstLabels: config.ConstLabels,
		}, []string{"resource"}),

		loadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_load_duration_seconds",
			Help:        "Resource load duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"resource", "result"}),

		loadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resource_load_errors_total",
			Help:        "Total number of rejected resource loads by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"resource", "error_type"}),
	}
}

// ObserveRender records one completed render.
func (c *Collector) ObserveRender(mode render.Mode, d time.Duration, stats engine.Stats, err error) {
	m := string(mode)
	c.renderDuration.WithLabelValues(m).Observe(d.Seconds())
	c.renderPasses.WithLabelValues(m).Observe(float64(stats.Passes))
	c.forcedFallbacks.WithLabelValues(m).Add(float64(stats.ForcedFallbacks))
	c.suspensions.WithLabelValues(m).Add(float64(stats.Suspensions))

	status := "success"
	if err != nil {
		status = "error"
		c.renderErrors.WithLabelValues(m, categorizeError(err)).Inc()
	}
	c.rendersTotal.WithLabelValues(m, status).Inc()
}

// Lookup implements cache.Observer.
func (c *Collector) Lookup(resource string, status cache.Status) {
	c.lookupsTotal.WithLabelValues(resource, status.String()).Inc()
}

// LoadStarted implements cache.Observer.
func (c *Collector) LoadStarted(resource string) {
	c.loadsStarted.WithLabelValues(resource).Inc()
	c.loadsInFlight.WithLabelValues(resource).Inc()
}

// LoadSettled implements cache.Observer.
func (c *Collector) LoadSettled(resource string, d time.Duration, err error) {
	c.loadsInFlight.WithLabelValues(resource).Dec()
	result := "resolved"
	if err != nil {
		result = "rejected"
		c.loadErrors.WithLabelValues(resource, categorizeError(err)).Inc()
	}
	c.loadDuration.WithLabelValues(resource, result).Observe(d.Seconds())
}

func categorizeError(err error) string {
	var attrErr *markup.AttributeError
	var compErr *engine.ComponentError
	switch {
	case errors.Is(err, cache.ErrLoadTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, cache.ErrLoadPanic), errors.Is(err, engine.ErrComponentPanic):
		return "panic"
	case errors.Is(err, engine.ErrUnresolvedSuspension):
		return "unresolved"
	case errors.As(err, &attrErr):
		return "attribute"
	case errors.As(err, &compErr):
		return "component"
	default:
		return "internal"
	}
}
