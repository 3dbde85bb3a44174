package render

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/engine"
)

const tracerName = "github.com/vango-dev/prerender/pkg/render"

// Mode names the kind of render in metrics and spans.
type Mode string

const (
	ModeString Mode = "string"
	ModeStatic Mode = "static"
)

// Metrics records completed renders. A Metrics value that also implements
// cache.Observer observes the resource loads of renders that create their
// own cache.
type Metrics interface {
	ObserveRender(mode Mode, d time.Duration, stats engine.Stats, err error)
}

// Option configures one render.
type Option func(*config)

type config struct {
	cache       *cache.Cache
	maxWait     time.Duration
	logger      *slog.Logger
	caps        engine.Capabilities
	metrics     Metrics
	tracer      trace.Tracer
	embed       cache.EmbedOptions
	dev         bool
	frameBudget time.Duration
}

// WithCache renders against c instead of a fresh cache. Pass the cache of
// an earlier render, or one built with cache.NewFromData, to reuse its
// results.
func WithCache(c *cache.Cache) Option {
	return func(cfg *config) { cfg.cache = c }
}

// WithMaxWait bounds the time spent waiting on suspended data. Zero waits
// until ctx is done.
func WithMaxWait(d time.Duration) Option {
	return func(cfg *config) { cfg.maxWait = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithCapabilities overrides the server capability slots.
func WithCapabilities(c engine.Capabilities) Option {
	return func(cfg *config) { cfg.caps = c }
}

// WithMetrics records the render in m.
func WithMetrics(m Metrics) Option {
	return func(cfg *config) { cfg.metrics = m }
}

// WithTracer sets the tracer for render spans.
func WithTracer(t trace.Tracer) Option {
	return func(cfg *config) { cfg.tracer = t }
}

// WithEmbed sets the global and script id used for the embedded cache data.
func WithEmbed(o cache.EmbedOptions) Option {
	return func(cfg *config) { cfg.embed = o }
}

// WithDevMode enables development warnings.
func WithDevMode(dev bool) Option {
	return func(cfg *config) { cfg.dev = dev }
}

// WithFrameBudget sets how long the engine works before yielding.
func WithFrameBudget(d time.Duration) Option {
	return func(cfg *config) { cfg.frameBudget = d }
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default().With("component", "render")
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.Tracer(tracerName)
	}
	return cfg
}

// newCache builds the render's own cache, observed by the metrics when
// they can.
func (cfg *config) newCache() *cache.Cache {
	opts := []cache.Option{
		cache.WithTracer(cfg.tracer),
		cache.WithLogger(cfg.logger),
	}
	if obs, ok := cfg.metrics.(cache.Observer); ok {
		opts = append(opts, cache.WithObserver(obs))
	}
	return cache.New(opts...)
}
