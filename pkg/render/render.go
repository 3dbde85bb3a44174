package render

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/engine"
	"github.com/vango-dev/prerender/pkg/host"
	"github.com/vango-dev/prerender/pkg/markup"
	"github.com/vango-dev/prerender/pkg/vdom"
)

// Result is the output of a render.
type Result struct {
	// Markup is the rendered HTML.
	Markup string

	// MarkupWithCacheData is Markup followed by an inline script carrying
	// the serialized cache. Empty for static renders.
	MarkupWithCacheData string

	// Cache holds every record the render read. It can seed a later render.
	Cache *cache.Cache

	// Pending counts records left out of the cache data because their
	// boundary committed its fallback before they settled.
	Pending int

	// Stats reports the engine's work.
	Stats engine.Stats
}

// RenderToString renders tree to hydratable HTML. The first root element
// carries data-reactroot and adjacent text is separated by comments.
func RenderToString(ctx context.Context, tree *vdom.VNode, opts ...Option) (*Result, error) {
	return render(ctx, tree, ModeString, opts)
}

// RenderToStaticMarkup renders tree to plain HTML with no hydration
// markers and no cache data.
func RenderToStaticMarkup(ctx context.Context, tree *vdom.VNode, opts ...Option) (*Result, error) {
	return render(ctx, tree, ModeStatic, opts)
}

func render(ctx context.Context, tree *vdom.VNode, mode Mode, opts []Option) (*Result, error) {
	cfg := newConfig(opts)
	static := mode == ModeStatic

	ctx, span := cfg.tracer.Start(ctx, "render."+string(mode),
		trace.WithAttributes(attribute.String("render.mode", string(mode))),
	)
	defer span.End()

	begin := time.Now()
	res, err := run(ctx, tree, static, cfg)
	elapsed := time.Since(begin)

	if cfg.metrics != nil {
		cfg.metrics.ObserveRender(mode, elapsed, res.Stats, err)
	}
	span.SetAttributes(
		attribute.Int("render.passes", res.Stats.Passes),
		attribute.Int("render.suspensions", res.Stats.Suspensions),
		attribute.Int("render.forced_fallbacks", res.Stats.ForcedFallbacks),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cfg.logger.Debug("render complete", "mode", mode, "duration", elapsed, "passes", res.Stats.Passes)
	return res, nil
}

// run always returns a non-nil Result so its stats can be recorded on
// failure.
func run(ctx context.Context, tree *vdom.VNode, static bool, cfg *config) (*Result, error) {
	c := cfg.cache
	if c == nil {
		c = cfg.newCache()
	}
	res := &Result{Cache: c}

	var adapterOpts []host.AdapterOption
	if cfg.frameBudget > 0 {
		adapterOpts = append(adapterOpts, host.WithFrameBudget(cfg.frameBudget))
	}
	e := engine.New(host.NewAdapter(adapterOpts...), host.NewContainer(static),
		engine.WithMaxWait(cfg.maxWait),
		engine.WithLogger(cfg.logger),
		engine.WithCapabilities(cfg.caps),
		engine.WithDevMode(cfg.dev),
	)

	err := e.Render(cache.NewContext(ctx, c), tree)
	res.Stats = e.Stats()
	if err != nil {
		return res, err
	}

	html, err := markup.Serialize(e.Container(), static)
	if err != nil {
		return res, err
	}
	res.Markup = html
	if static {
		return res, nil
	}

	data, skipped, err := c.SerializeSettled()
	if err != nil {
		return res, err
	}
	if skipped > 0 {
		cfg.logger.Warn("cache data omits unsettled records", "pending", skipped)
	}
	res.Pending = skipped
	res.MarkupWithCacheData = html + cache.EmbedScript(data, cfg.embed)
	return res, nil
}
