package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/host"
	"github.com/vango-dev/prerender/pkg/markup"
	"github.com/vango-dev/prerender/pkg/vdom"
)

// Stats counts the work done by one Engine.
type Stats struct {
	Passes          int
	Commits         int
	Suspensions     int
	ForcedFallbacks int
	Yields          int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxWait bounds the time Render waits on suspended data. When it
// elapses every suspended boundary commits its fallback. Zero waits until
// ctx is done.
func WithMaxWait(d time.Duration) Option {
	return func(e *Engine) { e.maxWait = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCapabilities overrides capability slots. Nil slots keep the server
// defaults.
func WithCapabilities(c Capabilities) Option {
	return func(e *Engine) { e.caps = c }
}

// WithDevMode enables development warnings.
func WithDevMode(dev bool) Option {
	return func(e *Engine) { e.dev = dev }
}

// Engine renders vdom trees into a container through a HostConfig. It
// talks to the markup tree only through the host, so any HostConfig
// implementation can back it. An Engine drives one render at a time.
type Engine struct {
	host      host.HostConfig
	container *markup.Node
	logger    *slog.Logger
	caps      Capabilities
	maxWait   time.Duration
	dev       bool

	committed  []*instance
	boundaries map[string]*boundaryState
	stats      Stats
}

// New creates an Engine committing into container.
func New(h host.HostConfig, container *markup.Node, opts ...Option) *Engine {
	e := &Engine{
		host:       h,
		container:  container,
		boundaries: make(map[string]*boundaryState),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "engine")
	}
	e.caps = e.caps.merge(ServerCapabilities(e.logger, e.dev))
	return e
}

// Container returns the node the engine commits into.
func (e *Engine) Container() *markup.Node { return e.container }

// Stats returns the work counters.
func (e *Engine) Stats() Stats { return e.stats }

func (e *Engine) boundary(path string) *boundaryState {
	st, ok := e.boundaries[path]
	if !ok {
		st = &boundaryState{path: path}
		e.boundaries[path] = st
	}
	return st
}

// Render renders tree until a commit has no unresolved suspensions.
//
// Every pass is committed, so a suspended boundary shows its fallback
// until its data arrives. A boundary whose MaxDuration elapses, or every
// boundary once the render's maximum wait elapses, keeps its fallback for
// good. A suspension outside any boundary that is still unresolved at the
// maximum wait fails with ErrUnresolvedSuspension.
func (e *Engine) Render(ctx context.Context, tree *vdom.VNode) error {
	ctx = withCapabilities(ctx, e.caps)
	start := e.host.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p := &pass{e: e}
		e.stats.Passes++
		nodes, err := p.build(ctx, tree, "0", &p.root)
		if err != nil {
			return err
		}
		if err := e.commit(nodes); err != nil {
			return err
		}
		if p.complete() {
			return nil
		}

		sus := p.suspensions()
		e.stats.Suspensions += len(sus)
		e.logger.Debug("render suspended", "pass", e.stats.Passes, "suspensions", len(sus))

		next, bounded := e.nextDeadline(p, start)
		timedOut, err := e.wait(ctx, sus, next, bounded)
		if err != nil {
			return err
		}
		if !timedOut {
			continue
		}
		if err := e.expire(p, start, next); err != nil {
			return err
		}
	}
}

// nextDeadline returns the earliest deadline among the suspended
// boundaries and the render's maximum wait.
func (e *Engine) nextDeadline(p *pass, start time.Duration) (time.Duration, bool) {
	var (
		next    time.Duration
		bounded bool
	)
	consider := func(d time.Duration) {
		if !bounded || d < next {
			next, bounded = d, true
		}
	}
	if e.maxWait > 0 {
		consider(start + e.maxWait)
	}
	for _, sb := range p.suspended {
		if d, ok := sb.state.deadline(); ok {
			consider(d)
		}
	}
	return next, bounded
}

// wait blocks until every suspended operation settles or the deadline
// passes. The timer runs on the host scheduler.
func (e *Engine) wait(ctx context.Context, sus []*cache.Suspension, deadline time.Duration, bounded bool) (bool, error) {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var expired atomic.Bool
	if bounded {
		delay := deadline - e.host.Now()
		if delay <= 0 {
			return true, nil
		}
		id := e.host.ScheduleCallback(delay, func() {
			expired.Store(true)
			cancel()
		})
		defer e.host.CancelCallback(id)
	}

	g, gctx := errgroup.WithContext(wctx)
	for _, s := range sus {
		op := s.Op
		g.Go(func() error {
			select {
			case <-op.Done():
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		if expired.Load() {
			return true, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, err
	}
	return false, nil
}

// expire forces the fallbacks of boundaries past their deadline.
func (e *Engine) expire(p *pass, start, reached time.Duration) error {
	now := e.host.Now()
	if reached > now {
		now = reached
	}
	renderExpired := e.maxWait > 0 && now >= start+e.maxWait

	for _, sb := range p.suspended {
		d, ok := sb.state.deadline()
		if renderExpired || (ok && now >= d) {
			sb.state.forced = true
			e.stats.ForcedFallbacks++
			e.logger.Info("suspense fallback committed", "boundary", sb.state.path, "waited", now-sb.state.suspendedAt)
		}
	}
	if renderExpired && len(p.root.suspensions) > 0 {
		return unresolved(p.root.suspensions)
	}
	return nil
}
