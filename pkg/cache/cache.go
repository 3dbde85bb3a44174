package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/prerender/pkg/cache"

// LoadFunc starts the asynchronous fetch for one record.
type LoadFunc func(ctx context.Context) (any, error)

// Observer receives cache events. Implementations must be safe for
// concurrent use; LoadSettled is called from the load goroutine.
type Observer interface {
	// Lookup is called for every Get/Read with the status found.
	Lookup(resource string, status Status)
	// LoadStarted is called when a record moves from Empty to Pending.
	LoadStarted(resource string)
	// LoadSettled is called once per load with its duration and error.
	LoadSettled(resource string, d time.Duration, err error)
}

// Option configures a Cache.
type Option func(*Cache)

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(c *Cache) { c.observer = o }
}

// WithTracer sets the tracer used for load spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Cache) { c.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// Cache stores resource records keyed by resource name, then key.
//
// A Cache belongs to one render. It may be handed to a later render (or
// seeded from serialized data) to reuse results without refetching, but it
// must not be shared by concurrent renders.
type Cache struct {
	mu      sync.Mutex
	records map[string]map[string]*record

	observer Observer
	tracer   trace.Tracer
	logger   *slog.Logger
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		records: make(map[string]map[string]*record),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "cache")
	}
	return c
}

// NewFromData creates a Cache seeded with serialized data, typically read
// back from a page for a rehydration render.
func NewFromData(data string, opts ...Option) (*Cache, error) {
	c := New(opts...)
	if err := c.Deserialize(data); err != nil {
		return nil, err
	}
	return c, nil
}

// lookup returns the record for (name, key), or nil. Callers hold c.mu.
func (c *Cache) lookup(name, key string) *record {
	if byKey, ok := c.records[name]; ok {
		return byKey[key]
	}
	return nil
}

// recordFor returns the record for (name, key), creating an Empty one.
// Callers hold c.mu.
func (c *Cache) recordFor(name, key string) *record {
	byKey, ok := c.records[name]
	if !ok {
		byKey = make(map[string]*record)
		c.records[name] = byKey
	}
	rec, ok := byKey[key]
	if !ok {
		rec = &record{status: Empty}
		byKey[key] = rec
	}
	return rec
}

// Status returns the status of (name, key) without side effects.
func (c *Cache) Status(name, key string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rec := c.lookup(name, key); rec != nil {
		return rec.status
	}
	return Empty
}

// Get peeks at a record without ever starting a load.
//
// Resolved returns the value, Rejected returns the stored error, Pending
// returns the in-flight operation, Empty returns all zero values.
func (c *Cache) Get(name, key string) (any, *Operation, error) {
	c.mu.Lock()
	rec := c.lookup(name, key)
	status := Empty
	var (
		value any
		op    *Operation
		err   error
	)
	if rec != nil {
		status = rec.status
		value, op, err = rec.value, rec.op, rec.err
	}
	c.mu.Unlock()

	c.observeLookup(name, status)
	switch status {
	case Resolved:
		return value, nil, nil
	case Rejected:
		return nil, nil, err
	case Pending:
		return nil, op, nil
	default:
		return nil, nil, nil
	}
}

// Read returns the value of (name, key), loading it if needed.
//
// An Empty record starts load and moves to Pending. While Pending, a
// suspending read returns a *Suspension error wrapping the in-flight
// operation; a non-suspending read returns the operation with a nil error.
// Resolved returns the value and Rejected re-raises the stored error on
// every call. At most one load per key is ever in flight.
func (c *Cache) Read(ctx context.Context, name, key string, load LoadFunc, suspend bool) (any, *Operation, error) {
	c.mu.Lock()
	rec := c.recordFor(name, key)
	status := rec.status
	if status == Empty {
		c.start(ctx, rec, name, key, load)
	}
	value, op, err := rec.value, rec.op, rec.err
	c.mu.Unlock()

	c.observeLookup(name, status)
	switch status {
	case Resolved:
		return value, nil, nil
	case Rejected:
		return nil, nil, err
	}
	// Empty (load just started) or Pending.
	if suspend {
		return nil, op, &Suspension{Resource: name, Key: key, Op: op}
	}
	return nil, op, nil
}

// Preload starts the load of an Empty record. It is a no-op otherwise and
// never suspends.
func (c *Cache) Preload(ctx context.Context, name, key string, load LoadFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.recordFor(name, key)
	if rec.status == Empty {
		c.start(ctx, rec, name, key, load)
	}
}

// start moves rec to Pending and runs load on its own goroutine. The load
// context keeps ctx's values but not its cancellation: loads always run to
// completion. Callers hold c.mu.
func (c *Cache) start(ctx context.Context, rec *record, name, key string, load LoadFunc) {
	op := newOperation()
	rec.status = Pending
	rec.op = op

	if c.observer != nil {
		c.observer.LoadStarted(name)
	}

	loadCtx := context.WithoutCancel(ctx)
	go c.run(loadCtx, rec, op, name, key, load)
}

func (c *Cache) run(ctx context.Context, rec *record, op *Operation, name, key string, load LoadFunc) {
	ctx, span := c.tracer.Start(ctx, "cache.load", trace.WithAttributes(
		attribute.String("resource.name", name),
		attribute.String("resource.key", key),
	))
	defer span.End()

	begin := time.Now()
	value, err := safeLoad(ctx, load)
	elapsed := time.Since(begin)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("resource load rejected", "resource", name, "key", key, "error", err, "duration", elapsed)
	} else {
		c.logger.Debug("resource load resolved", "resource", name, "key", key, "duration", elapsed)
	}

	c.mu.Lock()
	// A Deserialize may have replaced storage meanwhile; the write then
	// lands on a detached record and is harmless.
	if rec.status == Pending && rec.op == op {
		rec.op = nil
		if err != nil {
			rec.status = Rejected
			rec.err = err
		} else {
			rec.status = Resolved
			rec.value = value
		}
	}
	c.mu.Unlock()

	op.settle(value, err)

	if c.observer != nil {
		c.observer.LoadSettled(name, elapsed, err)
	}
}

func safeLoad(ctx context.Context, load LoadFunc) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fmt.Errorf("%w: %v", ErrLoadPanic, r)
		}
	}()
	return load(ctx)
}

func (c *Cache) observeLookup(name string, status Status) {
	if c.observer != nil {
		c.observer.Lookup(name, status)
	}
}

// InFlight returns the operations of all records still in flight.
func (c *Cache) InFlight() []*Operation {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ops []*Operation
	for _, byKey := range c.records {
		for _, rec := range byKey {
			if rec.status == Pending && rec.op != nil {
				ops = append(ops, rec.op)
			}
		}
	}
	return ops
}

// Settle blocks until every in-flight load has settled or ctx is done.
// Call it before Serialize when output is embedded into a page.
func (c *Cache) Settle(ctx context.Context) error {
	for {
		ops := c.InFlight()
		if len(ops) == 0 {
			return nil
		}
		for _, op := range ops {
			select {
			case <-op.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
