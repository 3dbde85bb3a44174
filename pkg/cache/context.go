package cache

import (
	"context"
	"errors"
)

type contextKey struct{}

// ContextKey is the provider key under which a render exposes its Cache to
// components. A provider for this key overrides the render's own cache for
// its subtree.
var ContextKey any = contextKey{}

// ErrNoCache is returned by Resource.Use when ctx carries no Cache.
var ErrNoCache = errors.New("cache: no cache in context")

// NewContext returns a copy of ctx carrying c.
func NewContext(ctx context.Context, c *Cache) context.Context {
	return context.WithValue(ctx, ContextKey, c)
}

// FromContext returns the Cache carried by ctx, if any.
func FromContext(ctx context.Context) (*Cache, bool) {
	c, ok := ctx.Value(ContextKey).(*Cache)
	return c, ok && c != nil
}

// Use reads k from the Cache carried by ctx. It is the usual way for a
// component to read a resource while rendering.
func (r *Resource[K, V]) Use(ctx context.Context, k K) (V, *Operation, error) {
	c, ok := FromContext(ctx)
	if !ok {
		var zero V
		return zero, nil, ErrNoCache
	}
	return r.Read(ctx, c, k)
}
