package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// NoKey is the key used when a resource is read without one.
const NoKey = "NO_KEY"

// Resource is a named, typed view over a Cache. The zero value is not
// usable; create one with NewResource.
//
// Methods returning a *Resource return a configured copy, so a package-level
// resource can be refined without affecting other users.
type Resource[K any, V any] struct {
	name     string
	load     func(context.Context, K) (V, error)
	hash     func(K) string
	suspends bool
	timeout  time.Duration
}

// NewResource creates a suspending resource named name. Names must be
// unique per Cache; two resources with the same name share records.
func NewResource[K any, V any](name string, load func(context.Context, K) (V, error)) *Resource[K, V] {
	return &Resource[K, V]{
		name:     name,
		load:     load,
		suspends: true,
	}
}

// WithHash sets the function that derives the cache key from K.
func (r *Resource[K, V]) WithHash(hash func(K) string) *Resource[K, V] {
	cp := *r
	cp.hash = hash
	return &cp
}

// WithoutSuspense makes reads of a pending record return the operation
// instead of suspending.
func (r *Resource[K, V]) WithoutSuspense() *Resource[K, V] {
	cp := *r
	cp.suspends = false
	return &cp
}

// WithTimeout rejects a load with ErrLoadTimeout if it has not settled
// within d. A non-positive d disables the timeout.
func (r *Resource[K, V]) WithTimeout(d time.Duration) *Resource[K, V] {
	cp := *r
	cp.timeout = d
	return &cp
}

// Name returns the resource name.
func (r *Resource[K, V]) Name() string { return r.name }

// Suspends reports whether reads suspend on pending records.
func (r *Resource[K, V]) Suspends() bool { return r.suspends }

// Key returns the cache key for k: the hash function's result if one is
// set, otherwise the default formatting of k. Empty and nil keys map to
// NoKey.
func (r *Resource[K, V]) Key(k K) string {
	var key string
	if r.hash != nil {
		key = r.hash(k)
	} else if v := any(k); !isNil(v) {
		key = fmt.Sprint(v)
	}
	if key == "" {
		return NoKey
	}
	return key
}

// Get peeks at the record for k without loading.
func (r *Resource[K, V]) Get(c *Cache, k K) (V, *Operation, error) {
	var zero V
	raw, op, err := c.Get(r.name, r.Key(k))
	if err != nil || op != nil || raw == nil {
		return zero, op, err
	}
	v, err := r.decode(raw)
	return v, nil, err
}

// Read returns the value for k, loading it on first use. See Cache.Read.
func (r *Resource[K, V]) Read(ctx context.Context, c *Cache, k K) (V, *Operation, error) {
	var zero V
	raw, op, err := c.Read(ctx, r.name, r.Key(k), r.loader(k), r.suspends)
	if err != nil || op != nil {
		return zero, op, err
	}
	v, err := r.decode(raw)
	return v, nil, err
}

// Preload starts loading k if it has never been requested.
func (r *Resource[K, V]) Preload(ctx context.Context, c *Cache, k K) {
	c.Preload(ctx, r.name, r.Key(k), r.loader(k))
}

func (r *Resource[K, V]) loader(k K) LoadFunc {
	load := func(ctx context.Context) (any, error) {
		v, err := r.load(ctx, k)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	if r.timeout <= 0 {
		return load
	}
	timeout := r.timeout
	return func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		type result struct {
			v   any
			err error
		}
		ch := make(chan result, 1)
		go func() {
			v, err := safeLoad(ctx, load)
			ch <- result{v, err}
		}()
		select {
		case res := <-ch:
			return res.v, res.err
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s after %s", ErrLoadTimeout, r.name, timeout)
		}
	}
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, func,
// chan or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// decode converts a stored value to V. Values restored by Deserialize are
// json.RawMessage and are unmarshaled on each access, unless V is itself
// json.RawMessage.
func (r *Resource[K, V]) decode(raw any) (V, error) {
	var zero V
	if data, ok := raw.(json.RawMessage); ok {
		if _, wantRaw := any(zero).(json.RawMessage); !wantRaw {
			var out V
			if err := json.Unmarshal(data, &out); err != nil {
				return zero, fmt.Errorf("cache: decode %s: %w", r.name, err)
			}
			return out, nil
		}
	}
	switch v := raw.(type) {
	case V:
		return v, nil
	case nil:
		return zero, nil
	default:
		return zero, fmt.Errorf("cache: %s holds %T, want %T", r.name, raw, zero)
	}
}
