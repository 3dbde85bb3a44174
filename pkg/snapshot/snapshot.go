// Package snapshot stores finished renders so a page can be served, or its
// cache data reused, without rendering again.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/render"
)

// ErrNotFound is returned when no snapshot is stored under a key.
var ErrNotFound = errors.New("snapshot: not found")

// ErrInvalidKey is returned for keys that are empty or contain characters
// other than letters, digits, '-', '_' and '.'.
var ErrInvalidKey = errors.New("snapshot: invalid key")

// Snapshot is one stored render.
type Snapshot struct {
	Key       string    `json:"key"`
	Markup    string    `json:"markup"`
	CacheData string    `json:"cacheData,omitempty"`
	Static    bool      `json:"static,omitempty"`
	Pending   int       `json:"pending,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromResult builds a snapshot of res. The cache data is the settled part of
// the render's cache; records still in flight are left out.
func FromResult(key string, res *render.Result, static bool) (*Snapshot, error) {
	snap := &Snapshot{
		Key:       key,
		Markup:    res.Markup,
		Static:    static,
		Pending:   res.Pending,
		CreatedAt: time.Now().UTC(),
	}
	if static || res.Cache == nil {
		return snap, nil
	}
	data, _, err := res.Cache.SerializeSettled()
	if err != nil {
		return nil, err
	}
	snap.CacheData = data
	return snap, nil
}

// Cache rebuilds the render cache stored in the snapshot.
func (s *Snapshot) Cache(opts ...cache.Option) (*cache.Cache, error) {
	if s.CacheData == "" {
		return cache.New(opts...), nil
	}
	return cache.NewFromData(s.CacheData, opts...)
}

// MarkupWithCacheData returns the markup followed by the embedded cache
// script, as a string render would have produced it.
func (s *Snapshot) MarkupWithCacheData(opts cache.EmbedOptions) string {
	if s.Static {
		return s.Markup
	}
	data := s.CacheData
	if data == "" {
		data = "{}"
	}
	return s.Markup + cache.EmbedScript(data, opts)
}

// Store persists snapshots by key.
type Store interface {
	Put(ctx context.Context, snap *Snapshot) error
	Get(ctx context.Context, key string) (*Snapshot, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

// ValidateKey reports whether key can name a snapshot in every store.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}

func encode(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode %s: %w", snap.Key, err)
	}
	return data, nil
}

func decode(key string, data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", key, err)
	}
	return &snap, nil
}
