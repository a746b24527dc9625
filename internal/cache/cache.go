// Package cache is a keyed read-through cache for query results. Keys are
// structural: a resource kind plus the canonical JSON of the query
// parameters, so two field-for-field-equal parameter sets share an entry.
//
// Behavior per key:
//   - at most one loader in flight at a time (concurrent readers coalesce)
//   - a successful result stays fresh for its TTL
//   - a stale entry is served immediately while a background refresh runs
//   - a failed load is retried once before the error is surfaced, and the
//     failure never poisons the entry
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	group   singleflight.Group
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
}

// Key builds a structural cache key from a resource kind and its query
// parameters. Params must be JSON-marshalable; callers are expected to
// normalize them (ordering of sets) before keying.
func Key(kind string, params any) string {
	if params == nil {
		return kind
	}
	raw, err := json.Marshal(params)
	if err != nil {
		// Unmarshalable params should never happen for our value types;
		// fall back to an uncacheable-looking but stable-enough key.
		return fmt.Sprintf("%s:%v", kind, params)
	}
	return kind + ":" + string(raw)
}

// Get returns the value for key, invoking loader when there is no fresh
// entry. A stale entry is returned immediately and refreshed in the
// background. If the caller's context is cancelled while waiting for a
// blocking load, ctx.Err() is returned and the in-flight result is
// discarded for this caller (it still lands in the cache for others).
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if time.Now().Before(e.expiresAt) {
			return e.value, nil
		}
		c.refreshAsync(ctx, key, ttl, loader)
		return e.value, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(context.WithoutCancel(ctx), key, ttl, loader)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refreshAsync kicks off a detached reload; singleflight guarantees only
// one refresh per key runs no matter how many stale readers trigger it.
func (c *Cache) refreshAsync(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) {
	background := context.WithoutCancel(ctx)
	go c.group.Do(key, func() (any, error) {
		return c.load(background, key, ttl, loader)
	})
}

// load runs the loader with a single retry and stores the result on success.
// The store is skipped when the key was invalidated while the load was in
// flight: the result may predate the mutation, so it is handed back to the
// waiters that asked for it but never retained.
func (c *Cache) load(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) (any, error)) (any, error) {
	gen := c.beginLoad(key)

	value, err := loader(ctx)
	if err != nil {
		value, err = loader(ctx)
	}
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	}
	c.mu.Unlock()
	return value, nil
}

// beginLoad snapshots the key's generation so the store above can detect an
// invalidation that raced the loader.
func (c *Cache) beginLoad(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.gens[key]; !ok {
		c.gens[key] = 1
	}
	return c.gens[key]
}

// Invalidate drops every entry whose key starts with prefix. Mutations call
// this before returning so the acting client's next read refetches. The
// generation bump plus Forget cut in-flight loads out of the picture: a read
// issued after this call starts a fresh load instead of coalescing into a
// flight that began before the mutation, and such a flight cannot store its
// stale result.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	for key := range c.gens {
		if strings.HasPrefix(key, prefix) {
			c.gens[key]++
			c.group.Forget(key)
		}
	}
}

// Len reports the number of retained entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get is the typed read-through entry point; see Cache.Get.
func Get[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	value, err := c.Get(ctx, key, ttl, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: key %q holds %T", key, value)
	}
	return typed, nil
}
