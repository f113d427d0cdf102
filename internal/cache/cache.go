// Package cache is a key-addressed, TTL-aware store of server-derived
// objects. It serves previously fetched values without redundant network
// calls while bounding staleness, and supports optimistic writes with
// versioned rollback so local state stays consistent with server mutations.
//
// Every entry carries two deadlines: past staleAfter the value is still
// served but a background refresh is scheduled; past evictAfter the value is
// never served and the caller's loader runs in the foreground.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskdeck/internal/clock"
)

// Loader fetches the authoritative value for a key.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	value      any
	fetchedAt  time.Time
	staleAfter time.Time
	evictAfter time.Time
	version    uint64
	reloading  bool
}

// Token captures the state needed to undo one optimistic write.
// A token becomes stale as soon as any later write lands on the same key.
type Token struct {
	key     string
	prev    any
	written uint64
	valid   bool
}

// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu      sync.Mutex
	clk     clock.Clock
	entries map[string]*entry
	version uint64
}

// New creates an empty cache on the given clock.
func New(clk clock.Clock) *Cache {
	return &Cache{
		clk:     clk,
		entries: make(map[string]*entry),
	}
}

func (c *Cache) bumpLocked() uint64 {
	c.version++
	return c.version
}

// Read returns the value for key. An unexpired entry is returned
// immediately; if it is past its stale deadline a background refresh is also
// scheduled, and refresh errors never disturb the served value. A missing or
// evicted entry blocks on load, and a load error propagates to the caller.
func (c *Cache) Read(ctx context.Context, key string, load Loader, stale, evict time.Duration) (any, error) {
	c.mu.Lock()
	now := c.clk.Now()
	if e, ok := c.entries[key]; ok && now.Before(e.evictAfter) {
		v := e.value
		if !now.Before(e.staleAfter) && !e.reloading {
			e.reloading = true
			// The refresh must outlive the caller: other readers depend
			// on this entry even after the triggering request is gone.
			go c.reload(context.WithoutCancel(ctx), key, load, stale, evict)
		}
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.Put(key, v, stale, evict)
	return v, nil
}

// reload replaces the entry on success and keeps the last-good value on
// failure.
func (c *Cache) reload(ctx context.Context, key string, load Loader, stale, evict time.Duration) {
	v, err := load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.reloading = false
	if err != nil {
		return
	}
	now := c.clk.Now()
	e.value = v
	e.fetchedAt = now
	e.staleAfter = now.Add(stale)
	e.evictAfter = now.Add(evict)
	e.version = c.bumpLocked()
}

// Put stores an authoritative value for key.
func (c *Cache) Put(key string, v any, stale, evict time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clk.Now()
	c.entries[key] = &entry{
		value:      v,
		fetchedAt:  now,
		staleAfter: now.Add(stale),
		evictAfter: now.Add(evict),
		version:    c.bumpLocked(),
	}
}

// Invalidate marks the entry stale immediately, forcing the next Read to
// trigger a refresh. The current value stays servable until the refresh
// lands, so callers never see the key flash empty.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.staleAfter = c.clk.Now()
	}
}

// Settle reconciles key with the server after a mutation resolves, success
// or failure, regardless of whether a rollback happened in between.
func (c *Cache) Settle(key string) {
	c.Invalidate(key)
}

// OptimisticWrite applies patch to the cached value so readers see the
// mutation before the backing server call resolves. The returned token
// undoes the write; ok is false when there is nothing cached to patch.
func (c *Cache) OptimisticWrite(key string, patch func(any) any) (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.clk.Now().Before(e.evictAfter) {
		return Token{}, false
	}
	prev := e.value
	e.value = patch(prev)
	e.version = c.bumpLocked()
	return Token{key: key, prev: prev, written: e.version, valid: true}, true
}

// Rollback restores the token's captured value, unless a later write has
// already replaced the token's own; a stale token is discarded and Rollback
// reports false.
func (c *Cache) Rollback(tok Token) bool {
	if !tok.valid {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[tok.key]
	if !ok || e.version != tok.written {
		return false
	}
	e.value = tok.prev
	e.version = c.bumpLocked()
	return true
}

// Read loads a typed value through c. It exists so callers do not repeat the
// any-to-T assertion at every call site.
func Read[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error), stale, evict time.Duration) (T, error) {
	v, err := c.Read(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	}, stale, evict)
	if err != nil {
		var zero T
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected value type %T for key %q", v, key)
	}
	return t, nil
}
