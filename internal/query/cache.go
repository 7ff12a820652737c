package query

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/quantdash/internal/common"
)

// Status is the observable lifecycle of a key.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a snapshot of a key.
type State struct {
	Status    Status
	Data      any
	Err       error
	UpdatedAt time.Time
}

// Producer fetches the value for a key.
type Producer func(ctx context.Context) (any, error)

// generation orders invalidations of a key. Clear starts a new epoch.
type generation struct {
	epoch uint64
	n     uint64
}

func (g generation) before(o generation) bool {
	if g.epoch != o.epoch {
		return g.epoch < o.epoch
	}
	return g.n < o.n
}

// flight is what a producer run hands to its requesters.
type flight struct {
	val any
	gen generation
}

type entry struct {
	status    Status
	data      any
	err       error
	updatedAt time.Time
}

// Cache stores one entry per key. At most one producer runs per key at a time
// and every concurrent requester receives the same value.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	gens    map[string]uint64
	epoch   uint64
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
	logger  *common.Logger
}

// Option configures the cache
type Option func(*Cache)

// WithTTL sets the freshness window. Zero keeps entries for the life of the cache.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
		now:     time.Now,
		logger:  common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fresh returns the cached value for k when present and within the TTL.
func (c *Cache) fresh(k string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[k]
	if !ok || e.status != StatusSuccess {
		return nil, false
	}
	if !common.IsFresh(e.updatedAt, c.ttl, c.now()) {
		return nil, false
	}
	return e.data, true
}

// Fetch returns the fresh cached value for key, or runs produce once and
// shares its result with all concurrent requesters of the same key.
//
// The producer runs detached from ctx: a requester that gives up returns
// ctx.Err() while the producer completes and populates the cache.
// Errors are reported to waiting requesters and recorded in State, but not cached.
//
// A requester that arrives after Invalidate waits for the flight already in
// progress, then starts a new one; its result is never the invalidated one.
func (c *Cache) Fetch(ctx context.Context, key Key, produce Producer) (any, error) {
	k := key.String()
	detached := context.WithoutCancel(ctx)

	for {
		if v, ok := c.fresh(k); ok {
			return v, nil
		}
		want := c.generation(k)

		ch := c.group.DoChan(k, func() (any, error) {
			// Another flight may have filled the entry between the read above and now.
			if v, ok := c.fresh(k); ok {
				return flight{val: v, gen: c.generation(k)}, nil
			}
			gen := c.setLoading(k)
			c.logger.Debug().Str("key", k).Msg("query: fetching")

			v, err := produce(detached)
			c.settle(k, gen, v, err)
			return flight{val: v, gen: gen}, err
		})

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-ch:
			f, _ := res.Val.(flight)
			if f.gen.before(want) {
				continue
			}
			return f.val, res.Err
		}
	}
}

func (c *Cache) generation(k string) generation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return generation{epoch: c.epoch, n: c.gens[k]}
}

func (c *Cache) setLoading(k string) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{}
		c.entries[k] = e
	}
	e.status = StatusLoading
	e.err = nil
	return generation{epoch: c.epoch, n: c.gens[k]}
}

func (c *Cache) settle(k string, gen generation, v any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != (generation{epoch: c.epoch, n: c.gens[k]}) {
		c.logger.Debug().Str("key", k).Msg("query: dropping result of invalidated fetch")
		return
	}
	e, ok := c.entries[k]
	if !ok {
		e = &entry{}
		c.entries[k] = e
	}
	if err != nil {
		c.logger.Warn().Str("key", k).Err(err).Msg("query: fetch failed")
		e.status = StatusError
		e.err = err
		e.data = nil
		e.updatedAt = time.Time{}
		return
	}
	e.status = StatusSuccess
	e.data = v
	e.err = nil
	e.updatedAt = c.now()
}

// State returns the snapshot for key. Unknown keys are idle.
func (c *Cache) State(key Key) State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return State{Status: StatusIdle}
	}
	return State{Status: e.status, Data: e.data, Err: e.err, UpdatedAt: e.updatedAt}
}

// Invalidate drops the entry for key so the next Fetch re-runs the producer.
// A producer already running for key finishes, but its result is discarded.
func (c *Cache) Invalidate(key Key) {
	k := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, k)
	c.gens[k]++
}

// Clear drops every entry and discards the results of running producers.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.gens = make(map[string]uint64)
	c.epoch++
}

// Sweep removes expired and failed entries. Loading entries are kept.
// It returns the number of entries removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		switch e.status {
		case StatusError:
		case StatusSuccess:
			if common.IsFresh(e.updatedAt, c.ttl, now) {
				continue
			}
		default:
			continue
		}
		delete(c.entries, k)
		removed++
	}
	if removed > 0 {
		c.logger.Debug().Int("removed", removed).Msg("query: sweep")
	}
	return removed
}

// Len reports the number of tracked keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get is the typed form of Fetch.
func Get[T any](ctx context.Context, c *Cache, key Key, produce func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return produce(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}
