// Package query caches provider calls per key with a staleness window,
// coalesces concurrent fetches of the same key, and polls on request.
package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Fetcher loads the value for one key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Policy controls freshness, polling and retry for a Cache.
type Policy struct {
	// StaleTime is how long fetched data is served without refetching.
	StaleTime time.Duration
	// RefetchInterval is the polling period used by Poll. Zero disables Poll.
	RefetchInterval time.Duration
	// Retry is the number of extra attempts after a failed fetch.
	Retry int
	// RetryDelay returns the wait before retry n (0-based). Nil means backoff.
	RetryDelay func(attempt int) time.Duration
}

// Result is what callers see for a key. It never carries a panic or a
// returned error; failures show up as IsError with the last good data kept.
type Result[T any] struct {
	Data       T
	HasData    bool
	IsLoading  bool // no data yet, fetch pending
	IsFetching bool // a fetch for the key is in flight
	IsError    bool
	Err        error
	UpdatedAt  time.Time
}

type entry[T any] struct {
	data    T
	hasData bool
	at      time.Time
	err     error
}

type call struct {
	done chan struct{}
}

// Cache is a keyed, time-based cache for one operation.
type Cache[T any] struct {
	name   string
	policy Policy
	clock  clockwork.Clock
	log    *slog.Logger

	mu       sync.Mutex
	entries  map[string]*entry[T]
	inflight map[string]*call
}

// NewCache returns an empty cache. A nil clock means the real clock and a
// nil logger means slog.Default().
func NewCache[T any](name string, policy Policy, clock clockwork.Clock, log *slog.Logger) *Cache[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache[T]{
		name:     name,
		policy:   policy,
		clock:    clock,
		log:      log.With("cache", name),
		entries:  make(map[string]*entry[T]),
		inflight: make(map[string]*call),
	}
}

// Get serves fresh data from the cache. Stale data is returned immediately
// while a background refetch runs; with no data at all Get waits for the
// fetch or for ctx.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch Fetcher[T]) Result[T] {
	c.mu.Lock()
	e := c.entries[key]
	if e != nil && e.hasData && c.freshLocked(e) {
		r := c.resultLocked(key)
		c.mu.Unlock()
		return r
	}
	cl := c.startLocked(ctx, key, fetch)
	if e != nil && e.hasData {
		r := c.resultLocked(key)
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()
	return c.await(ctx, key, cl)
}

// Refetch fetches regardless of freshness, joining a fetch already in flight.
func (c *Cache[T]) Refetch(ctx context.Context, key string, fetch Fetcher[T]) Result[T] {
	c.mu.Lock()
	cl := c.startLocked(ctx, key, fetch)
	c.mu.Unlock()
	return c.await(ctx, key, cl)
}

// Wait blocks until the in-flight fetch for key settles, if there is one.
func (c *Cache[T]) Wait(ctx context.Context, key string) Result[T] {
	c.mu.Lock()
	cl := c.inflight[key]
	if cl == nil {
		r := c.resultLocked(key)
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()
	return c.await(ctx, key, cl)
}

// Peek reports the current state for key without fetching.
func (c *Cache[T]) Peek(key string) Result[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultLocked(key)
}

// Invalidate marks key stale. Its data stays available.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.entries[key]; e != nil {
		e.at = time.Time{}
	}
}

func (c *Cache[T]) freshLocked(e *entry[T]) bool {
	if e.at.IsZero() {
		return false
	}
	return c.clock.Since(e.at) <= c.policy.StaleTime
}

func (c *Cache[T]) startLocked(ctx context.Context, key string, fetch Fetcher[T]) *call {
	if cl, ok := c.inflight[key]; ok {
		return cl
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	// Other callers may join this fetch, so one caller leaving must not
	// cancel it.
	go c.run(context.WithoutCancel(ctx), key, cl, fetch)
	return cl
}

func (c *Cache[T]) run(ctx context.Context, key string, cl *call, fetch Fetcher[T]) {
	v, err := c.fetchWithRetry(ctx, key, fetch)

	c.mu.Lock()
	e := c.entries[key]
	if e == nil {
		e = &entry[T]{}
		c.entries[key] = e
	}
	if err != nil {
		e.err = err
		c.log.Warn("fetch failed", "key", key, "err", err, "stale_data", e.hasData)
	} else {
		e.data = v
		e.hasData = true
		e.at = c.clock.Now()
		e.err = nil
	}
	delete(c.inflight, key)
	c.mu.Unlock()
	close(cl.done)
}

func (c *Cache[T]) fetchWithRetry(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		c.log.Debug("fetch", "key", key, "attempt", attempt)
		v, err := fetch(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= c.policy.Retry || ctx.Err() != nil {
			return zero, err
		}
		delay := backoff(attempt)
		if c.policy.RetryDelay != nil {
			delay = c.policy.RetryDelay(attempt)
		}
		if delay <= 0 {
			continue
		}
		select {
		case <-c.clock.After(delay):
		case <-ctx.Done():
			return zero, err
		}
	}
}

func (c *Cache[T]) await(ctx context.Context, key string, cl *call) Result[T] {
	select {
	case <-cl.done:
	case <-ctx.Done():
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultLocked(key)
}

func (c *Cache[T]) resultLocked(key string) Result[T] {
	var r Result[T]
	_, r.IsFetching = c.inflight[key]
	if e := c.entries[key]; e != nil {
		r.Data = e.data
		r.HasData = e.hasData
		r.UpdatedAt = e.at
		if e.err != nil {
			r.IsError = true
			r.Err = e.err
		}
	}
	r.IsLoading = !r.HasData && r.IsFetching
	return r
}

const (
	baseRetryDelay = 1 * time.Second
	maxRetryDelay  = 30 * time.Second
)

// backoff doubles from one second and caps at thirty.
func backoff(attempt int) time.Duration {
	if attempt < 0 {
		return baseRetryDelay
	}
	if attempt > 30 {
		return maxRetryDelay
	}
	d := baseRetryDelay * time.Duration(1<<attempt)
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}
