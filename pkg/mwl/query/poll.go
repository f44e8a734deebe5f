package query

import (
	"context"
	"sync"
)

// Poller is a running subscription created by Cache.Poll. It is owned by
// whoever started it and must be stopped by them.
type Poller struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Poll fetches key now and then on every RefetchInterval tick, handing each
// result to onResult. Results that arrive after Stop are dropped. onResult
// runs on the poller goroutine and must not call Stop.
func (c *Cache[T]) Poll(ctx context.Context, key string, fetch Fetcher[T], onResult func(Result[T])) *Poller {
	ctx, cancel := context.WithCancel(ctx)
	p := &Poller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		deliver := func(r Result[T]) {
			if ctx.Err() == nil {
				onResult(r)
			}
		}

		if c.policy.RefetchInterval <= 0 {
			deliver(c.Get(ctx, key, fetch))
			<-ctx.Done()
			return
		}

		ticker := c.clock.NewTicker(c.policy.RefetchInterval)
		defer ticker.Stop()

		deliver(c.Get(ctx, key, fetch))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				deliver(c.Refetch(ctx, key, fetch))
			}
		}
	}()
	return p
}

// Stop ends polling and waits for the poller goroutine to exit.
func (p *Poller) Stop() {
	p.once.Do(p.cancel)
	<-p.done
}

// Done is closed once the poller has exited.
func (p *Poller) Done() <-chan struct{} { return p.done }
