package query

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestPoll_RefetchesOnInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := newTestCache(clock, Policy{StaleTime: 10 * time.Second, RefetchInterval: 30 * time.Second})
	var calls int32
	fetch := func(ctx context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "v", nil
	}
	results := make(chan Result[string], 8)
	p := c.Poll(context.Background(), "k", fetch, func(r Result[string]) { results <- r })

	first := <-results
	if first.Data != "v" {
		t.Fatalf("unexpected first result: %+v", first)
	}
	clock.BlockUntil(1)

	// The data is still fresh, polling fetches anyway.
	clock.Advance(30 * time.Second)
	select {
	case <-results:
	case <-time.After(2 * time.Second):
		t.Fatal("no result after first tick")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}

	p.Stop()
	clock.Advance(30 * time.Second)
	select {
	case r := <-results:
		t.Fatalf("result delivered after Stop: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("fetch after Stop: %d", got)
	}
}

func TestPoll_StopsWithContext(t *testing.T) {
	c := newTestCache(clockwork.NewFakeClock(), Policy{RefetchInterval: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	p := c.Poll(ctx, "k", func(ctx context.Context) (string, error) { return "v", nil }, func(Result[string]) {})
	cancel()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not exit on context cancel")
	}
	p.Stop()
}
