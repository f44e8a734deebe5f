package crossref

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/query"
)

// CachedQuoter serves quotes from a query.Cache keyed by symbol. Quotes
// younger than ttl are returned without a call; older ones are returned
// while a background refetch runs.
type CachedQuoter struct {
	next  Quoter
	cache *query.Cache[Quote]
}

func NewCachedQuoter(next Quoter, ttl time.Duration, clock clockwork.Clock, log *slog.Logger) *CachedQuoter {
	return &CachedQuoter{
		next:  next,
		cache: query.NewCache[Quote]("yahooQuote", query.Policy{StaleTime: ttl}, clock, log),
	}
}

func (c *CachedQuoter) Quote(ctx context.Context, sym string) (Quote, error) {
	res := c.cache.Get(ctx, sym, func(ctx context.Context) (Quote, error) {
		return c.next.Quote(ctx, sym)
	})
	if res.HasData {
		return res.Data, nil
	}
	if res.Err != nil {
		return Quote{}, res.Err
	}
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	return Quote{}, fmt.Errorf("no quote for %s", sym)
}
