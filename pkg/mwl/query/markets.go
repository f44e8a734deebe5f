package query

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sourcegraph/conc/iter"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// MarketAPI is the provider surface the cache wraps. *coingecko.Client
// satisfies it.
type MarketAPI interface {
	ListMarkets(ctx context.Context, ids []string) ([]types.Cryptocurrency, error)
	Search(ctx context.Context, query string) ([]types.SearchResult, error)
	Details(ctx context.Context, id string) (*types.CryptoDetails, error)
	Chart(ctx context.Context, id string, days float64) (*types.ChartData, error)
}

// Policies holds one Policy per operation.
type Policies struct {
	List    Policy
	Search  Policy
	Details Policy
	Chart   Policy
}

// DefaultPolicies mirrors the dashboard: the list refreshes every 30s and is
// stale after 10s, search and charts keep for a minute, details for 30s.
func DefaultPolicies() Policies {
	return Policies{
		List:    Policy{StaleTime: 10 * time.Second, RefetchInterval: 30 * time.Second, Retry: 3},
		Search:  Policy{StaleTime: 60 * time.Second, Retry: 3},
		Details: Policy{StaleTime: 30 * time.Second, Retry: 3},
		Chart:   Policy{StaleTime: 60 * time.Second, Retry: 3},
	}
}

type options struct {
	clock    clockwork.Clock
	log      *slog.Logger
	policies Policies
}

// Option configures Markets.
type Option func(*options)

func WithClock(c clockwork.Clock) Option { return func(o *options) { o.clock = c } }
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }
func WithPolicies(p Policies) Option { return func(o *options) { o.policies = p } }

// Markets is the cached view of a MarketAPI.
type Markets struct {
	api     MarketAPI
	list    *Cache[[]types.Cryptocurrency]
	search  *Cache[[]types.SearchResult]
	details *Cache[*types.CryptoDetails]
	chart   *Cache[*types.ChartData]
}

func NewMarkets(api MarketAPI, opts ...Option) *Markets {
	o := options{policies: DefaultPolicies()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Markets{
		api:     api,
		list:    NewCache[[]types.Cryptocurrency]("cryptoList", o.policies.List, o.clock, o.log),
		search:  NewCache[[]types.SearchResult]("cryptoSearch", o.policies.Search, o.clock, o.log),
		details: NewCache[*types.CryptoDetails]("cryptoDetails", o.policies.Details, o.clock, o.log),
		chart:   NewCache[*types.ChartData]("chartData", o.policies.Chart, o.clock, o.log),
	}
}

// ListKey, SearchKey, DetailsKey and ChartKey name cache entries. Id order
// is part of the list key.
func ListKey(ids []string) string { return "cryptoList|" + strings.Join(ids, ",") }
func SearchKey(q string) string { return "cryptoSearch|" + q }
func DetailsKey(id string) string { return "cryptoDetails|" + id }
func ChartKey(id string, days float64) string {
	return "chartData|" + id + "|" + strconv.FormatFloat(days, 'f', -1, 64)
}

func (m *Markets) listFetcher(ids []string) Fetcher[[]types.Cryptocurrency] {
	ids = append([]string(nil), ids...)
	return func(ctx context.Context) ([]types.Cryptocurrency, error) {
		return m.api.ListMarkets(ctx, ids)
	}
}

// List returns market rows for ids, or the top coins when ids is empty.
func (m *Markets) List(ctx context.Context, ids []string) Result[[]types.Cryptocurrency] {
	return m.list.Get(ctx, ListKey(ids), m.listFetcher(ids))
}

// RefreshList forces a list fetch.
func (m *Markets) RefreshList(ctx context.Context, ids []string) Result[[]types.Cryptocurrency] {
	return m.list.Refetch(ctx, ListKey(ids), m.listFetcher(ids))
}

// WatchList polls the list for ids until the returned Poller is stopped or
// ctx ends.
func (m *Markets) WatchList(ctx context.Context, ids []string, onResult func(Result[[]types.Cryptocurrency])) *Poller {
	return m.list.Poll(ctx, ListKey(ids), m.listFetcher(ids), onResult)
}

// Search is disabled for an empty query: it returns an empty result at once.
func (m *Markets) Search(ctx context.Context, q string) Result[[]types.SearchResult] {
	if q == "" {
		return Result[[]types.SearchResult]{Data: []types.SearchResult{}}
	}
	return m.search.Get(ctx, SearchKey(q), func(ctx context.Context) ([]types.SearchResult, error) {
		return m.api.Search(ctx, q)
	})
}

// Details is disabled for an empty id.
func (m *Markets) Details(ctx context.Context, id string) Result[*types.CryptoDetails] {
	if id == "" {
		return Result[*types.CryptoDetails]{}
	}
	return m.details.Get(ctx, DetailsKey(id), func(ctx context.Context) (*types.CryptoDetails, error) {
		return m.api.Details(ctx, id)
	})
}

// DetailsMany loads details for every id concurrently, sharing entries with
// Details. Results are in ids order.
func (m *Markets) DetailsMany(ctx context.Context, ids []string) []Result[*types.CryptoDetails] {
	return iter.Map(ids, func(id *string) Result[*types.CryptoDetails] {
		return m.Details(ctx, *id)
	})
}

// Chart is disabled for an empty id.
func (m *Markets) Chart(ctx context.Context, id string, days float64) Result[*types.ChartData] {
	if id == "" {
		return Result[*types.ChartData]{}
	}
	return m.chart.Get(ctx, ChartKey(id, days), func(ctx context.Context) (*types.ChartData, error) {
		return m.api.Chart(ctx, id, days)
	})
}
