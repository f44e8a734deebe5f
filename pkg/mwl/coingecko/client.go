// Package coingecko is a small client for the public CoinGecko v3 REST API.
// It only knows the four calls the watchlist needs and maps their responses
// into the types package.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTopN    = 20
	defaultTimeout = 15 * time.Second
	vsCurrency     = "usd"
	apiKeyHeader   = "x-cg-demo-api-key"
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL    string
	APIKey     string
	TopN       int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the provider. It never retries; callers own that policy.
type Client struct {
	baseURL    string
	apiKey     string
	topN       int
	httpClient *http.Client
	sanitizer  *bluemonday.Policy
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		topN:       opts.TopN,
		httpClient: opts.HTTPClient,
		sanitizer:  bluemonday.UGCPolicy(),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.topN <= 0 {
		c.topN = DefaultTopN
	}
	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = newHTTPClient(timeout)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// ListMarkets returns market rows for ids, or the top N coins by market cap
// when ids is empty. Row order is whatever the provider returns.
func (c *Client) ListMarkets(ctx context.Context, ids []string) ([]types.Cryptocurrency, error) {
	perPage := c.topN
	if len(ids) > 0 {
		perPage = len(ids)
	}
	q := url.Values{}
	q.Set("vs_currency", vsCurrency)
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", "1")
	q.Set("sparkline", "true")
	q.Set("price_change_percentage", "24h,7d")
	if len(ids) > 0 {
		q.Set("ids", strings.Join(ids, ","))
	}

	var out []types.Cryptocurrency
	if err := c.get(ctx, OpListMarkets, "/coins/markets", q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.Cryptocurrency{}
	}
	return out, nil
}

// Search looks coins up by free text. An empty query returns no results
// without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]types.SearchResult, error) {
	if query == "" {
		return []types.SearchResult{}, nil
	}
	q := url.Values{}
	q.Set("query", query)

	var resp struct {
		Coins []types.SearchResult `json:"coins"`
	}
	if err := c.get(ctx, OpSearch, "/search", q, &resp); err != nil {
		return nil, err
	}
	if resp.Coins == nil {
		resp.Coins = []types.SearchResult{}
	}
	return resp.Coins, nil
}

// Details fetches one coin and flattens its market_data block.
func (c *Client) Details(ctx context.Context, id string) (*types.CryptoDetails, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("market_data", "true")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	q.Set("sparkline", "true")

	var resp coinResponse
	if err := c.get(ctx, OpDetails, "/coins/"+url.PathEscape(id), q, &resp); err != nil {
		return nil, err
	}
	d := resp.flatten()
	d.Description = c.sanitizer.Sanitize(d.Description)
	return d, nil
}

// Chart fetches price, market cap and volume series for the last days.
// The provider picks the sampling interval from the range.
func (c *Client) Chart(ctx context.Context, id string, days float64) (*types.ChartData, error) {
	q := url.Values{}
	q.Set("vs_currency", vsCurrency)
	q.Set("days", strconv.FormatFloat(days, 'f', -1, 64))

	var out types.ChartData
	if err := c.get(ctx, OpChart, "/coins/"+url.PathEscape(id)+"/market_chart", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, op, path string, q url.Values, dst any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &FetchError{Op: op, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
