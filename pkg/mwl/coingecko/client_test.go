package coingecko

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// MockRoundTripper lets tests answer requests without a server.
type MockRoundTripper struct {
	Func func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Func(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(t *testing.T, fn func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	return New(Options{
		BaseURL:    "https://api.test/v3",
		HTTPClient: &http.Client{Transport: &MockRoundTripper{Func: fn}},
	})
}

func TestListMarkets_TopN(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v3/coins/markets" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		want := map[string]string{
			"vs_currency":             "usd",
			"order":                   "market_cap_desc",
			"per_page":                "20",
			"page":                    "1",
			"sparkline":               "true",
			"price_change_percentage": "24h,7d",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
		if q.Has("ids") {
			t.Errorf("ids should be absent for top-N, got %q", q.Get("ids"))
		}
		return jsonResponse(200, `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":65000.5,"market_cap":1.2e12,"market_cap_rank":1,"max_supply":21000000,"total_supply":null,"price_change_percentage_7d_in_currency":-1.5,"sparkline_in_7d":{"price":[1,2,3]}}]`), nil
	})

	coins, err := c.ListMarkets(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if len(coins) != 1 {
		t.Fatalf("expected 1 coin, got %d", len(coins))
	}
	btc := coins[0]
	if btc.ID != "bitcoin" || btc.CurrentPrice != 65000.5 || btc.MarketCapRank != 1 {
		t.Errorf("unexpected coin: %+v", btc)
	}
	if btc.MaxSupply == nil || *btc.MaxSupply != 21000000 {
		t.Errorf("max supply = %v", btc.MaxSupply)
	}
	if btc.TotalSupply != nil {
		t.Errorf("total supply should be nil, got %v", *btc.TotalSupply)
	}
	if btc.Price7d() != -1.5 {
		t.Errorf("Price7d = %v", btc.Price7d())
	}
	if btc.Sparkline7d == nil || len(btc.Sparkline7d.Price) != 3 {
		t.Errorf("sparkline = %+v", btc.Sparkline7d)
	}
}

func TestListMarkets_ByIDs(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		if q.Get("ids") != "ethereum,bitcoin" {
			t.Errorf("ids = %q", q.Get("ids"))
		}
		if q.Get("per_page") != "2" {
			t.Errorf("per_page = %q", q.Get("per_page"))
		}
		return jsonResponse(200, `[{"id":"bitcoin"},{"id":"ethereum"}]`), nil
	})
	coins, err := c.ListMarkets(context.Background(), []string{"ethereum", "bitcoin"})
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	// Provider order is kept.
	if coins[0].ID != "bitcoin" || coins[1].ID != "ethereum" {
		t.Errorf("order = %s,%s", coins[0].ID, coins[1].ID)
	}
}

func TestSearch_EmptyQuerySkipsNetwork(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Errorf("unexpected request: %s", req.URL)
		return nil, errors.New("no network")
	})
	res, err := c.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res == nil || len(res) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", res)
	}
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v3/search" || req.URL.Query().Get("query") != "bit coin" {
			t.Errorf("unexpected url: %s", req.URL)
		}
		return jsonResponse(200, `{"coins":[{"id":"bitcoin","name":"Bitcoin","symbol":"BTC","market_cap_rank":1,"thumb":"t.png","large":"l.png"}],"exchanges":[]}`), nil
	})
	res, err := c.Search(context.Background(), "bit coin")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res) != 1 || res[0].ID != "bitcoin" || res[0].Thumb != "t.png" {
		t.Fatalf("unexpected results: %+v", res)
	}
}

func TestSearch_MissingCoins(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{}`), nil
	})
	res, err := c.Search(context.Background(), "zzz")
	if err != nil || res == nil || len(res) != 0 {
		t.Fatalf("got %#v, %v", res, err)
	}
}

const detailsBody = `{
  "id": "bitcoin",
  "symbol": "btc",
  "name": "Bitcoin",
  "market_cap_rank": 1,
  "last_updated": "2026-10-14T00:00:00Z",
  "image": {"large": "https://img/large.png"},
  "description": {"en": "<p>Peer to peer <a href=\"https://bitcoin.org\">cash</a></p><script>alert(1)</script>"},
  "links": {"homepage": ["https://bitcoin.org"], "subreddit_url": "https://reddit.com/r/bitcoin", "repos_url": {"github": ["https://github.com/bitcoin/bitcoin"], "bitbucket": []}},
  "market_data": {
    "current_price": {"usd": 65000, "eur": 60000},
    "market_cap": {"usd": 1.2e12},
    "total_volume": {"usd": 3e10},
    "high_24h": {"usd": 66000},
    "low_24h": {"usd": 64000},
    "price_change_24h": 500,
    "price_change_percentage_24h": 0.77,
    "circulating_supply": 19700000,
    "total_supply": 21000000,
    "max_supply": null,
    "ath": {"usd": 73000},
    "ath_change_percentage": {"usd": -10.9},
    "ath_date": {"usd": "2024-03-14T07:10:36.635Z"},
    "atl": {"usd": 67.81},
    "atl_change_percentage": {"usd": 95000},
    "atl_date": {"usd": "2013-07-06T00:00:00.000Z"},
    "sparkline_7d": {"price": [1, 2]}
  }
}`

func TestDetails_Flattens(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v3/coins/bitcoin" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		q := req.URL.Query()
		for _, k := range []string{"localization", "tickers", "community_data", "developer_data"} {
			if q.Get(k) != "false" {
				t.Errorf("%s = %q, want false", k, q.Get(k))
			}
		}
		return jsonResponse(200, detailsBody), nil
	})

	d, err := c.Details(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if d.CurrentPrice != 65000 || d.High24h != 66000 || d.ATL != 67.81 {
		t.Errorf("unexpected market data: %+v", d.Cryptocurrency)
	}
	if d.Image != "https://img/large.png" {
		t.Errorf("image = %q", d.Image)
	}
	if d.MaxSupply != nil {
		t.Errorf("max supply should be nil")
	}
	if d.FullyDilutedValuation != nil {
		t.Errorf("fdv should be nil when absent")
	}
	if d.TotalSupply == nil || *d.TotalSupply != 21000000 {
		t.Errorf("total supply = %v", d.TotalSupply)
	}
	if d.ATHDate != "2024-03-14T07:10:36.635Z" {
		t.Errorf("ath date = %q", d.ATHDate)
	}
	if strings.Contains(d.Description, "<script") {
		t.Errorf("description not sanitized: %q", d.Description)
	}
	if !strings.Contains(d.Description, "Peer to peer") {
		t.Errorf("description lost text: %q", d.Description)
	}
	if d.Links == nil || d.Links.SubredditURL != "https://reddit.com/r/bitcoin" || len(d.Links.ReposURL.GitHub) != 1 {
		t.Errorf("links = %+v", d.Links)
	}
}

func TestChart_FractionalDays(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v3/coins/bitcoin/market_chart" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("days"); got != "0.04" {
			t.Errorf("days = %q", got)
		}
		return jsonResponse(200, `{"prices":[[1700000000000,1],[1700000060000,2]],"market_caps":[[1700000000000,10]],"total_volumes":[]}`), nil
	})
	cd, err := c.Chart(context.Background(), "bitcoin", 0.04)
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if len(cd.Prices) != 2 || len(cd.MarketCaps) != 1 || len(cd.TotalVolumes) != 0 {
		t.Fatalf("unexpected series lengths: %d %d %d", len(cd.Prices), len(cd.MarketCaps), len(cd.TotalVolumes))
	}
	if cd.Prices[1][1] != 2 {
		t.Errorf("second price = %v", cd.Prices[1][1])
	}
}

func TestFetchError_Status(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusTooManyRequests, `{"status":{"error_code":429}}`), nil
	})
	_, err := c.Details(context.Background(), "bitcoin")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Op != OpDetails || fe.StatusCode != http.StatusTooManyRequests {
		t.Errorf("unexpected error: %+v", fe)
	}
}

func TestFetchError_Transport(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, boom
	})
	_, err := c.ListMarkets(context.Background(), nil)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Op != OpListMarkets {
		t.Fatalf("expected listMarkets FetchError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("cause not wrapped: %v", err)
	}
}

func TestFetchError_BadBody(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `not json`), nil
	})
	_, err := c.Chart(context.Background(), "bitcoin", 1)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Op != OpChart {
		t.Fatalf("expected chart FetchError, got %v", err)
	}
}

func TestAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(apiKeyHeader) != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, APIKey: "secret"})
	coins, err := c.ListMarkets(context.Background(), []string{"bitcoin"})
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if coins == nil || len(coins) != 0 {
		t.Fatalf("expected empty slice, got %#v", coins)
	}
}
