package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func coinServer(t *testing.T) *httptest.Server {
	t.Helper()
	prices := map[string]float64{"bitcoin": 65000, "ethereum": 3200}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimPrefix(req.URL.Path, "/coins/")
		id, rest, _ := strings.Cut(path, "/")
		price, ok := prices[id]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch rest {
		case "":
			fmt.Fprintf(w, `{"id":%q,"symbol":%q,"name":%q,"market_data":{"current_price":{"usd":%v}}}`,
				id, id[:3], strings.ToUpper(id[:1])+id[1:], price)
		case "market_chart":
			fmt.Fprintf(w, `{"prices":[[1700000000000,%v],[1700000060000,%v]],"market_caps":[],"total_volumes":[[1700000000000,5e9],[1700000060000,6e9]]}`,
				price, price+1)
		default:
			http.NotFound(w, req)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestShowMany(t *testing.T) {
	srv := coinServer(t)
	t.Setenv("MWL_API_BASE_URL", srv.URL)
	dir := t.TempDir()
	run(t, dir, "", "add", "ethereum")

	out := run(t, dir, "", "--no-color", "show", "bitcoin", "Ethereum", "--range", "7D")
	btc := strings.Index(out, "Bitcoin (BIT)")
	eth := strings.Index(out, "Ethereum (ETH)")
	if btc < 0 || eth < 0 || btc > eth {
		t.Fatalf("coins missing or out of order:\n%s", out)
	}
	for _, want := range []string{"$65000.00", "$3200.00", "Volume 7D  low $5.00B  high $6.00B"} {
		if !strings.Contains(out, want) {
			t.Errorf("show missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "★ in your watchlist") != 1 || strings.Index(out, "★") < eth {
		t.Errorf("watchlist marker should follow ethereum only:\n%s", out)
	}
}
