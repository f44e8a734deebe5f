package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/chart"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

func sample() []types.Cryptocurrency {
	return []types.Cryptocurrency{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1, CurrentPrice: 45000, PriceChangePercentage24h: 2.5},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 2, CurrentPrice: 3000, PriceChangePercentage24h: -1.2},
	}
}

func TestIDsRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewIDsRenderer().Render(&buf, sample(), RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "bitcoin,ethereum\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestTableRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableRenderer().Render(&buf, sample(), RenderOptions{Columns: []string{"name", "price", "chg24h"}, Caption: "updated now"})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Bitcoin", "$45000.00", "-1.20%", "updated now"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("uncoloured table contains escape codes")
	}
}

func TestTableRendererUnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer().Render(&buf, sample(), RenderOptions{Columns: []string{"pe"}}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTableRendererEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableRenderer().Render(&buf, nil, RenderOptions{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "empty") {
		t.Fatalf("got %q", buf.String())
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONRenderer().Render(&buf, sample(), RenderOptions{Columns: []string{"symbol", "price"}}); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Columns []string `json:"columns"`
		Coins   []struct {
			ID      string            `json:"id"`
			Display map[string]string `json:"display"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Coins) != 2 || got.Coins[1].ID != "ethereum" || got.Coins[0].Display["symbol"] != "BTC" {
		t.Fatalf("unexpected json: %s", buf.String())
	}
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"", "table", "json", "ids"} {
		if _, ok := ForFormat(name); !ok {
			t.Errorf("ForFormat(%q) not found", name)
		}
	}
	if _, ok := ForFormat("csv"); ok {
		t.Error("csv should be unknown")
	}
}

func TestDetailsRenderer(t *testing.T) {
	d := &types.CryptoDetails{
		Cryptocurrency: sample()[0],
		Description:    "<p>Bitcoin is the <a href=\"https://bitcoin.org\">first</a> cryptocurrency &amp; more.</p>",
		Links:          &types.Links{Homepage: []string{"", "https://bitcoin.org"}},
	}
	cd := &types.ChartData{
		Prices:       [][2]float64{{1700000000000, 1}, {1700000060000, 2}, {1700000120000, 3}, {1700000180000, 4}},
		TotalVolumes: [][2]float64{{1700000000000, 2e9}, {1700000060000, 1e9}, {1700000120000, 3e9}},
	}
	var buf bytes.Buffer
	err := NewDetailsRenderer().Render(&buf, d, cd, DetailsOptions{
		Timeframe: chart.Timeframes[2],
		Extra:     [][2]string{{"Yahoo", "$45.10K"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Bitcoin (BTC)", "#1", "$45000.00", "7D  low $1.00  high $4.00",
		"Volume 7D  low $1.00B  high $3.00B",
		"https://bitcoin.org", "first cryptocurrency & more.", "Yahoo", "∞",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("details missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<p>") {
		t.Error("markup leaked into output")
	}
}

func TestDetailsRendererWithoutChart(t *testing.T) {
	var buf bytes.Buffer
	d := &types.CryptoDetails{Cryptocurrency: sample()[0]}
	if err := NewDetailsRenderer().Render(&buf, d, nil, DetailsOptions{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Volume 24H") || strings.Contains(buf.String(), "low $") {
		t.Fatalf("chart rows drawn without data:\n%s", buf.String())
	}
}

func TestPlainDropsControlCharacters(t *testing.T) {
	got := Plain("<b>red</b>\x1b[31m text&#27;[0m\tand\nmore\x07")
	if strings.ContainsAny(got, "\x1b\x07") {
		t.Fatalf("control characters kept: %q", got)
	}
	if got != "red[31m text[0m\tand\nmore" {
		t.Fatalf("Plain = %q", got)
	}
}

func TestRenderSearch(t *testing.T) {
	var buf bytes.Buffer
	results := []types.SearchResult{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1}}
	if err := RenderSearch(&buf, results, func(id string) bool { return id == "bitcoin" }, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "★") {
		t.Fatalf("missing watched marker:\n%s", buf.String())
	}
}
