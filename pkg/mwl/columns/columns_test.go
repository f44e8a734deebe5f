package columns

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

func f(v float64) *float64 { return &v }

func TestCompute(t *testing.T) {
	if got := Compute(nil); !reflect.DeepEqual(got, Default) {
		t.Fatalf("Compute(nil) = %v", got)
	}
	got := Compute([]string{"Price", "name", "price", " "})
	if !reflect.DeepEqual(got, []string{"price", "name"}) {
		t.Fatalf("Compute = %v", got)
	}
}

func TestRenderValue(t *testing.T) {
	c := types.Cryptocurrency{
		ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1,
		CurrentPrice: 45000, PriceChangePercentage24h: 2.5,
		MarketCap: 1.5e12, CirculatingSupply: 19500000,
		Sparkline7d: &types.Sparkline{Price: []float64{1, 2, 3}},
	}
	tests := map[string]string{
		"rank":       "1",
		"symbol":     "BTC",
		"price":      "$45000.00",
		"chg24h":     "+2.50%",
		"chg7d":      "-",
		"mcap":       "$1500.00B",
		"supply":     "19,500,000",
		"max_supply": "∞",
		"nope":       "",
	}
	for col, want := range tests {
		if got := RenderValue(col, c); got != want {
			t.Errorf("RenderValue(%s) = %q, want %q", col, got, want)
		}
	}
	c.PriceChangePercentage7d = f(-1.234)
	if got := RenderValue("chg7d", c); got != "-1.23%" {
		t.Errorf("chg7d = %q", got)
	}
	if got := RenderValue("trend", c); got == "" {
		t.Error("expected a sparkline")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]string{"price", "trend"}); err != nil {
		t.Fatal(err)
	}
	var ue *UnknownColumnError
	if err := Validate([]string{"price", "pe"}); !errors.As(err, &ue) || ue.Name != "pe" {
		t.Fatalf("expected UnknownColumnError, got %v", err)
	}
}

func TestExpandSets(t *testing.T) {
	got, err := ExpandSets([]string{"market", "price", "market"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rank", "mcap", "volume", "price", "chg24h", "chg7d", "high24h", "low24h"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExpandSets = %v", got)
	}
	_, err = ExpandSets([]string{"fundamentals"})
	var se *UnknownSetError
	if !errors.As(err, &se) {
		t.Fatalf("expected UnknownSetError, got %v", err)
	}
	if !reflect.DeepEqual(se.Available, []string{"market", "price", "supply"}) {
		t.Fatalf("available = %v", se.Available)
	}
}
