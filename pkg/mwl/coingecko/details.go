package coingecko

import "github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"

// coinResponse mirrors the parts of /coins/{id} the details view reads.
// Per-currency fields arrive as maps keyed by currency code.
type coinResponse struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
	LastUpdated   string `json:"last_updated"`
	Image         struct {
		Thumb string `json:"thumb"`
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"image"`
	Description map[string]string `json:"description"`
	Links       *types.Links      `json:"links"`
	MarketData  struct {
		CurrentPrice                 map[string]float64 `json:"current_price"`
		MarketCap                    map[string]float64 `json:"market_cap"`
		FullyDilutedValuation        map[string]float64 `json:"fully_diluted_valuation"`
		TotalVolume                  map[string]float64 `json:"total_volume"`
		High24h                      map[string]float64 `json:"high_24h"`
		Low24h                       map[string]float64 `json:"low_24h"`
		PriceChange24h               float64            `json:"price_change_24h"`
		PriceChangePercentage24h     float64            `json:"price_change_percentage_24h"`
		PriceChangePercentage7d      *float64           `json:"price_change_percentage_7d"`
		MarketCapChange24h           float64            `json:"market_cap_change_24h"`
		MarketCapChangePercentage24h float64            `json:"market_cap_change_percentage_24h"`
		CirculatingSupply            float64            `json:"circulating_supply"`
		TotalSupply                  *float64           `json:"total_supply"`
		MaxSupply                    *float64           `json:"max_supply"`
		ATH                          map[string]float64 `json:"ath"`
		ATHChangePercentage          map[string]float64 `json:"ath_change_percentage"`
		ATHDate                      map[string]string  `json:"ath_date"`
		ATL                          map[string]float64 `json:"atl"`
		ATLChangePercentage          map[string]float64 `json:"atl_change_percentage"`
		ATLDate                      map[string]string  `json:"atl_date"`
		Sparkline7d                  *types.Sparkline   `json:"sparkline_7d"`
	} `json:"market_data"`
}

func (r *coinResponse) flatten() *types.CryptoDetails {
	md := r.MarketData
	d := &types.CryptoDetails{
		Cryptocurrency: types.Cryptocurrency{
			ID:                           r.ID,
			Symbol:                       r.Symbol,
			Name:                         r.Name,
			Image:                        r.Image.Large,
			CurrentPrice:                 md.CurrentPrice[vsCurrency],
			MarketCap:                    md.MarketCap[vsCurrency],
			MarketCapRank:                r.MarketCapRank,
			FullyDilutedValuation:        optional(md.FullyDilutedValuation),
			TotalVolume:                  md.TotalVolume[vsCurrency],
			High24h:                      md.High24h[vsCurrency],
			Low24h:                       md.Low24h[vsCurrency],
			PriceChange24h:               md.PriceChange24h,
			PriceChangePercentage24h:     md.PriceChangePercentage24h,
			PriceChangePercentage7d:      md.PriceChangePercentage7d,
			MarketCapChange24h:           md.MarketCapChange24h,
			MarketCapChangePercentage24h: md.MarketCapChangePercentage24h,
			CirculatingSupply:            md.CirculatingSupply,
			TotalSupply:                  md.TotalSupply,
			MaxSupply:                    md.MaxSupply,
			ATH:                          md.ATH[vsCurrency],
			ATHChangePercentage:          md.ATHChangePercentage[vsCurrency],
			ATHDate:                      md.ATHDate[vsCurrency],
			ATL:                          md.ATL[vsCurrency],
			ATLChangePercentage:          md.ATLChangePercentage[vsCurrency],
			ATLDate:                      md.ATLDate[vsCurrency],
			LastUpdated:                  r.LastUpdated,
			Sparkline7d:                  md.Sparkline7d,
		},
		Description: r.Description["en"],
		Links:       r.Links,
	}
	return d
}

func optional(m map[string]float64) *float64 {
	v, ok := m[vsCurrency]
	if !ok || v == 0 {
		return nil
	}
	return &v
}
