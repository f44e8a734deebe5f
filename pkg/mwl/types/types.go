package types

// Cryptocurrency is one coin as returned by the markets listing.
// Supply fields that the provider may omit are pointers; nil means unknown
// or unbounded.
type Cryptocurrency struct {
	ID                           string     `json:"id"`
	Symbol                       string     `json:"symbol"`
	Name                         string     `json:"name"`
	Image                        string     `json:"image"`
	CurrentPrice                 float64    `json:"current_price"`
	MarketCap                    float64    `json:"market_cap"`
	MarketCapRank                int        `json:"market_cap_rank"`
	FullyDilutedValuation        *float64   `json:"fully_diluted_valuation"`
	TotalVolume                  float64    `json:"total_volume"`
	High24h                      float64    `json:"high_24h"`
	Low24h                       float64    `json:"low_24h"`
	PriceChange24h               float64    `json:"price_change_24h"`
	PriceChangePercentage24h     float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage7d      *float64   `json:"price_change_percentage_7d_in_currency,omitempty"`
	MarketCapChange24h           float64    `json:"market_cap_change_24h"`
	MarketCapChangePercentage24h float64    `json:"market_cap_change_percentage_24h"`
	CirculatingSupply            float64    `json:"circulating_supply"`
	TotalSupply                  *float64   `json:"total_supply"`
	MaxSupply                    *float64   `json:"max_supply"`
	ATH                          float64    `json:"ath"`
	ATHChangePercentage          float64    `json:"ath_change_percentage"`
	ATHDate                      string     `json:"ath_date"`
	ATL                          float64    `json:"atl"`
	ATLChangePercentage          float64    `json:"atl_change_percentage"`
	ATLDate                      string     `json:"atl_date"`
	LastUpdated                  string     `json:"last_updated"`
	Sparkline7d                  *Sparkline `json:"sparkline_in_7d,omitempty"`
}

// Sparkline holds the 7 day hourly price samples.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// CryptoDetails extends Cryptocurrency with the long description and links.
// Description is sanitized HTML.
type CryptoDetails struct {
	Cryptocurrency
	Description string `json:"description,omitempty"`
	Links       *Links `json:"links,omitempty"`
}

// Links is the provider's bundle of project URLs. Any field may be empty.
type Links struct {
	Homepage                    []string `json:"homepage"`
	BlockchainSite              []string `json:"blockchain_site"`
	OfficialForumURL            []string `json:"official_forum_url"`
	ChatURL                     []string `json:"chat_url"`
	AnnouncementURL             []string `json:"announcement_url"`
	TwitterScreenName           string   `json:"twitter_screen_name"`
	FacebookUsername            string   `json:"facebook_username"`
	BitcointalkThreadIdentifier *int64   `json:"bitcointalk_thread_identifier"`
	TelegramChannelIdentifier   string   `json:"telegram_channel_identifier"`
	SubredditURL                string   `json:"subreddit_url"`
	ReposURL                    struct {
		GitHub    []string `json:"github"`
		Bitbucket []string `json:"bitbucket"`
	} `json:"repos_url"`
}

// ChartData holds three independent [timestamp ms, value] series.
type ChartData struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// SearchResult is a lightweight search hit, used only to pick an id.
type SearchResult struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
	Large         string `json:"large"`
}

// Price7d returns the 7 day change percentage, or 0 when the provider
// did not send it.
func (c Cryptocurrency) Price7d() float64 {
	if c.PriceChangePercentage7d == nil {
		return 0
	}
	return *c.PriceChangePercentage7d
}
