package render

import (
	"encoding/json"
	"io"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/columns"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Columns []string   `json:"columns"`
	Coins   []jsonCoin `json:"coins"`
}

type jsonCoin struct {
	types.Cryptocurrency
	Display map[string]string `json:"display"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, coins []types.Cryptocurrency, opts RenderOptions) error {
	cols := columns.Compute(opts.Columns)
	out := jsonModel{Columns: cols, Coins: make([]jsonCoin, 0, len(coins))}
	for _, c := range coins {
		display := make(map[string]string, len(cols))
		for _, col := range cols {
			display[col] = columns.RenderValue(col, c)
		}
		out.Coins = append(out.Coins, jsonCoin{Cryptocurrency: c, Display: display})
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
