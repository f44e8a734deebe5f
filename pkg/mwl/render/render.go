package render

import (
	"io"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// Renderer renders a list of coins to an output writer.
type Renderer interface {
	Render(w io.Writer, coins []types.Cryptocurrency, opts RenderOptions) error
}

type RenderOptions struct {
	Columns     []string
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	// Caption is printed under the table, e.g. a refresh status line.
	Caption string
}

// ForFormat returns the renderer for an output format name.
func ForFormat(name string) (Renderer, bool) {
	switch name {
	case "", "table":
		return NewTableRenderer(), true
	case "json":
		return NewJSONRenderer(), true
	case "ids":
		return NewIDsRenderer(), true
	}
	return nil, false
}
