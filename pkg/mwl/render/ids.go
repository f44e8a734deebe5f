package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// idsRenderer prints all coin ids in a single comma-separated line.
type idsRenderer struct{}

func NewIDsRenderer() Renderer {
	return idsRenderer{}
}

func (idsRenderer) Render(w io.Writer, coins []types.Cryptocurrency, _ RenderOptions) error {
	ids := make([]string, 0, len(coins))
	for _, c := range coins {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	_, err := fmt.Fprintln(w, strings.Join(ids, ","))
	return err
}
