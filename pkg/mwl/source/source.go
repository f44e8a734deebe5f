// Package source reads watchlist files for import and writes exports.
// Imports are all-or-nothing: a file with any invalid entry is rejected.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/watchlist"
)

// ImportError explains why an import file was rejected.
type ImportError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Path != "" {
		return e.Path + ": " + e.Reason
	}
	return e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

const (
	reasonNotArray  = "Invalid format: Expected an array of cryptocurrency IDs"
	reasonNotString = "Invalid format: All items must be strings"
	reasonParse     = "Failed to import watchlist"
)

// Format names an import file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format from the file extension. Unknown
// extensions are read as JSON, which YAML tooling also emits.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse validates data in the given format and returns the ids in order.
func Parse(data []byte, f Format) ([]string, error) {
	switch f {
	case FormatYAML:
		return ParseYAML(data)
	case FormatJSON:
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("unknown import format %q", f)
	}
}

// Load reads and validates an import file.
func Load(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	ids, err := Parse(data, DetectFormat(path))
	if err != nil {
		var ie *ImportError
		if errors.As(err, &ie) {
			ie.Path = path
		}
		return nil, err
	}
	return ids, nil
}

// Import merges the ids from path into store and reports how many were new.
// The store is left untouched when the file is rejected.
func Import(ctx context.Context, store *watchlist.Store, path string) (int, error) {
	ids, err := Load(ctx, path)
	if err != nil {
		return 0, err
	}
	return store.Merge(ctx, ids), nil
}

// ExportFileName is the dated download name used for exports.
func ExportFileName(t time.Time) string {
	return "crypto-watchlist-" + t.Format("2006-01-02") + ".json"
}
