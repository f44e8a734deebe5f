package filter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/types"
)

// Filter matches a single string such as a coin id or symbol.
type Filter interface {
	Match(s string) bool
}

// Parse builds a filter from an expression:
// - Comma-separated exact values: "bitcoin,eth"
// - Glob: "bit*"
// - Regex: "/^b/"
// Anything else is a case-insensitive substring match.
func Parse(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Always(true), nil
	}
	if strings.HasPrefix(expr, "/") && strings.HasSuffix(expr, "/") && len(expr) > 2 {
		re, err := regexp.Compile(expr[1 : len(expr)-1])
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", expr, err)
		}
		return Regex{re: re}, nil
	}
	if strings.Contains(expr, ",") {
		set := map[string]struct{}{}
		for _, p := range strings.Split(expr, ",") {
			p = strings.ToLower(strings.TrimSpace(p))
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		return ExactSet{set: set}, nil
	}
	if strings.ContainsAny(expr, "*?") {
		return Glob{pattern: strings.ToLower(expr)}, nil
	}
	return SubstrCI{needle: expr}, nil
}

// MatchCoin reports whether f matches the coin's id, symbol or name.
func MatchCoin(f Filter, c types.Cryptocurrency) bool {
	if f == nil {
		return true
	}
	return f.Match(c.ID) || f.Match(c.Symbol) || f.Match(c.Name)
}

// Coins keeps the coins f matches, preserving order.
func Coins(f Filter, coins []types.Cryptocurrency) []types.Cryptocurrency {
	out := make([]types.Cryptocurrency, 0, len(coins))
	for _, c := range coins {
		if MatchCoin(f, c) {
			out = append(out, c)
		}
	}
	return out
}

type Always bool

func (a Always) Match(string) bool { return bool(a) }

// ExactSet matches any listed value, ignoring case.
type ExactSet struct{ set map[string]struct{} }

func (e ExactSet) Match(s string) bool {
	_, ok := e.set[strings.ToLower(s)]
	return ok
}

type Glob struct{ pattern string }

func (g Glob) Match(s string) bool {
	ok, _ := filepath.Match(g.pattern, strings.ToLower(s))
	return ok
}

func (g Glob) String() string { return fmt.Sprintf("glob:%s", g.pattern) }

type Regex struct{ re *regexp.Regexp }

func (r Regex) Match(s string) bool { return r.re.MatchString(s) }

// SubstrCI matches if s contains needle, case-insensitively.
type SubstrCI struct{ needle string }

func (sc SubstrCI) Match(s string) bool {
	if sc.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sc.needle))
}

func (sc SubstrCI) String() string { return fmt.Sprintf("substr-ci:%s", sc.needle) }
