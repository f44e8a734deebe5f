// Package share encodes a watchlist into a token that fits in a URL query
// string, and reads it back.
package share

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
)

// Param is the query parameter that carries a shared watchlist.
const Param = "watchlist"

// Encode serializes ids as a compact JSON array and base64-encodes it.
func Encode(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode. Any malformed token yields an empty list; callers
// cannot tell a broken token from an empty shared list and should treat both
// as nothing to import.
func Decode(token string) []string {
	raw, ok := decodeBase64(strings.TrimSpace(token))
	if !ok {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil || ids == nil {
		return []string{}
	}
	return ids
}

// decodeBase64 accepts the standard alphabet as well as the URL-safe and
// unpadded forms that tokens acquire after a trip through a browser.
func decodeBase64(s string) ([]byte, bool) {
	if s == "" {
		return nil, false
	}
	// Query decoding turns an unescaped '+' into a space.
	s = strings.ReplaceAll(s, " ", "+")
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, true
		}
	}
	return nil, false
}

// ShareURL builds origin?watchlist=<token>.
func ShareURL(origin string, ids []string) string {
	v := url.Values{}
	v.Set(Param, Encode(ids))
	return strings.TrimRight(origin, "?") + "?" + v.Encode()
}

// ConsumeURL reads the shared watchlist from raw once. When the token decodes
// to at least one id it returns the ids and raw with the parameter stripped;
// otherwise ok is false and raw comes back unchanged.
func ConsumeURL(raw string) (ids []string, cleaned string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, raw, false
	}
	q := u.Query()
	token := q.Get(Param)
	if token == "" {
		return nil, raw, false
	}
	ids = Decode(token)
	if len(ids) == 0 {
		return nil, raw, false
	}
	q.Del(Param)
	u.RawQuery = q.Encode()
	return ids, u.String(), true
}
