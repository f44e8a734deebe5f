// Package watchlist is the single source of truth for the saved coin ids.
// Every change is written through to a Slot and announced to subscribers.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/share"
)

// Namespace is the slot key the watchlist lives under.
const Namespace = "crypto-watchlist"

// Store holds an ordered list of unique coin ids.
type Store struct {
	slot Slot
	key  string
	log  *slog.Logger

	mu   sync.Mutex
	ids  []string
	subs map[int]func([]string)
	next int
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides Namespace, e.g. to keep several named lists.
func WithKey(key string) Option { return func(s *Store) { s.key = key } }

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// Open loads the list from slot. Missing or unreadable data yields an empty
// list; Open never fails.
func Open(ctx context.Context, slot Slot, opts ...Option) *Store {
	s := &Store{
		slot: slot,
		key:  Namespace,
		log:  slog.Default(),
		subs: make(map[int]func([]string)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []string {
	raw, err := s.slot.Read(ctx, s.key)
	if errors.Is(err, ErrSlotEmpty) {
		return []string{}
	}
	if err != nil {
		s.log.Warn("watchlist read failed, starting empty", "key", s.key, "err", err)
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.log.Warn("watchlist data corrupt, starting empty", "key", s.key, "err", err)
		return []string{}
	}
	return Dedupe(ids)
}

// IDs returns a copy of the current list.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.ids...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.ids, id) >= 0
}

// Add appends id. Adding an id that is already present changes nothing and
// writes nothing.
func (s *Store) Add(ctx context.Context, id string) {
	s.mutate(ctx, func(cur []string) ([]string, bool) {
		if indexOf(cur, id) >= 0 {
			return cur, false
		}
		return append(cur, id), true
	})
}

func (s *Store) Remove(ctx context.Context, id string) {
	s.RemoveMany(ctx, []string{id})
}

// RemoveMany drops every listed id with a single write.
func (s *Store) RemoveMany(ctx context.Context, ids []string) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mutate(ctx, func(cur []string) ([]string, bool) {
		out := make([]string, 0, len(cur))
		for _, id := range cur {
			if _, ok := drop[id]; !ok {
				out = append(out, id)
			}
		}
		return out, true
	})
}

// Toggle adds id when absent and removes it otherwise. It reports whether
// id is in the list afterwards.
func (s *Store) Toggle(ctx context.Context, id string) bool {
	var added bool
	s.mutate(ctx, func(cur []string) ([]string, bool) {
		if i := indexOf(cur, id); i >= 0 {
			out := append(append([]string{}, cur[:i]...), cur[i+1:]...)
			return out, true
		}
		added = true
		return append(cur, id), true
	})
	return added
}

// Replace overwrites the list. Duplicates in ids are dropped, first one wins.
func (s *Store) Replace(ctx context.Context, ids []string) {
	next := Dedupe(ids)
	s.mutate(ctx, func([]string) ([]string, bool) { return next, true })
}

// Merge appends the ids from imported that are not present yet and reports
// how many were added.
func (s *Store) Merge(ctx context.Context, imported []string) int {
	var added int
	s.mutate(ctx, func(cur []string) ([]string, bool) {
		next := Dedupe(cur, imported)
		added = len(next) - len(cur)
		return next, true
	})
	return added
}

// Clear empties the list. Asking the user first is the caller's job.
func (s *Store) Clear(ctx context.Context) {
	s.Replace(ctx, nil)
}

// SeedFromURL consumes a shared watchlist token from raw. When the token
// holds ids the list is replaced with them and the URL without the token is
// returned.
func (s *Store) SeedFromURL(ctx context.Context, raw string) (string, bool) {
	ids, cleaned, ok := share.ConsumeURL(raw)
	if !ok {
		return raw, false
	}
	s.Replace(ctx, ids)
	return cleaned, true
}

// ShareURL links to origin with the current list embedded.
func (s *Store) ShareURL(origin string) string {
	return share.ShareURL(origin, s.IDs())
}

// Subscribe registers fn to receive a copy of the list after every change.
// The returned func unregisters it.
func (s *Store) Subscribe(fn func([]string)) (cancel func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// mutate applies fn and, when fn reports a change, persists and notifies.
// Write failures are logged; the in-memory list stays authoritative.
func (s *Store) mutate(ctx context.Context, fn func(cur []string) ([]string, bool)) {
	s.mu.Lock()
	next, changed := fn(append([]string{}, s.ids...))
	if !changed {
		s.mu.Unlock()
		return
	}
	if next == nil {
		next = []string{}
	}
	s.ids = next
	s.persistLocked(ctx)
	snapshot := append([]string{}, next...)
	subs := make([]func([]string), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(append([]string{}, snapshot...))
	}
}

func (s *Store) persistLocked(ctx context.Context) {
	b, err := json.Marshal(s.ids)
	if err != nil {
		s.log.Error("watchlist encode failed", "err", err)
		return
	}
	if err := s.slot.Write(ctx, s.key, b); err != nil {
		s.log.Error("watchlist write failed", "key", s.key, "err", err)
	}
}

// Dedupe concatenates lists and keeps the first occurrence of each id.
func Dedupe(lists ...[]string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, l := range lists {
		for _, id := range l {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}
