package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Soundreaver/MarketWatchLite/internal/config"
	"github.com/Soundreaver/MarketWatchLite/internal/logging"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/coingecko"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/crossref"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/query"
	"github.com/Soundreaver/MarketWatchLite/pkg/mwl/watchlist"
)

// app holds the wired components for one command invocation.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *watchlist.Store
	markets *query.Markets
	quotes  crossref.Quoter
	closer  io.Closer
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log := logging.NewLogger(logOut, level)
	slog.SetDefault(log)

	slot, closer, err := openSlot(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("watchlist storage ready", "backend", cfg.Storage.Backend)

	client := coingecko.New(coingecko.Options{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		TopN:    cfg.API.TopN,
		Timeout: cfg.API.Timeout,
	})
	policies := query.DefaultPolicies()
	policies.List.RefetchInterval = cfg.Poll.Interval

	return &app{
		cfg:     cfg,
		log:     log,
		store:   watchlist.Open(ctx, slot, watchlist.WithLogger(log)),
		markets: query.NewMarkets(client, query.WithLogger(log), query.WithPolicies(policies)),
		quotes:  crossref.NewCachedQuoter(crossref.NewYahooQuoter(cfg.API.Timeout), cfg.Crossref.TTL, nil, log),
		closer:  closer,
	}, nil
}

func (a *app) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func openSlot(ctx context.Context, cfg *config.Config) (watchlist.Slot, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return watchlist.NewMemorySlot(), nil, nil
	case config.BackendFile:
		return &watchlist.FileSlot{Dir: cfg.Storage.Dir}, nil, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		path := cfg.Storage.DSN
		if path == "" {
			path = filepath.Join(cfg.Storage.Dir, "mwl.db")
		}
		s, err := watchlist.OpenSQLiteSlot(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendRedis:
		s, err := watchlist.OpenRedisSlot(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendPostgres:
		s, err := watchlist.OpenPostgresSlot(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
