package watchlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresSlot keeps values in a watchlist_slots table, for setups that share
// one watchlist between machines.
type PostgresSlot struct {
	db *sqlx.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS watchlist_slots (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func OpenPostgresSlot(ctx context.Context, dsn string) (*PostgresSlot, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &PostgresSlot{db: db}, nil
}

func (p *PostgresSlot) Read(ctx context.Context, key string) ([]byte, error) {
	var v string
	err := p.db.GetContext(ctx, &v, `SELECT value FROM watchlist_slots WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return []byte(v), nil
}

func (p *PostgresSlot) Write(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO watchlist_slots (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (p *PostgresSlot) Close() error { return p.db.Close() }
