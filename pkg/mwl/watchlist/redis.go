package watchlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisSlot keeps values under prefixed Redis keys with no expiry.
type RedisSlot struct {
	client *redis.Client
	prefix string
}

// OpenRedisSlot connects and pings the server.
func OpenRedisSlot(ctx context.Context, addr, password string, db int) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisSlot{client: client, prefix: "mwl:"}, nil
}

func (r *RedisSlot) Read(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (r *RedisSlot) Write(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (r *RedisSlot) Close() error { return r.client.Close() }
