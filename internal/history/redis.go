package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisMedium stores the history blob as a plain string value.
type RedisMedium struct {
	rdb *goredis.Client
}

func NewRedisMedium(ctx context.Context, addr, password string, db int) (*RedisMedium, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisMedium{rdb: rdb}, nil
}

func (m *RedisMedium) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := m.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (m *RedisMedium) Save(ctx context.Context, key string, data []byte) error {
	if err := m.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (m *RedisMedium) Remove(ctx context.Context, key string) error {
	if err := m.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (m *RedisMedium) Close() error {
	return m.rdb.Close()
}
