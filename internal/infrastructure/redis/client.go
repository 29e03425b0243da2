package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/bonusledger/internal/domain"
)

// NewClient connects to the Redis instance at redisURL and checks that it
// answers. An unreachable server is reported as domain.ErrStoreUnavailable.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", domain.ErrStoreUnavailable, opts.Addr, err)
	}

	return client, nil
}
