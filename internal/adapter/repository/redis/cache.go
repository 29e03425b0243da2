package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultLookupTTL bounds how long a phone to account mapping is trusted.
const DefaultLookupTTL = 24 * time.Hour

// AccountLookupCache implements usecase.AccountLookupCache using Redis.
// Phone numbers never move between accounts, so entries only expire.
type AccountLookupCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewAccountLookupCache creates a new AccountLookupCache.
func NewAccountLookupCache(client *redis.Client, ttl time.Duration) *AccountLookupCache {
	if ttl <= 0 {
		ttl = DefaultLookupTTL
	}
	return &AccountLookupCache{
		client: client,
		prefix: "cache:account:phone:",
		ttl:    ttl,
	}
}

// LookupAccountID returns the cached account ID of a normalized phone number.
func (c *AccountLookupCache) LookupAccountID(ctx context.Context, phone string) (string, bool, error) {
	id, err := c.client.Get(ctx, c.prefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// RememberAccountID caches the account ID of a normalized phone number.
func (c *AccountLookupCache) RememberAccountID(ctx context.Context, phone, accountID string) error {
	return c.client.Set(ctx, c.prefix+phone, accountID, c.ttl).Err()
}
