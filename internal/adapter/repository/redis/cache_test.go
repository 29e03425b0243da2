package redis

import (
	"context"
	"testing"
	"time"
)

func TestAccountLookupCacheRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewAccountLookupCache(client, time.Minute)
	ctx := context.Background()

	if _, ok, err := cache.LookupAccountID(ctx, "998901234567"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := cache.RememberAccountID(ctx, "998901234567", "acc-1"); err != nil {
		t.Fatalf("remember failed: %v", err)
	}

	id, ok, err := cache.LookupAccountID(ctx, "998901234567")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if id != "acc-1" {
		t.Fatalf("expected acc-1, got %s", id)
	}

	if !mr.Exists("cache:account:phone:998901234567") {
		t.Fatalf("expected namespaced key")
	}
}

func TestAccountLookupCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewAccountLookupCache(client, time.Minute)
	ctx := context.Background()

	if err := cache.RememberAccountID(ctx, "998901234567", "acc-1"); err != nil {
		t.Fatalf("remember failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := cache.LookupAccountID(ctx, "998901234567"); err != nil || ok {
		t.Fatalf("expected expired entry, got ok=%v err=%v", ok, err)
	}
}

func TestAccountLookupCacheUnavailable(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	cache := NewAccountLookupCache(client, 0)
	mr.Close()

	if _, _, err := cache.LookupAccountID(context.Background(), "998901234567"); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
