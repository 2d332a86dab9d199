package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStoreFromClient(client), mr
}

func TestRedisStore_WindowSemantics(t *testing.T) {
	store, mr := newTestRedisStore(t)
	limiter := NewLimiter("waitlist", store, 3, time.Minute)
	ctx := context.Background()

	for n := 1; n <= 3; n++ {
		d, err := limiter.IsAllowed(ctx, "client-a")
		if err != nil {
			t.Fatalf("IsAllowed() failed: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", n)
		}
		if d.Remaining != 3-n {
			t.Errorf("request %d remaining = %d, want %d", n, d.Remaining, 3-n)
		}
	}

	d, err := limiter.IsAllowed(ctx, "client-a")
	if err != nil {
		t.Fatalf("IsAllowed() failed: %v", err)
	}
	if d.Allowed || d.Remaining != 0 {
		t.Fatalf("fourth request: %+v, want denied with 0 remaining", d)
	}
	if d.ResetAt.IsZero() {
		t.Error("ResetAt should be set from the key TTL")
	}

	if ttl := mr.TTL("ratelimit:waitlist:client-a"); ttl <= 0 || ttl > time.Minute {
		t.Errorf("key TTL = %s, want within (0, 1m]", ttl)
	}

	mr.FastForward(time.Minute + time.Second)

	d, err = limiter.IsAllowed(ctx, "client-a")
	if err != nil {
		t.Fatalf("IsAllowed() failed: %v", err)
	}
	if !d.Allowed || d.Remaining != 2 {
		t.Fatalf("request after expiry: %+v, want allowed with 2 remaining", d)
	}
}

func TestRedisStore_ZeroMaxDeniesEverything(t *testing.T) {
	store, _ := newTestRedisStore(t)
	limiter := NewLimiter("api", store, 0, time.Minute)

	for n := 1; n <= 2; n++ {
		d, err := limiter.IsAllowed(context.Background(), "client-a")
		if err != nil {
			t.Fatalf("IsAllowed() failed: %v", err)
		}
		if d.Allowed || d.Remaining != 0 {
			t.Fatalf("request %d with max=0: %+v, want denied", n, d)
		}
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	if _, err := store.Allow(context.Background(), "k", 1, time.Second); err == nil {
		t.Fatal("expected an error when redis is down")
	}
}
