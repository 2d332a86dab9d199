package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Store counts requests per key inside a fixed window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}

// Limiter throttles one class of endpoint. Limiters never share keys, so two
// limiters backed by the same store still count independently.
type Limiter struct {
	name   string
	store  Store
	max    int
	window time.Duration
}

func NewLimiter(name string, store Store, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		name:   name,
		store:  store,
		max:    maxRequests,
		window: window,
	}
}

func (l *Limiter) Name() string {
	return l.name
}

func (l *Limiter) IsAllowed(ctx context.Context, identifier string) (Decision, error) {
	return l.store.Allow(ctx, "ratelimit:"+l.name+":"+identifier, l.max, l.window)
}
