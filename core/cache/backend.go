package cache

import (
	"context"
	"time"
)

// Backend persists raw cache values. Get returns ErrNotFound for missing or
// expired keys. A zero ttl stores the value without expiry.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func expiresAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

func expired(now, at time.Time) bool {
	return !at.IsZero() && !now.Before(at)
}
