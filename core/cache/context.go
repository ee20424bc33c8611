package cache

import (
	"context"
	"time"
)

type ttlKey struct{}

// WithTTL overrides the cache lifetime for the request carrying ctx.
// A negative ttl disables caching for that request.
func WithTTL(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, ttlKey{}, ttl)
}

// TTLFromContext returns the override set by WithTTL.
func TTLFromContext(ctx context.Context) (time.Duration, bool) {
	ttl, ok := ctx.Value(ttlKey{}).(time.Duration)
	return ttl, ok
}
