package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/psfs/integration/database/redis"
)

func TestConnectValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "empty url", url: "", want: redis.ErrEmptyConnectionURL},
		{name: "wrong scheme", url: "http://localhost:6379", want: redis.ErrFailedToParseRedisConnString},
		{name: "bad port", url: "redis://localhost:notaport/0", want: redis.ErrFailedToParseRedisConnString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: tt.url})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConnectUnreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := redis.Connect(ctx, redis.Config{
		ConnectionURL: "redis://127.0.0.1:1/0",
		RetryAttempts: 2,
		RetryInterval: 10 * time.Millisecond,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}
