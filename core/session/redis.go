package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis used by RedisStore.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps each session as a JSON string keyed by token, plus an
// id-to-token index used by Delete. Expiry is delegated to Redis.
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisStore creates a store whose keys start with prefix.
func NewRedisStore(client RedisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) tokenKey(token string) string { return s.prefix + "token:" + token }
func (s *RedisStore) idKey(id uuid.UUID) string     { return s.prefix + "id:" + id.String() }

func (s *RedisStore) GetByToken(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	prev, err := s.client.Get(ctx, s.idKey(sess.ID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return fmt.Errorf("redis get session index: %w", err)
	case prev != sess.Token:
		if err := s.client.Del(ctx, s.tokenKey(prev)).Err(); err != nil {
			return fmt.Errorf("redis drop rotated token: %w", err)
		}
	}

	if err := s.client.Set(ctx, s.tokenKey(sess.Token), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	if err := s.client.Set(ctx, s.idKey(sess.ID), sess.Token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session index: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	token, err := s.client.Get(ctx, s.idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("redis get session index: %w", err)
	}
	if err := s.client.Del(ctx, s.tokenKey(token), s.idKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis expires keys itself.
func (s *RedisStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
