package cache

import (
	"context"
	"sync/atomic"
	"time"
)

type memoryItem struct {
	data    []byte
	expires time.Time
}

// MemoryBackend keeps entries in an in-process LRU.
type MemoryBackend struct {
	lru    *LRUCache[string, memoryItem]
	closed atomic.Bool
	now    func() time.Time
}

// NewMemoryBackend creates a memory backend holding at most capacity keys.
func NewMemoryBackend(capacity int) *MemoryBackend {
	return &MemoryBackend{
		lru: NewLRUCache[string, memoryItem](capacity),
		now: time.Now,
	}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	item, ok := b.lru.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	if expired(b.now(), item.expires) {
		b.lru.Remove(key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), item.data...), nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.lru.Put(key, memoryItem{
		data:    append([]byte(nil), value...),
		expires: expiresAt(b.now(), ttl),
	})
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.lru.Remove(key)
	return nil
}

// Len returns the number of stored keys, expired ones included.
func (b *MemoryBackend) Len() int {
	return b.lru.Len()
}

func (b *MemoryBackend) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		b.lru.Clear()
	}
	return nil
}
