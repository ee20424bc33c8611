package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrymomot/psfs/integration/storage/s3"
)

const s3ExpiresMeta = "expires-at"

// ObjectStorage is the blob API the S3 backend needs. *s3.Storage satisfies it.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, metadata map[string]string) error
	Get(ctx context.Context, key string) ([]byte, map[string]string, error)
	Delete(ctx context.Context, key string) error
}

// S3Backend stores entries as objects; expiry lives in object metadata.
type S3Backend struct {
	storage ObjectStorage
	now     func() time.Time
}

// NewS3Backend wraps an object storage.
func NewS3Backend(storage ObjectStorage) *S3Backend {
	return &S3Backend{storage: storage, now: time.Now}
}

func (b *S3Backend) Get(ctx context.Context, key string) ([]byte, error) {
	data, meta, err := b.storage.Get(ctx, key)
	if errors.Is(err, s3.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if raw, ok := meta[s3ExpiresMeta]; ok {
		unix, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad expiry %q", ErrCorruptEntry, raw)
		}
		if expired(b.now(), time.Unix(unix, 0)) {
			_ = b.storage.Delete(ctx, key)
			return nil, ErrNotFound
		}
	}
	return data, nil
}

func (b *S3Backend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var meta map[string]string
	if at := expiresAt(b.now(), ttl); !at.IsZero() {
		meta = map[string]string{s3ExpiresMeta: strconv.FormatInt(at.Unix(), 10)}
	}
	return b.storage.Put(ctx, key, value, meta)
}

func (b *S3Backend) Delete(ctx context.Context, key string) error {
	return b.storage.Delete(ctx, key)
}

func (b *S3Backend) Close() error { return nil }
