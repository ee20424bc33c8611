package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		c := &clock{t: start}
		b := NewMemoryBackend(4)
		b.now = c.now

		require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
		c.t = start.Add(59 * time.Second)
		_, err := b.Get(ctx, "k")
		require.NoError(t, err)

		c.t = start.Add(time.Minute)
		_, err = b.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, b.Len())
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		c := &clock{t: start}
		b, err := NewFileBackend(t.TempDir(), WithCompression())
		require.NoError(t, err)
		b.now = c.now

		require.NoError(t, b.Set(ctx, "json/aa/bb/k", []byte("v"), time.Minute))
		c.t = start.Add(2 * time.Minute)
		_, err = b.Get(ctx, "json/aa/bb/k")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		c := &clock{t: start}
		b, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "c.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		b.now = c.now

		require.NoError(t, b.Set(ctx, "a", []byte("1"), time.Minute))
		require.NoError(t, b.Set(ctx, "b", []byte("2"), 0))
		c.t = start.Add(time.Hour)

		n, err := b.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		got, err := b.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "2", string(got))
	})

	t.Run("s3", func(t *testing.T) {
		t.Parallel()
		c := &clock{t: start}
		objects := map[string][]byte{}
		meta := map[string]map[string]string{}
		b := NewS3Backend(mapObjects{data: objects, meta: meta})
		b.now = c.now

		require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
		c.t = start.Add(time.Minute)
		_, err := b.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Empty(t, objects)
	})
}

type mapObjects struct {
	data map[string][]byte
	meta map[string]map[string]string
}

func (m mapObjects) Put(_ context.Context, key string, data []byte, md map[string]string) error {
	m.data[key], m.meta[key] = data, md
	return nil
}

func (m mapObjects) Get(_ context.Context, key string) ([]byte, map[string]string, error) {
	d, ok := m.data[key]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return d, m.meta[key], nil
}

func (m mapObjects) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	delete(m.meta, key)
	return nil
}
