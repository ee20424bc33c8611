package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/psfs/core/cache"
)

func TestLRUCache(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](2)
		var evicted []string
		c.SetEvictCallback(func(k string, _ int) { evicted = append(evicted, k) })

		assert.False(t, c.Put("a", 1))
		assert.False(t, c.Put("b", 2))
		_, ok := c.Get("a")
		require.True(t, ok)

		assert.True(t, c.Put("c", 3))
		assert.Equal(t, []string{"b"}, evicted)
		assert.Equal(t, []string{"c", "a"}, c.Keys())
	})

	t.Run("put replaces existing value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("a", 2)

		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove and clear", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[int, string](0)
		c.Put(1, "x")
		v, ok := c.Remove(1)
		assert.True(t, ok)
		assert.Equal(t, "x", v)
		_, ok = c.Remove(1)
		assert.False(t, ok)

		c.Put(2, "y")
		c.Clear()
		assert.Zero(t, c.Len())
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		c := cache.NewLRUCache[int, int](64)
		var wg sync.WaitGroup
		for g := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 500 {
					c.Put(g*1000+i, i)
					c.Get(i)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 64, c.Len())
	})
}
