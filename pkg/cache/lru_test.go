package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/cache"
)

func TestLRUCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get non-existent", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)
		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("update existing returns old value", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		old, existed := c.Put("a", 2)

		assert.True(t, existed)
		assert.Equal(t, 1, old)
		val, _ := c.Get("a")
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("zero capacity panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	})
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](3)
		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)
		c.Get("a")
		c.Put("d", 4)

		_, ok := c.Get("b")
		assert.False(t, ok, "b should have been evicted")
		assert.Equal(t, []string{"d", "a", "c"}, c.Keys())
	})

	t.Run("peek does not refresh", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](2)
		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Peek("a")
		require.True(t, ok)
		assert.Equal(t, 1, val)

		c.Put("c", 3)
		_, ok = c.Peek("a")
		assert.False(t, ok)
	})

	t.Run("callback on capacity, remove and clear", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](2)
		var evicted []string
		c.SetEvictCallback(func(k string, _ int) { evicted = append(evicted, k) })

		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3)
		assert.Equal(t, []string{"a"}, evicted)

		c.Put("c", 30)
		assert.Equal(t, []string{"a"}, evicted, "replacing does not evict")

		val, ok := c.Remove("b")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, []string{"a", "b"}, evicted)

		_, ok = c.Remove("missing")
		assert.False(t, ok)

		c.Clear()
		assert.Equal(t, []string{"a", "b", "c"}, evicted)
		assert.Zero(t, c.Len())
	})

	t.Run("callback may re-enter the cache", func(t *testing.T) {
		t.Parallel()
		c := cache.NewLRUCache[string, int](1)
		var lens []int
		c.SetEvictCallback(func(string, int) { lens = append(lens, c.Len()) })

		c.Put("a", 1)
		c.Put("b", 2)
		assert.Equal(t, []int{1}, lens)
	})
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[int, int](50)
	var mu sync.Mutex
	evicted := 0
	c.SetEvictCallback(func(int, int) {
		mu.Lock()
		evicted++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := range 100 {
				c.Put(base*100+i, i)
				c.Get(base*100 + i/2)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	assert.Equal(t, 800-50, evicted)
}
