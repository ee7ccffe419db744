package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/leafkeeper/leafkeeper/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestMemoryGetSetClear(t *testing.T) {
	m := cache.NewMemory()

	_, ok := m.Get("missing")
	assert.False(t, ok)

	m.Set("k", "v")
	v, ok := m.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, m.Len())

	m.Clear()
	_, ok = m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := cache.NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n)
			m.Set(key, n)
			m.Get(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, m.Len())
}
