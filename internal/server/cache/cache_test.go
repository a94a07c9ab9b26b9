package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := New(time.Minute, time.Minute)

	_, ok := c.Get("web-features/grid")
	assert.False(t, ok)

	c.Set("web-features/grid", "<h2>Grid</h2>")
	v, ok := c.Get("web-features/grid")
	assert.True(t, ok)
	assert.Equal(t, "<h2>Grid</h2>", v)

	assert.Equal(t, Stats{ItemCount: 1, Hits: 1, Misses: 1}, c.GetStats())

	c.Delete("web-features/grid")
	_, ok = c.Get("web-features/grid")
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	assert.Equal(t, 0, c.GetStats().ItemCount)
}

func TestCacheExpiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Hour)
	c.Set("k", "v")
	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 5*time.Millisecond)
}
