package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet(t *testing.T) {
	s := NewStore(10)

	s.Set("search:35.68:139.76", `[{"id":"a"}]`, time.Minute)

	v, ok := s.Get("search:35.68:139.76")
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	s := NewStore(10)

	s.Set("k", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := NewStore(10)

	s.Set("trash_bin:x", "cached", time.Minute)
	s.Delete("trash_bin:x")

	_, ok := s.Get("trash_bin:x")
	assert.False(t, ok)
}

func TestOverwriteKeepsSingleEntry(t *testing.T) {
	s := NewStore(2)

	s.Set("k", "v1", time.Minute)
	s.Set("k", "v2", time.Minute)

	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, s.GetStats()["cache_size"])
}

func TestEvictionAtCapacity(t *testing.T) {
	s := NewStore(3)

	for i := 0; i < 3; i++ {
		s.Set(fmt.Sprintf("k%d", i), "v", time.Minute)
	}
	// Touch k1 and k2 so k0 stays least recently used.
	s.Get("k1")
	s.Get("k2")

	s.Set("k3", "v", time.Minute)

	_, ok := s.Get("k0")
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok = s.Get("k3")
	assert.True(t, ok)
}

func TestStats(t *testing.T) {
	s := NewStore(10)

	s.Set("k", "v", time.Minute)
	s.Get("k")
	s.Get("nope")

	stats := s.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}
