package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	c.Set("posts:recent:1:10", 42, time.Minute)
	assert.Equal(t, 42, c.Get("posts:recent:1:10"))
	assert.Nil(t, c.Get("missing"))
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	c.Set("k", "v", -time.Second)
	assert.Nil(t, c.Get("k"), "expired entries are dropped on read")
}

func TestCachePurge(t *testing.T) {
	c, err := NewCache(4)
	require.NoError(t, err)

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Purge()
	assert.Nil(t, c.Get("a"))
	assert.Nil(t, c.Get("b"))
}

func TestStringToID(t *testing.T) {
	id, ok := StringToID("17")
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)

	_, ok = StringToID("0")
	assert.False(t, ok)
	_, ok = StringToID("-3")
	assert.False(t, ok)
	_, ok = StringToID("abc")
	assert.False(t, ok)
}
