package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(t.TempDir(), ttl)
	require.NoError(t, err)
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	type listing struct {
		Names []string `json:"names"`
		Count int      `json:"count"`
	}
	require.NoError(t, c.Set("org-repos:acme", listing{Names: []string{"alpha", "beta"}, Count: 2}))

	var got listing
	found, err := c.Get("org-repos:acme", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"alpha", "beta"}, got.Names)
	assert.Equal(t, 2, got.Count)
}

func TestGetMiss(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	var got string
	found, err := c.Get("absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t, 50*time.Millisecond)
	require.NoError(t, c.Set("k", "v"))

	var got string
	found, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.True(t, found)

	time.Sleep(100 * time.Millisecond)

	found, err = c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCorruptEntryIsRemoved(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	cacheFile := c.entryPath("k")
	require.NoError(t, os.WriteFile(cacheFile, []byte("not json"), 0644))

	var got string
	found, err := c.Get("k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	_, statErr := os.Stat(cacheFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestClearAndStats(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(key, key))
	}

	count, size, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Positive(t, size)

	require.NoError(t, c.Clear())

	count, size, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Zero(t, size)
}

func TestKeyHashing(t *testing.T) {
	c := newTestCache(t, 24*time.Hour)

	assert.NotEqual(t, c.entryPath("k1"), c.entryPath("k2"))
	assert.Equal(t, c.entryPath("k1"), c.entryPath("k1"))
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, ".aiscan")
}
