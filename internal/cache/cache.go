// Package cache is a small disk cache for GitHub listing responses.
// Entries are JSON envelopes keyed by the sha256 of their lookup key, each
// carrying its own expiry so stale files self-evict on read.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Cache struct {
	baseDir string
	ttl     time.Duration
}

// envelope wraps a cached payload with its lifetime. The payload stays raw
// until a reader asks for it, so one cache can hold mixed listing types.
type envelope struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// New opens a cache rooted at baseDir, creating it if needed. An empty
// baseDir falls back to DefaultPath.
func New(baseDir string, ttl time.Duration) (*Cache, error) {
	if baseDir == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		baseDir = p
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{baseDir: baseDir, ttl: ttl}, nil
}

// Get unmarshals the entry for key into value. The bool reports a hit;
// corrupt or expired entries are deleted and reported as misses.
func (c *Cache) Get(key string, value interface{}) (bool, error) {
	path := c.entryPath(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read cache file: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		_ = os.Remove(path)
		return false, nil
	}
	if time.Now().After(env.ExpiresAt) {
		_ = os.Remove(path)
		return false, nil
	}

	if err := json.Unmarshal(env.Payload, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached payload: %w", err)
	}
	return true, nil
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	now := time.Now()
	data, err := json.Marshal(envelope{
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := c.entryPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Clear removes the whole cache directory.
func (c *Cache) Clear() error {
	return os.RemoveAll(c.baseDir)
}

// Stats returns the count of live entries and the total on-disk size.
// Expired files still count toward size until something evicts them.
func (c *Cache) Stats() (int, int64, error) {
	files, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var size int64
	live := 0
	now := time.Now()

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		size += info.Size()

		data, err := os.ReadFile(filepath.Join(c.baseDir, f.Name()))
		if err != nil {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if now.Before(env.ExpiresAt) {
			live++
		}
	}

	return live, size, nil
}

// entryPath hashes the key so arbitrary listing keys stay filesystem-safe.
func (c *Cache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.baseDir, hex.EncodeToString(sum[:])+".json")
}

// DefaultPath returns the default cache directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".aiscan", "cache"), nil
}
