package cache

import (
	"bytes"
	"encoding/gob"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stahnma/gh-repofeed/internal/ratelimit"
	"go.uber.org/zap"
)

func init() {
	gob.Register(ratelimit.State{}) // register for gob encoding of rate-limit snapshots
}

const (
	defaultExpiration = 4 * time.Hour
	cleanupInterval   = 6 * time.Hour
)

// Cache wraps go-cache with GOB persistence.
type Cache struct {
	inner *gocache.Cache
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{inner: gocache.New(defaultExpiration, cleanupInterval)}
}

// LoadFromFile loads a cache from a GOB file, returning a fresh cache when the
// file is missing or unreadable as GOB.
func LoadFromFile(filename string, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, err
	}
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	items := map[string]gocache.Item{}
	if err := dec.Decode(&items); err != nil {
		logger.Warn("cache decode error, starting fresh", zap.String("file", filename), zap.Error(err))
		return New(), nil
	}
	return &Cache{inner: gocache.NewFrom(defaultExpiration, cleanupInterval, items)}, nil
}

// SaveToFile saves the unexpired items to a GOB file.
func (c *Cache) SaveToFile(filename string) error {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(c.inner.Items()); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0600)
}

// Get retrieves a value by key.
func (c *Cache) Get(key string) (any, bool) {
	return c.inner.Get(key)
}

// Set stores a value with default expiration.
func (c *Cache) Set(key string, val any) {
	c.inner.Set(key, val, gocache.DefaultExpiration)
}

// SetUntil stores a value that expires at the given time. Values whose
// expiry has already passed are not stored.
func (c *Cache) SetUntil(key string, val any, at time.Time) {
	ttl := time.Until(at)
	if ttl <= 0 {
		c.inner.Delete(key)
		return
	}
	c.inner.Set(key, val, ttl)
}

// ItemCount returns the number of items, including expired ones not yet cleaned up.
func (c *Cache) ItemCount() int {
	return c.inner.ItemCount()
}

// Flush clears all cached items.
func (c *Cache) Flush() {
	c.inner.Flush()
}
