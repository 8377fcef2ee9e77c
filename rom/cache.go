package rom

import (
	"errors"
	"path/filepath"

	"github.com/eapache/queue"
)

// DefaultCacheEntries is the number of images a Cache holds by default.
const DefaultCacheEntries = 16

// CacheStats counts cache activity.
type CacheStats struct {
	Entries   int    `json:"entries"`
	Capacity  int    `json:"capacity"`
	Bytes     int    `json:"bytes"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// HitRate returns hits over lookups, or 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache holds loaded images by path, evicting the oldest first.
// It is not safe for concurrent use.
type Cache struct {
	loader   *Loader
	capacity int
	entries  map[string]*Image
	order    *queue.Queue // cleaned paths, oldest at the head

	hits, misses, evictions uint64
}

// NewCache returns a cache over l holding at most capacity images.
// capacity <= 0 selects DefaultCacheEntries.
func NewCache(l *Loader, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheEntries
	}
	return &Cache{
		loader:   l,
		capacity: capacity,
		entries:  make(map[string]*Image, capacity),
		order:    queue.New(),
	}
}

// Get returns the cached image for path, loading it on a miss. Load
// failures are returned unchanged and nothing is cached.
func (c *Cache) Get(path string) (*Image, error) {
	key := filepath.Clean(path)
	if img, ok := c.entries[key]; ok {
		c.hits++
		return img, nil
	}
	c.misses++

	img, err := c.loader.Load(key)
	if err != nil {
		return nil, err
	}
	for len(c.entries) >= c.capacity {
		if err := c.evictOldest(); err != nil {
			_ = img.Release()
			return nil, err
		}
	}
	c.entries[key] = img
	c.order.Add(key)
	return img, nil
}

// Contains reports whether path is cached, without counting a lookup.
func (c *Cache) Contains(path string) bool {
	_, ok := c.entries[filepath.Clean(path)]
	return ok
}

func (c *Cache) evictOldest() error {
	key := c.order.Remove().(string)
	img := c.entries[key]
	delete(c.entries, key)
	c.evictions++
	c.loader.log.Debug("image evicted", "path", key)
	return img.Release()
}

// Len returns the number of cached images.
func (c *Cache) Len() int { return len(c.entries) }

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	s := CacheStats{
		Entries:   len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	for _, img := range c.entries {
		s.Bytes += img.Size
	}
	return s
}

// Reset releases every cached image. Counters are kept.
func (c *Cache) Reset() error {
	var errs []error
	for c.order.Length() > 0 {
		key := c.order.Remove().(string)
		if err := c.entries[key].Release(); err != nil {
			errs = append(errs, err)
		}
		delete(c.entries, key)
	}
	return errors.Join(errs...)
}
