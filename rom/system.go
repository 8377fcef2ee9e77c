package rom

import (
	"errors"
	"log/slog"

	"github.com/joshuapare/sf2kmem/internal/logging"
	"github.com/joshuapare/sf2kmem/mem/pool"
)

// SystemAllocator is the allocator surface a System manages.
type SystemAllocator interface {
	Allocator
	Stats() pool.Stats
	Close() error
}

// SystemConfig configures NewSystem. A nil config selects every default.
type SystemConfig struct {
	Pool         *pool.Config   // Default: pool.DefaultConfig()
	Loader       *LoaderOptions // Default: package defaults
	CacheEntries int            // Default: DefaultCacheEntries
	Concurrent   bool           // Wrap the allocator in a pool.SafeAllocator
	Logger       *slog.Logger   // Passed to pool and loader unless they set their own
}

// System owns an allocator, a loader over it and an image cache.
type System struct {
	Alloc  SystemAllocator
	Loader *Loader
	Cache  *Cache

	log *slog.Logger
}

// SystemStats combines allocator and cache snapshots.
type SystemStats struct {
	Pool  pool.Stats `json:"pool"`
	Cache CacheStats `json:"cache"`
}

// NewSystem reserves the pools and wires the loader and cache to them.
func NewSystem(cfg *SystemConfig) (*System, error) {
	if cfg == nil {
		cfg = &SystemConfig{}
	}
	log := logging.OrDiscard(cfg.Logger)

	pc := pool.DefaultConfig()
	if cfg.Pool != nil {
		pc = *cfg.Pool
	}
	if pc.Logger == nil && cfg.Logger != nil {
		pc.Logger = cfg.Logger
	}

	var (
		a   SystemAllocator
		err error
	)
	if cfg.Concurrent {
		a, err = pool.NewSafe(&pc)
	} else {
		a, err = pool.New(&pc)
	}
	if err != nil {
		return nil, err
	}

	lo := LoaderOptions{}
	if cfg.Loader != nil {
		lo = *cfg.Loader
	}
	if lo.Logger == nil {
		lo.Logger = log
	}
	l := NewLoader(a, &lo)

	s := &System{Alloc: a, Loader: l, Cache: NewCache(l, cfg.CacheEntries), log: log}
	log.Info("memory system ready", "pool_bytes", a.Stats().ReservedBytes(), "cache_entries", s.Cache.capacity)
	return s, nil
}

// Reset drops every cached image and keeps the pools reserved.
func (s *System) Reset() error {
	return s.Cache.Reset()
}

// Stats returns allocator and cache snapshots.
func (s *System) Stats() SystemStats {
	return SystemStats{Pool: s.Alloc.Stats(), Cache: s.Cache.Stats()}
}

// Close releases cached images and then the pools.
func (s *System) Close() error {
	return errors.Join(s.Cache.Reset(), s.Alloc.Close())
}
