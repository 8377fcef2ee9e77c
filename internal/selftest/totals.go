package selftest

import (
	"sync"

	"github.com/joshuapare/sf2kmem/mem/pool"
)

// PoolTotals sums the allocator activity of every case in a run.
type PoolTotals struct {
	Allocators     int    `json:"allocators"`
	ReservedBytes  int    `json:"reserved_bytes"`
	PoolAllocs     uint64 `json:"pool_allocs"`
	PoolFrees      uint64 `json:"pool_frees"`
	FallbackAllocs uint64 `json:"fallback_allocs"`
	FallbackFrees  uint64 `json:"fallback_frees"`
	FallbackFails  uint64 `json:"fallback_fails"`
	ForeignFrees   uint64 `json:"foreign_frees"`
	DoubleFrees    uint64 `json:"double_frees"`
	Unreleased     int    `json:"unreleased_blocks"` // pool blocks still in use at close
}

type tally struct {
	mu     sync.Mutex
	totals PoolTotals
}

func (t *tally) add(s pool.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totals.Allocators++
	t.totals.ReservedBytes += s.ReservedBytes()
	t.totals.PoolAllocs += s.PoolAllocs
	t.totals.PoolFrees += s.PoolFrees
	t.totals.FallbackAllocs += s.FallbackAllocs
	t.totals.FallbackFrees += s.FallbackFrees
	t.totals.FallbackFails += s.FallbackFails
	t.totals.ForeignFrees += s.ForeignFrees
	t.totals.DoubleFrees += s.DoubleFrees
	for _, ps := range s.Pools {
		t.totals.Unreleased += ps.InUse
	}
}

func (t *tally) snapshot() PoolTotals {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totals
}

// statCloser is satisfied by *pool.Allocator and *pool.SafeAllocator.
type statCloser interface {
	Stats() pool.Stats
	Close() error
}

// release records a's final counters in the run totals and closes it.
func (e *Env) release(a statCloser) {
	e.record(a.Stats())
	_ = a.Close()
}

func (e *Env) record(s pool.Stats) {
	if e.tally != nil {
		e.tally.add(s)
	}
}
