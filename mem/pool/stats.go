package pool

// counters holds allocator-wide event counts.
type counters struct {
	poolAllocs     uint64
	poolFrees      uint64
	fallbackAllocs uint64
	fallbackFails  uint64
	fallbackFrees  uint64
	foreignFrees   uint64
	doubleFrees    uint64
}

// PoolStats is a snapshot of one pool.
type PoolStats struct {
	BlockSize  int     `json:"block_size"`
	BlockCount int     `json:"block_count"`
	FreeCount  int     `json:"free_count"`
	InUse      int     `json:"in_use"` // from the allocation bitmap, not derived from FreeCount
	Usable     bool    `json:"usable"`
	Start      uintptr `json:"start"`
	End        uintptr `json:"end"`
}

// Stats is a snapshot of an allocator.
type Stats struct {
	Pools []PoolStats `json:"pools"`

	PoolAllocs     uint64 `json:"pool_allocs"`     // Allocate calls served by a pool
	PoolFrees      uint64 `json:"pool_frees"`      // Free calls returning a block to a pool
	FallbackAllocs uint64 `json:"fallback_allocs"` // Allocate calls served by the fallback
	FallbackFails  uint64 `json:"fallback_fails"`  // Allocate calls that returned nil from the fallback
	FallbackFrees  uint64 `json:"fallback_frees"`  // Free calls the fallback accepted
	ForeignFrees   uint64 `json:"foreign_frees"`   // Free calls the fallback rejected
	DoubleFrees    uint64 `json:"double_frees"`    // Free calls rejected with ErrDoubleFree
}

// Stats returns a snapshot of every pool and the event counters.
func (a *Allocator) Stats() Stats {
	s := Stats{
		Pools:          make([]PoolStats, 0, len(a.pools)),
		PoolAllocs:     a.counters.poolAllocs,
		PoolFrees:      a.counters.poolFrees,
		FallbackAllocs: a.counters.fallbackAllocs,
		FallbackFails:  a.counters.fallbackFails,
		FallbackFrees:  a.counters.fallbackFrees,
		ForeignFrees:   a.counters.foreignFrees,
		DoubleFrees:    a.counters.doubleFrees,
	}
	for _, p := range a.pools {
		s.Pools = append(s.Pools, PoolStats{
			BlockSize:  p.blockSize,
			BlockCount: p.blockCount,
			FreeCount:  p.free,
			InUse:      p.inUseCount(),
			Usable:     p.Usable(),
			Start:      p.start,
			End:        p.end,
		})
	}
	return s
}

// ReservedBytes returns the total block storage of all usable pools.
func (s Stats) ReservedBytes() int {
	n := 0
	for _, p := range s.Pools {
		if p.Usable {
			n += p.BlockSize * p.BlockCount
		}
	}
	return n
}

// InUseBytes returns the block storage currently handed out by usable pools.
func (s Stats) InUseBytes() int {
	n := 0
	for _, p := range s.Pools {
		n += p.BlockSize * p.InUse
	}
	return n
}

// Utilization returns InUseBytes/ReservedBytes, or 0 with nothing reserved.
func (s Stats) Utilization() float64 {
	r := s.ReservedBytes()
	if r == 0 {
		return 0
	}
	return float64(s.InUseBytes()) / float64(r)
}
