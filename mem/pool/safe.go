package pool

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// SafeAllocator is a mutex-protected wrapper around Allocator for concurrent
// access. Every operation serializes on one allocator-wide lock.
type SafeAllocator struct {
	_  cpu.CacheLinePad
	mu sync.Mutex
	a  *Allocator
	_  cpu.CacheLinePad
}

// NewSafe builds an Allocator from cfg and wraps it.
func NewSafe(cfg *Config) (*SafeAllocator, error) {
	a, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &SafeAllocator{a: a}, nil
}

// Allocate thread-safely allocates size bytes.
func (s *SafeAllocator) Allocate(size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Allocate(size)
}

// Free thread-safely returns b.
func (s *SafeAllocator) Free(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Free(b)
}

// Owns thread-safely reports the pool containing b.
func (s *SafeAllocator) Owns(b []byte) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Owns(b)
}

// Stats thread-safely snapshots the allocator.
func (s *SafeAllocator) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Stats()
}

// Close thread-safely releases all pools.
func (s *SafeAllocator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Close()
}
