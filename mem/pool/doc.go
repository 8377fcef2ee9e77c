// Package pool provides a fixed-size block allocator for small and medium
// allocations, backed by a handful of pre-reserved, cache-line aligned pools.
//
// # Overview
//
// An Allocator owns an ordered set of pools, one per size class. Each pool
// holds blockCount blocks of blockSize bytes in one contiguous span and keeps
// an index stack of free blocks, so Allocate and Free cost O(number of pools)
// and never scan blocks.
//
// Requests that no pool can serve (too large, or every sufficient pool is
// exhausted) go to a Fallback allocator, which by default is the Go heap.
//
// # Size Classes
//
// The default schedule trades many small blocks for few large ones:
//
//	Class 0:   32 bytes x 256
//	Class 1:   64 bytes x 128
//	Class 2:  128 bytes x  64
//	Class 3:  256 bytes x  32
//	Class 4:  512 bytes x  16
//	Class 5:    1 KB    x   8
//	Class 6:    2 KB    x   4
//	Class 7:    4 KB    x   2
//
// Allocate picks the first pool, smallest first, whose block size covers the
// request and that still has a free block. A request only spills into a larger
// class once every smaller sufficient class is exhausted.
//
// # Usage Example
//
//	a, err := pool.New(nil) // default classes, 32-byte cache line
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	b := a.Allocate(40) // served by the 64-byte pool
//	copy(b, payload)
//	if err := a.Free(b); err != nil {
//	    return err // ErrDoubleFree, ErrClosed, or a fallback error
//	}
//
// # Handles
//
// Allocate returns a []byte of the requested length whose capacity is the
// block size. No header is stored with the block; Free re-derives the owning
// pool by checking the slice's address against each pool span. Any slice whose
// first element lies inside a returned block may be passed to Free. Blocks
// from an MmapReserver must not be touched after Close.
//
// # Reservation Failures
//
// If a pool's backing storage cannot be reserved, the pool is marked unusable
// and skipped forever; New still succeeds. Requests that would have used it
// fall through to the next class or to the fallback.
//
// # Thread Safety
//
// Allocator is not safe for concurrent use. SafeAllocator wraps one behind a
// single mutex.
package pool
