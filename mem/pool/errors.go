package pool

import "errors"

var (
	// ErrDoubleFree indicates a block was freed while already free, or a free
	// would push a pool's free list beyond its capacity.
	ErrDoubleFree = errors.New("pool: block already free")

	// ErrClosed indicates use of an allocator after Close.
	ErrClosed = errors.New("pool: allocator closed")

	// ErrBadConfig indicates an invalid size class table or cache line size.
	ErrBadConfig = errors.New("pool: invalid configuration")

	// ErrReserve indicates a backing storage reservation could not be satisfied.
	ErrReserve = errors.New("pool: reservation failed")

	// ErrForeign indicates the fallback was handed a slice it never returned.
	ErrForeign = errors.New("pool: slice not owned by allocator")
)
