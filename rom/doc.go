// Package rom loads cartridge and BIOS images into pool-allocated,
// cache-line aligned memory and keeps a small cache of loaded images.
//
// # Loading
//
// Loader.Load opens a file, checks its length against MaxSize, asks the
// allocator for length+CacheLine bytes, aligns the start of the image to a
// cache line inside that allocation and fills it with fixed-size chunk reads.
// Any failure releases the allocation before returning; no partial buffer
// escapes.
//
//	a, _ := pool.New(nil)
//	l := rom.NewLoader(a, nil)
//	img, err := l.Load("gradius.rom")
//	if err != nil {
//	    return err // wraps ErrOpen, ErrEmpty, ErrTooLarge, ErrNoMemory or ErrShortRead
//	}
//	defer img.Release()
//
// # Caching
//
// Cache keeps up to DefaultCacheEntries images keyed by cleaned path and
// evicts the oldest entry first. Images returned by Cache.Get belong to the
// cache and stay valid until they are evicted or the cache is reset.
//
// # System
//
// System bundles an allocator, a loader and a cache with one lifecycle:
// NewSystem reserves the pools, Reset drops cached images but keeps the
// pools, Close tears everything down.
//
// Apart from the CRC-32, only ParseHeader looks at image contents, to
// decode an MSX cartridge header.
package rom
