package pool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

// Allocator serves fixed-size blocks from a set of pools ordered by
// ascending block size, delegating everything else to a Fallback.
type Allocator struct {
	pools    []*Pool
	line     int
	reserver Reserver
	fallback Fallback
	log      *slog.Logger
	closed   bool

	counters counters
}

// New reserves every pool in cfg and returns a ready allocator.
// A nil cfg selects DefaultConfig. Pools whose reservation fails are left
// unusable and logged; only an invalid configuration is an error.
func New(cfg *Config) (*Allocator, error) {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := cfg.withDefaults()

	a := &Allocator{
		pools:    make([]*Pool, 0, len(c.Classes)),
		line:     c.CacheLine,
		reserver: c.Reserver,
		fallback: c.Fallback,
		log:      c.Logger,
	}
	for _, sc := range c.Classes {
		p, err := a.reserve(sc)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.pools = append(a.pools, p)
	}
	return a, nil
}

func (a *Allocator) reserve(sc SizeClass) (*Pool, error) {
	n, err := buf.SpanSize(sc.BlockCount, sc.BlockSize, a.line-1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	mem, err := a.reserver.Reserve(n)
	if err != nil {
		a.log.Warn("pool reservation failed; class disabled",
			"block_size", sc.BlockSize, "block_count", sc.BlockCount, "bytes", n, "err", err)
		return newPool(sc, nil, a.line)
	}
	p, err := newPool(sc, mem, a.line)
	if err != nil {
		_ = a.reserver.Release(mem)
		return nil, err
	}
	a.log.Debug("pool reserved",
		"block_size", sc.BlockSize, "block_count", sc.BlockCount, "start", fmt.Sprintf("%#x", p.start))
	return p, nil
}

// Allocate returns size bytes from the first pool whose block size covers
// size and that has a free block, or from the fallback otherwise. It returns
// nil for a negative size, after Close, or when the fallback fails.
func (a *Allocator) Allocate(size int) []byte {
	if a.closed || size < 0 {
		return nil
	}
	for _, p := range a.pools {
		if size > p.blockSize || p.free == 0 || !p.Usable() {
			continue
		}
		a.counters.poolAllocs++
		return p.block(p.pop(), size)
	}
	b := a.fallback.Alloc(size)
	if b == nil {
		a.counters.fallbackFails++
		return nil
	}
	a.counters.fallbackAllocs++
	return b
}

// Free returns b to its pool, or to the fallback if no pool span contains it.
// Freeing nil is a no-op. A block that is already free is reported as
// ErrDoubleFree and the pool is left unchanged.
func (a *Allocator) Free(b []byte) error {
	if b == nil {
		return nil
	}
	if a.closed {
		return ErrClosed
	}
	if cap(b) > 0 {
		addr := buf.Addr(b)
		for _, p := range a.pools {
			if !p.contains(addr) {
				continue
			}
			idx := int(addr-p.start) / p.blockSize
			if err := p.push(idx); err != nil {
				a.counters.doubleFrees++
				a.log.Warn("double free", "block_size", p.blockSize, "index", idx)
				return fmt.Errorf("%w: %d-byte class, block %d", err, p.blockSize, idx)
			}
			a.counters.poolFrees++
			return nil
		}
	}
	if err := a.fallback.Free(b); err != nil {
		a.counters.foreignFrees++
		return err
	}
	a.counters.fallbackFrees++
	return nil
}

// Owns reports which pool, by index into Pools, contains the first byte of b.
func (a *Allocator) Owns(b []byte) (class int, ok bool) {
	if cap(b) == 0 {
		return -1, false
	}
	addr := buf.Addr(b)
	for i, p := range a.pools {
		if p.contains(addr) {
			return i, true
		}
	}
	return -1, false
}

// Pools returns the pool set in ascending block size order.
// The pools must not be modified.
func (a *Allocator) Pools() []*Pool { return a.pools }

// CacheLine returns the alignment of every pool span.
func (a *Allocator) CacheLine() int { return a.line }

// Close releases every pool's backing storage. Afterwards Allocate returns
// nil and Free returns ErrClosed. Close is idempotent.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	var errs []error
	for _, p := range a.pools {
		if err := p.release(a.reserver); err != nil {
			errs = append(errs, fmt.Errorf("release %d-byte pool: %w", p.blockSize, err))
		}
	}
	a.pools = nil
	return errors.Join(errs...)
}
