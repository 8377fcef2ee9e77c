package selftest

import (
	"errors"
	"math/rand"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/sf2kmem/internal/buf"
	"github.com/joshuapare/sf2kmem/mem/pool"
)

// PoolSuite checks the pool allocator against its structural guarantees.
func PoolSuite() Suite {
	return Suite{
		Name: "pool",
		Cases: []Case{
			{Name: "span alignment", Run: poolAlignment},
			{Name: "block conservation", Run: poolConservation},
			{Name: "no aliasing", Run: poolAliasing},
			{Name: "first fit", Run: poolFirstFit},
			{Name: "fallback on exhaustion", Run: poolFallback},
			{Name: "double free", Run: poolDoubleFree},
			{Name: "reservation failure", Run: poolReserveFailure},
			{Name: "concurrent use", Run: poolConcurrent},
		},
	}
}

func newAllocator(env *Env, cfg *pool.Config) (*pool.Allocator, error) {
	c := pool.DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	c.Logger = env.Logger
	return pool.New(&c)
}

// checkCounts verifies free + in-use == count for every pool.
func checkCounts(a *pool.Allocator) (Result, string) {
	for _, ps := range a.Stats().Pools {
		if ps.FreeCount+ps.InUse != ps.BlockCount {
			return fail("%d-byte pool: %d free + %d in use != %d blocks",
				ps.BlockSize, ps.FreeCount, ps.InUse, ps.BlockCount)
		}
	}
	return Pass, ""
}

func poolAlignment(env *Env) (Result, string) {
	a, err := newAllocator(env, nil)
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)
	for _, p := range a.Pools() {
		start, _ := p.Span()
		if start%uintptr(a.CacheLine()) != 0 {
			return fail("%d-byte pool starts at %#x", p.BlockSize(), start)
		}
	}
	return pass("%d pools aligned to %d bytes", len(a.Pools()), a.CacheLine())
}

func poolConservation(env *Env) (Result, string) {
	a, err := newAllocator(env, nil)
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)

	rng := rand.New(rand.NewSource(env.Seed))
	var live [][]byte
	const steps = 4000
	for i := range steps {
		if len(live) > 0 && rng.Intn(3) == 0 {
			j := rng.Intn(len(live))
			if err := a.Free(live[j]); err != nil {
				return fail("step %d: free: %v", i, err)
			}
			live[j] = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			b := a.Allocate(1 + rng.Intn(5000))
			if b == nil {
				return fail("step %d: allocation failed", i)
			}
			live = append(live, b)
		}
		if res, detail := checkCounts(a); res != Pass {
			return fail("step %d: %s", i, detail)
		}
	}
	for _, b := range live {
		if err := a.Free(b); err != nil {
			return fail("drain: %v", err)
		}
	}
	for _, p := range a.Pools() {
		if p.FreeCount() != p.BlockCount() {
			return fail("%d-byte pool: %d of %d free after drain", p.BlockSize(), p.FreeCount(), p.BlockCount())
		}
	}
	return pass("%d random steps", steps)
}

func poolAliasing(env *Env) (Result, string) {
	a, err := newAllocator(env, nil)
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)

	type span struct{ lo, hi uintptr }
	var spans []span
	var live [][]byte
	defer func() {
		for _, b := range live {
			_ = a.Free(b)
		}
	}()
	for _, p := range a.Pools() {
		for range p.BlockCount() {
			b := a.Allocate(p.BlockSize())
			if b == nil {
				return fail("%d-byte pool ran dry early", p.BlockSize())
			}
			live = append(live, b)
			lo := buf.Addr(b)
			spans = append(spans, span{lo, lo + uintptr(cap(b))})
		}
	}
	slices.SortFunc(spans, func(x, y span) int {
		switch {
		case x.lo < y.lo:
			return -1
		case x.lo > y.lo:
			return 1
		}
		return 0
	})
	for i := 1; i < len(spans); i++ {
		if spans[i].lo < spans[i-1].hi {
			return fail("blocks at %#x and %#x overlap", spans[i-1].lo, spans[i].lo)
		}
	}
	return pass("%d live blocks disjoint", len(spans))
}

func poolFirstFit(env *Env) (Result, string) {
	a, err := newAllocator(env, nil)
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)

	pools := a.Pools()
	largest := pools[len(pools)-1].BlockSize()
	for size := 1; size <= largest; size++ {
		b := a.Allocate(size)
		class, ok := a.Owns(b)
		want := 0
		for pools[want].BlockSize() < size {
			want++
		}
		if !ok || class != want {
			return fail("size %d served by class %d, want %d", size, class, want)
		}
		if len(b) != size {
			return fail("size %d returned %d bytes", size, len(b))
		}
		if err := a.Free(b); err != nil {
			return fail("size %d: free: %v", size, err)
		}
	}
	b := a.Allocate(largest + 1)
	if _, ok := a.Owns(b); ok || b == nil {
		return fail("%d bytes was not sent to the fallback", largest+1)
	}
	_ = a.Free(b)
	return pass("sizes 1..%d", largest)
}

func poolFallback(env *Env) (Result, string) {
	a, err := newAllocator(env, &pool.Config{Classes: []pool.SizeClass{{BlockSize: 32, BlockCount: 4}}})
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)

	for i := range 4 {
		b := a.Allocate(32)
		if _, ok := a.Owns(b); !ok {
			return fail("allocation %d not pooled", i)
		}
		defer a.Free(b)
	}
	b := a.Allocate(20)
	if b == nil {
		return fail("fallback returned nil")
	}
	if _, ok := a.Owns(b); ok {
		return fail("exhausted pool still served a block")
	}
	if err := a.Free(b); err != nil {
		return fail("fallback free: %v", err)
	}
	return pass("%d fallback allocations", a.Stats().FallbackAllocs)
}

func poolDoubleFree(env *Env) (Result, string) {
	a, err := newAllocator(env, nil)
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)

	b := a.Allocate(100)
	if err := a.Free(b); err != nil {
		return fail("first free: %v", err)
	}
	before := a.Pools()[2].FreeCount()
	if err := a.Free(b); !errors.Is(err, pool.ErrDoubleFree) {
		return fail("second free returned %v", err)
	}
	if after := a.Pools()[2].FreeCount(); after != before {
		return fail("free count moved from %d to %d", before, after)
	}
	return checkCounts(a)
}

func poolReserveFailure(env *Env) (Result, string) {
	// Room for the 32- and 64-byte pools only.
	a, err := newAllocator(env, &pool.Config{Reserver: &pool.HeapReserver{Limit: 8192 + 31 + 8192 + 31}})
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(a)

	usable := 0
	for _, p := range a.Pools() {
		if p.Usable() {
			usable++
		}
	}
	if usable != 2 {
		return fail("%d usable pools, want 2", usable)
	}
	b := a.Allocate(200)
	if b == nil {
		return fail("fallback did not serve a disabled class")
	}
	if _, ok := a.Owns(b); ok {
		return fail("disabled pool served a block")
	}
	_ = a.Free(b)
	return pass("%d of %d pools usable, fallback engaged", usable, len(a.Pools()))
}

func poolConcurrent(env *Env) (Result, string) {
	c := pool.DefaultConfig()
	c.Logger = env.Logger
	s, err := pool.NewSafe(&c)
	if err != nil {
		return fail("new: %v", err)
	}
	defer env.release(s)

	const workers, rounds = 8, 500
	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(env.Seed + int64(w)))
			for range rounds {
				n := 1 + rng.Intn(300)
				b := s.Allocate(n)
				if b == nil {
					return errors.New("allocation failed")
				}
				for i := range b {
					b[i] = byte(w)
				}
				for i := range b {
					if b[i] != byte(w) {
						return errors.New("block shared between workers")
					}
				}
				if err := s.Free(b); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail("%v", err)
	}
	for _, ps := range s.Stats().Pools {
		if ps.FreeCount != ps.BlockCount {
			return fail("%d-byte pool: %d of %d free", ps.BlockSize, ps.FreeCount, ps.BlockCount)
		}
	}
	return pass("%d workers x %d rounds", workers, rounds)
}
