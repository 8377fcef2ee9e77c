package pool

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

// expectedClass returns the pool first-fit must pick for size, or -1 for the fallback.
func expectedClass(a *Allocator, size int) int {
	for i, p := range a.Pools() {
		if p.Usable() && size <= p.BlockSize() && p.FreeCount() > 0 {
			return i
		}
	}
	return -1
}

// Test_Property_RandomAllocFree drives seeded random allocate/free sequences
// and checks conservation, first fit and span disjointness after every step.
func Test_Property_RandomAllocFree(t *testing.T) {
	for _, seed := range []int64{1, 42, 1234, 99991} {
		a := newDefault(t)
		rng := rand.New(rand.NewSource(seed))
		var live [][]byte

		for step := range 5000 {
			if len(live) == 0 || rng.Intn(3) != 0 {
				size := rng.Intn(5000)
				want := expectedClass(a, size)

				b := a.Allocate(size)
				require.NotNil(t, b)
				got, ok := a.Owns(b)
				if want < 0 {
					require.False(t, ok, "seed %d step %d: size %d should fall back", seed, step, size)
				} else {
					require.True(t, ok, "seed %d step %d: size %d should be pooled", seed, step, size)
					require.Equal(t, want, got, "seed %d step %d: size %d", seed, step, size)
				}
				live = append(live, b)
			} else {
				i := rng.Intn(len(live))
				require.NoError(t, a.Free(live[i]), "seed %d step %d", seed, step)
				live = slices.Delete(live, i, i+1)
			}
			requireConserved(t, a)
		}

		for _, b := range live {
			require.NoError(t, a.Free(b))
		}
		for _, p := range a.Pools() {
			require.Equal(t, p.BlockCount(), p.FreeCount())
		}
	}
}

func Test_Property_SpansDisjoint(t *testing.T) {
	a := newDefault(t)
	pools := a.Pools()
	for i := range pools {
		for j := i + 1; j < len(pools); j++ {
			si, ei := pools[i].Span()
			sj, ej := pools[j].Span()
			require.True(t, ei <= sj || ej <= si,
				"pools %d and %d overlap: [%#x,%#x) [%#x,%#x)", i, j, si, ei, sj, ej)
		}
	}
}

func Test_Property_LiveBlocksDistinct(t *testing.T) {
	a := newDefault(t)
	seen := make(map[uintptr]bool)
	for _, p := range a.Pools() {
		for range p.BlockCount() {
			b := a.Allocate(p.BlockSize())
			addr := buf.Addr(b)
			require.False(t, seen[addr], "block %#x handed out twice", addr)
			seen[addr] = true
			require.Zero(t, (addr-mustStart(p))%uintptr(p.BlockSize()), "block not on a block boundary")
		}
	}
}

func mustStart(p *Pool) uintptr {
	s, _ := p.Span()
	return s
}

func Test_Property_FreeListUnique(t *testing.T) {
	a := newDefault(t)
	p := a.Pools()[0]
	var live [][]byte
	for range 100 {
		live = append(live, a.Allocate(1))
	}
	for _, b := range live {
		require.NoError(t, a.Free(b))
		require.ErrorIs(t, a.Free(b), ErrDoubleFree)
	}
	idx := slices.Clone(p.freeList[:p.free])
	slices.Sort(idx)
	require.Equal(t, len(idx), len(slices.Compact(idx)), "duplicate free-list entries")
	for _, v := range idx {
		require.GreaterOrEqual(t, v, int32(0))
		require.Less(t, v, int32(p.BlockCount()))
	}
}
