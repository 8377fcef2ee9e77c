package move

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

const maxCount = 4096

// alignedBuf returns n bytes starting exactly off bytes past a cache line boundary.
func alignedBuf(t testing.TB, n, off int) []byte {
	t.Helper()
	raw := make([]byte, n+off+CacheLine)
	base, _, ok := buf.AlignSlice(raw, CacheLine, n+off)
	require.True(t, ok)
	b := base[off : off+n]
	if n > 0 {
		require.Equal(t, uintptr(off), buf.Addr(b)%CacheLine)
	}
	return b
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

// naiveCopy is the byte-at-a-time reference.
func naiveCopy(dst, src []byte) {
	for i := range min(len(dst), len(src)) {
		dst[i] = src[i]
	}
}

func countsUnderTest(t *testing.T) []int {
	if !testing.Short() {
		counts := make([]int, 0, maxCount+1)
		for n := 0; n <= maxCount; n++ {
			counts = append(counts, n)
		}
		return counts
	}
	return []int{0, 1, 2, 3, 4, 5, 7, 8, 10, 31, 32, 33, 63, 64, 65, 255, 256, 1000, 4095, 4096}
}

func TestCopy_MatchesNaiveAllAlignments(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src0 := randomBytes(rng, maxCount)
	for _, n := range countsUnderTest(t) {
		for so := range WordSize {
			for do := range WordSize {
				src := alignedBuf(t, n, so)
				copy(src, src0[:n])
				dst := alignedBuf(t, n, do)
				want := make([]byte, n)
				naiveCopy(want, src)

				require.Equal(t, n, Copy(dst, src))
				if !bytes.Equal(want, dst) {
					t.Fatalf("Copy n=%d src+%d dst+%d mismatch", n, so, do)
				}
			}
		}
	}
}

func TestBurstCopy_EquivalentToCopy(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	src0 := randomBytes(rng, maxCount)
	for _, n := range countsUnderTest(t) {
		for so := range WordSize {
			for do := range WordSize {
				src := alignedBuf(t, n, so)
				copy(src, src0[:n])
				viaCopy := alignedBuf(t, n, do)
				viaBurst := alignedBuf(t, n, do)

				Copy(viaCopy, src)
				require.Equal(t, n, BurstCopy(viaBurst, src))
				if !bytes.Equal(viaCopy, viaBurst) {
					t.Fatalf("BurstCopy n=%d src+%d dst+%d differs from Copy", n, so, do)
				}
			}
		}
	}
}

func TestFill_AllAlignments(t *testing.T) {
	for _, n := range countsUnderTest(t) {
		for off := range WordSize {
			dst := alignedBuf(t, n, off)
			require.Equal(t, n, Fill(dst, 0x5A))
			if !bytes.Equal(dst, bytes.Repeat([]byte{0x5A}, n)) {
				t.Fatalf("Fill n=%d dst+%d mismatch", n, off)
			}
		}
	}
}

func TestFill_DoesNotTouchNeighbours(t *testing.T) {
	outer := alignedBuf(t, 64, 0)
	Fill(outer, 0x11)
	Fill(outer[5:59], 0xEE)
	for i, v := range outer {
		want := byte(0xEE)
		if i < 5 || i >= 59 {
			want = 0x11
		}
		require.Equal(t, want, v, "byte %d", i)
	}
}

func TestCopy_TenAlignedBytes(t *testing.T) {
	src := alignedBuf(t, 10, 0)
	for i := range src {
		src[i] = byte(i + 1)
	}
	dst := alignedBuf(t, 10, 0)

	require.Equal(t, Ops{Words: 2, Bytes: 2}, CopyOps(dst, src))
	require.Equal(t, 10, Copy(dst, src))
	require.Equal(t, src, dst)
}

func TestCopy_ShorterOperandWins(t *testing.T) {
	src := alignedBuf(t, 16, 0)
	Fill(src, 0xFF)
	dst := alignedBuf(t, 9, 0)
	require.Equal(t, 9, Copy(dst, src))
	require.Equal(t, 9, BurstCopy(dst, src))

	long := alignedBuf(t, 40, 0)
	require.Equal(t, 16, Copy(long, src))
	require.Zero(t, long[16])
	require.Zero(t, Copy(nil, src))
	require.Zero(t, Fill(nil, 1))
}

func TestOps(t *testing.T) {
	a := alignedBuf(t, 100, 0)
	b := alignedBuf(t, 100, 0)
	u := alignedBuf(t, 100, 1)

	require.Equal(t, Ops{Bursts: 3, Words: 1, Bytes: 0}, BurstOps(a, b))
	require.Equal(t, Ops{Words: 25}, CopyOps(a, b))
	require.Equal(t, Ops{Bytes: 100, Generic: true}, CopyOps(a, u))
	require.Equal(t, Ops{Bytes: 100, Generic: true}, BurstOps(u, b))
	require.Equal(t, Ops{Words: 7, Bytes: 3}, BurstOps(a[:31], b[:31]))
	require.Equal(t, Ops{Words: 25}, FillOps(a))
	require.Equal(t, Ops{Bytes: 100, Generic: true}, FillOps(u))

	require.Less(t, BurstOps(a, b).Transactions(), CopyOps(a, b).Transactions())
}

func TestPrefetch(t *testing.T) {
	page := alignedBuf(t, PageSize, 0)
	require.Zero(t, Prefetch(page))

	page[0] = 0x0F
	page[CacheLine] = 0xF0
	page[CacheLine+1] = 0xFF // not the first byte of a line
	require.Equal(t, byte(0xFF), Prefetch(page))
	require.Zero(t, Prefetch(nil))
}

func TestAdvise(t *testing.T) {
	require.NoError(t, Advise(nil))
	require.NoError(t, Advise(make([]byte, 100)))
	require.NoError(t, Advise(make([]byte, 4*PageSize)))
}
