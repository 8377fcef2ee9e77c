package selftest

import (
	"bytes"

	"github.com/joshuapare/sf2kmem/internal/buf"
	"github.com/joshuapare/sf2kmem/mem/move"
)

// guard is the sentinel written around every destination.
const guard = 0xA5

// MoveSuite checks the bulk mover for every offset pair 0..3 and every size
// up to Env.MaxCopy.
func MoveSuite() Suite {
	return Suite{
		Name: "move",
		Cases: []Case{
			{Name: "copy", Run: func(env *Env) (Result, string) { return sweepCopy(env, "Copy", move.Copy) }},
			{Name: "burst copy", Run: func(env *Env) (Result, string) { return sweepCopy(env, "BurstCopy", move.BurstCopy) }},
			{Name: "fill", Run: sweepFill},
			{Name: "operation split", Run: moveSplit},
		},
	}
}

// arena returns a cache-line aligned buffer with room for n bytes at any
// offset below a word plus guard space on both sides.
func arena(n int) []byte {
	raw := make([]byte, n+3*move.CacheLine)
	b, _, _ := buf.AlignSlice(raw, move.CacheLine, n+2*move.CacheLine)
	return b
}

func sweepCopy(env *Env, name string, fn func(dst, src []byte) int) (Result, string) {
	checked := 0
	for n := 0; n <= env.MaxCopy; n++ {
		want := make([]byte, n)
		for i := range want {
			want[i] = byte(i*7 + n)
		}
		for so := range move.WordSize {
			for do := range move.WordSize {
				src := arena(n)[move.CacheLine+so:]
				copy(src, want)
				dstArena := arena(n)
				for i := range dstArena {
					dstArena[i] = guard
				}
				dst := dstArena[move.CacheLine+do : move.CacheLine+do+n]

				if got := fn(dst, src[:n]); got != n {
					return fail("%s n=%d src+%d dst+%d returned %d", name, n, so, do, got)
				}
				if !bytes.Equal(dst, want) {
					return fail("%s n=%d src+%d dst+%d: contents differ", name, n, so, do)
				}
				if r, d := guardsIntact(dstArena, move.CacheLine+do, n); r != Pass {
					return fail("%s n=%d src+%d dst+%d: %s", name, n, so, do, d)
				}
				checked++
			}
		}
	}
	return pass("%d transfers", checked)
}

func sweepFill(env *Env) (Result, string) {
	checked := 0
	for n := 0; n <= env.MaxCopy; n++ {
		for do := range move.WordSize {
			a := arena(n)
			for i := range a {
				a[i] = guard
			}
			off := move.CacheLine + do
			v := byte(n ^ 0x3C)
			if got := move.Fill(a[off:off+n], v); got != n {
				return fail("Fill n=%d dst+%d returned %d", n, do, got)
			}
			for i := off; i < off+n; i++ {
				if a[i] != v {
					return fail("Fill n=%d dst+%d: byte %d is %#x", n, do, i-off, a[i])
				}
			}
			if r, d := guardsIntact(a, off, n); r != Pass {
				return fail("Fill n=%d dst+%d: %s", n, do, d)
			}
			checked++
		}
	}
	return pass("%d fills", checked)
}

func guardsIntact(a []byte, off, n int) (Result, string) {
	for i := 0; i < off; i++ {
		if a[i] != guard {
			return fail("wrote %d bytes before the destination", off-i)
		}
	}
	for i := off + n; i < len(a); i++ {
		if a[i] != guard {
			return fail("wrote past the end at +%d", i-off-n)
		}
	}
	return Pass, ""
}

func moveSplit(*Env) (Result, string) {
	a := arena(64)
	dst, src := a[:10], a[move.CacheLine:move.CacheLine+10]
	if ops := move.CopyOps(dst, src); ops.Words != 2 || ops.Bytes != 2 || ops.Generic {
		return fail("aligned 10-byte copy split as %+v", ops)
	}
	if ops := move.CopyOps(a[1:11], src); !ops.Generic {
		return fail("misaligned copy split as %+v", ops)
	}
	big := arena(100)
	if ops := move.BurstOps(big[:100], a[:100]); ops.Bursts != 3 || ops.Words != 1 || ops.Bytes != 0 {
		return fail("aligned 100-byte burst split as %+v", ops)
	}
	return pass("word, byte and burst splits match")
}
