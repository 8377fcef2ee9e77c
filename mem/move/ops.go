package move

import "github.com/joshuapare/sf2kmem/internal/buf"

// Ops describes how a transfer is split.
type Ops struct {
	Bursts  int  `json:"bursts"`  // 32-byte bursts
	Words   int  `json:"words"`   // single word moves outside bursts
	Bytes   int  `json:"bytes"`   // single byte moves
	Generic bool `json:"generic"` // true when delegated to a byte-wise copy
}

// Transactions returns the number of discrete memory moves, counting a
// generic copy as one move per byte.
func (o Ops) Transactions() int {
	return o.Bursts + o.Words + o.Bytes
}

// CopyOps reports how Copy would move the bytes between dst and src.
func CopyOps(dst, src []byte) Ops {
	n := min(len(dst), len(src))
	if n > 0 && !wordsAligned(dst, src) {
		return Ops{Bytes: n, Generic: true}
	}
	return Ops{Words: n / WordSize, Bytes: n % WordSize}
}

// BurstOps reports how BurstCopy would move the bytes between dst and src.
func BurstOps(dst, src []byte) Ops {
	n := min(len(dst), len(src))
	if n < CacheLine || !wordsAligned(dst, src) {
		return CopyOps(dst, src)
	}
	tail := n % CacheLine
	return Ops{Bursts: n / CacheLine, Words: tail / WordSize, Bytes: tail % WordSize}
}

// FillOps reports how Fill would write dst.
func FillOps(dst []byte) Ops {
	n := len(dst)
	if n > 0 && !buf.IsAligned(dst, WordSize) {
		return Ops{Bytes: n, Generic: true}
	}
	return Ops{Words: n / WordSize, Bytes: n % WordSize}
}
