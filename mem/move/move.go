package move

import (
	"unsafe"

	"github.com/joshuapare/sf2kmem/internal/buf"
)

const (
	// WordSize is the transfer width of the aligned paths.
	WordSize = 4

	// CacheLine is the burst size, one MIPS32 data cache line.
	CacheLine = 32

	// PageSize is an MSX memory page (8 KB), the unit Prefetch walks.
	PageSize = 0x2000
)

// wordsAligned reports whether both slices start on a word boundary.
func wordsAligned(dst, src []byte) bool {
	return buf.IsAligned(dst, WordSize) && buf.IsAligned(src, WordSize)
}

// word returns a uint32 view of b[i:i+4]. b[i] must be word aligned.
func word(b []byte, i int) *uint32 {
	return (*uint32)(unsafe.Pointer(&b[i]))
}

// Copy copies min(len(dst), len(src)) bytes from src to dst, one word at a
// time when both start word aligned, and returns the byte count.
func Copy(dst, src []byte) int {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0
	}
	if !wordsAligned(dst, src) {
		return copy(dst[:n], src[:n])
	}
	dst, src = dst[:n], src[:n]
	words := n / WordSize * WordSize
	for i := 0; i < words; i += WordSize {
		*word(dst, i) = *word(src, i)
	}
	for i := words; i < n; i++ {
		dst[i] = src[i]
	}
	return n
}

// Fill sets every byte of dst to v, storing a replicated 4-byte pattern when
// dst is word aligned, and returns len(dst).
func Fill(dst []byte, v byte) int {
	n := len(dst)
	if n == 0 {
		return 0
	}
	if !buf.IsAligned(dst, WordSize) {
		for i := range dst {
			dst[i] = v
		}
		return n
	}
	pattern := uint32(v) * 0x01010101
	words := n / WordSize * WordSize
	for i := 0; i < words; i += WordSize {
		*word(dst, i) = pattern
	}
	for i := words; i < n; i++ {
		dst[i] = v
	}
	return n
}
