package move

// BurstCopy copies min(len(dst), len(src)) bytes in cache-line bursts of eight
// words when the count reaches a cache line and both operands are word
// aligned. The tail, and every other case, goes through Copy.
func BurstCopy(dst, src []byte) int {
	n := min(len(dst), len(src))
	if n < CacheLine || !wordsAligned(dst, src) {
		return Copy(dst, src)
	}
	full := n / CacheLine * CacheLine
	for off := 0; off < full; off += CacheLine {
		d := dst[off : off+CacheLine : off+CacheLine]
		s := src[off : off+CacheLine : off+CacheLine]
		*word(d, 0) = *word(s, 0)
		*word(d, 4) = *word(s, 4)
		*word(d, 8) = *word(s, 8)
		*word(d, 12) = *word(s, 12)
		*word(d, 16) = *word(s, 16)
		*word(d, 20) = *word(s, 20)
		*word(d, 24) = *word(s, 24)
		*word(d, 28) = *word(s, 28)
	}
	if full < n {
		Copy(dst[full:n], src[full:n])
	}
	return n
}
