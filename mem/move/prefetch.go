package move

// Prefetch touches one byte in every cache line of page so the lines are
// resident before a burst of accesses, and returns their xor so the loads
// cannot be elided. Pages of any length are accepted; PageSize is typical.
func Prefetch(page []byte) byte {
	var acc byte
	for off := 0; off < len(page); off += CacheLine {
		acc ^= page[off]
	}
	return acc
}
