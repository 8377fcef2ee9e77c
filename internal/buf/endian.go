package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 at b[off:]. Returns 0 when b is too short.
func U16LE(b []byte, off int) uint16 {
	s, ok := Slice(b, off, 2)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint16(s)
}
