package rom

import "github.com/joshuapare/sf2kmem/internal/buf"

// HeaderSize is the length of an MSX cartridge header.
const HeaderSize = 16

// Header is the MSX cartridge header found at the start of a ROM page.
// Entry points are Z80 addresses; zero means absent.
type Header struct {
	Init      uint16 `json:"init"`
	Statement uint16 `json:"statement"`
	Device    uint16 `json:"device"`
	Text      uint16 `json:"text"`
}

// ParseHeader decodes the cartridge header at the start of data. It reports
// false when data is shorter than HeaderSize or does not start with "AB".
func ParseHeader(data []byte) (Header, bool) {
	if len(data) < HeaderSize || data[0] != 'A' || data[1] != 'B' {
		return Header{}, false
	}
	return Header{
		Init:      buf.U16LE(data, 2),
		Statement: buf.U16LE(data, 4),
		Device:    buf.U16LE(data, 6),
		Text:      buf.U16LE(data, 8),
	}, true
}

// Header decodes the image's cartridge header, if it has one.
func (im *Image) Header() (Header, bool) {
	return ParseHeader(im.Data)
}
