package hal

// packRGB565 packs 8-bit components into rrrrrggggggbbbbb.
func packRGB565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

// unpackRGB565 expands a packed pixel back to 8-bit components,
// replicating the high bits so full intensity maps to 255.
func unpackRGB565(p uint16) (r, g, b uint8) {
	r = uint8(p>>8) & 0xF8
	r |= r >> 5
	g = uint8(p>>3) & 0xFC
	g |= g >> 6
	b = uint8(p<<3) & 0xF8
	b |= b >> 5
	return r, g, b
}
