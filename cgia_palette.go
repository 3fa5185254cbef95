// cgia_palette.go - fixed 256-entry RGB332 palette (spec.md §4.2.3)
//
// The reference hardware's exact palette ROM contents aren't part of the
// spec; an RGB332-derived ramp is a standard, reproducible stand-in used by
// the same class of retro-chip reimplementations in the example pack, and
// keeps every mode's 8-bit color index meaningful without a loadable CLUT.

package main

var cgiaPalette = buildPalette()

func buildPalette() [256][3]uint8 {
	var pal [256][3]uint8
	for i := 0; i < 256; i++ {
		r := (i >> 5) & 0x07
		g := (i >> 2) & 0x07
		b := i & 0x03
		pal[i] = [3]uint8{
			uint8(r * 255 / 7),
			uint8(g * 255 / 7),
			uint8(b * 255 / 3),
		}
	}
	return pal
}

func paletteRGB(idx uint8) (uint8, uint8, uint8) {
	c := cgiaPalette[idx]
	return c[0], c[1], c[2]
}
