// cgia_modes.go - per-scanline pixel generation for MODE2..MODE7 (spec.md §4.2.3)

package main

// renderModeRow renders one raster of an active mode row for plane p into
// out (lineWidthPx RGB triples), setting drawn[x] wherever the plane
// painted a non-transparent pixel so lower planes/background can show
// through holes (spec.md §4.2.1 "Transparent").
func (c *CGIA) renderModeRow(p int, mode int, lineInRow int, out []uint8, drawn []bool) {
	pr := &c.planeRegs[p]
	pi := &c.internal[p]
	bank := c.bckgndBank
	if c.isSpritePlane(p) {
		bank = c.spriteBank
	}

	switch mode {
	case dlModeText2:
		c.renderText(p, pr, pi, bank, lineInRow, out, drawn, false)
	case dlModeText4:
		c.renderText(p, pr, pi, bank, lineInRow, out, drawn, true)
	case dlModeBitmap3:
		c.renderBitmap(p, pr, pi, bank, lineInRow, out, drawn, false)
	case dlModeBitmap5:
		c.renderBitmap(p, pr, pi, bank, lineInRow, out, drawn, true)
	case dlModeHAM6:
		c.renderHAM(p, pr, pi, bank, lineInRow, out, drawn)
	case dlModeAffine7:
		c.renderAffine(p, pr, pi, bank, lineInRow, out, drawn)
	}
}

// renderDiagnosticLine paints the whole raster magenta, the CGIA's bad-
// opcode/runaway-DL fallback (spec.md §7).
func (c *CGIA) renderDiagnosticLine(out []uint8, drawn []bool) {
	for x := 0; x < c.lineWidthPx; x++ {
		c.plotPixel(out, drawn, x, DiagnosticMagenta)
	}
}

func (c *CGIA) plotPixel(out []uint8, drawn []bool, x int, idx uint8) {
	if x < 0 || x*3+2 >= len(out) {
		return
	}
	r, g, b := paletteRGB(idx)
	out[x*3], out[x*3+1], out[x*3+2] = r, g, b
	if drawn != nil {
		drawn[x] = true
	}
}

// renderText draws MODE2 (1bpp) or MODE4 (2bpp multicolor) character cells.
func (c *CGIA) renderText(p int, pr *PlaneRegs, pi *planeInternal, bank uint8, lineInRow int, out []uint8, drawn []bool, multicolor bool) {
	pxPerCol := CGIAColumnPx
	if pr.DoubleWidth() {
		pxPerCol *= 2
	}
	x := int(pr.BorderColumns()) * pxPerCol
	shared := pr.SharedColor()
	back := c.backColor

	for col := 0; col < ColumnsPerLine; col++ {
		code, _ := c.vram.Read(bank, pi.memScan+uint16(col))
		attr, _ := c.vram.Read(bank, pi.colorScan+uint16(col))
		row, _ := c.vram.Read(bank, pi.chargenPtr+uint16(code)*8+uint16(lineInRow))

		if multicolor {
			bg, _ := c.vram.Read(bank, pi.bgScan+uint16(col))
			palette := [4]uint8{back, bg, shared, attr}
			for bit := 3; bit >= 0; bit-- {
				sel := (row >> uint(bit*2)) & 0x03
				idx := palette[sel]
				for rep := 0; rep < pxPerCol/4; rep++ {
					if sel != 0 || !pr.Transparent() {
						c.plotPixel(out, drawn, x, idx)
					}
					x++
				}
			}
			continue
		}

		for bit := 7; bit >= 0; bit-- {
			on := row&(1<<uint(bit)) != 0
			stepPx := pxPerCol / 8
			for rep := 0; rep < stepPx; rep++ {
				if on {
					c.plotPixel(out, drawn, x, attr)
				} else if !pr.Transparent() {
					c.plotPixel(out, drawn, x, back)
				}
				x++
			}
		}
	}
}

// renderBitmap draws MODE3 (1bpp hi-res) or MODE5 (2bpp multicolor,
// non-linear stride) bitmap rows.
func (c *CGIA) renderBitmap(p int, pr *PlaneRegs, pi *planeInternal, bank uint8, lineInRow int, out []uint8, drawn []bool, multicolor bool) {
	pxPerByte := CGIAColumnPx
	if pr.DoubleWidth() {
		pxPerByte *= 2
	}
	x := int(pr.BorderColumns()) * pxPerByte
	stride := pr.Stride()
	if stride == 0 {
		stride = ColumnsPerLine
	}
	rowBase := pi.memScan + uint16(lineInRow)*stride
	shared := pr.SharedColor()
	back := c.backColor

	for col := 0; col < ColumnsPerLine; col++ {
		b, _ := c.vram.Read(bank, rowBase+uint16(col))
		if multicolor {
			bg, _ := c.vram.Read(bank, pi.bgScan+uint16(col))
			fg, _ := c.vram.Read(bank, pi.colorScan+uint16(col))
			palette := [4]uint8{back, bg, shared, fg}
			for bit := 3; bit >= 0; bit-- {
				sel := (b >> uint(bit*2)) & 0x03
				for rep := 0; rep < pxPerByte/4; rep++ {
					if sel != 0 || !pr.Transparent() {
						c.plotPixel(out, drawn, x, palette[sel])
					}
					x++
				}
			}
			continue
		}
		fg, _ := c.vram.Read(bank, pi.colorScan+uint16(col))
		for bit := 7; bit >= 0; bit-- {
			on := b&(1<<uint(bit)) != 0
			for rep := 0; rep < pxPerByte/8; rep++ {
				if on {
					c.plotPixel(out, drawn, x, fg)
				} else if !pr.Transparent() {
					c.plotPixel(out, drawn, x, back)
				}
				x++
			}
		}
	}
}

// hamClamp saturates a channel-modify result to a byte (cgia.h gives no
// overflow rule; clamping matches how every other 8-bit channel op in this
// file behaves).
func hamClamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// hamBlend averages two RGB triples, channel by channel.
func hamBlend(a, b [3]uint8) [3]uint8 {
	return [3]uint8{
		uint8((int(a[0]) + int(b[0])) / 2),
		uint8((int(a[1]) + int(b[1])) / 2),
		uint8((int(a[2]) + int(b[2])) / 2),
	}
}

// renderHAM draws a MODE6 Hold-And-Modify row. Four pixels are packed into
// three bytes as a contiguous MSB-first bitstream of 6-bit [CCCDDD]
// commands (cgia.h's HAM block): C=000 loads one of the 8 base colors at
// index D, C=001 blends the held color with that base color, and C=01S/
// 10S/11S adds or subtracts (sign S) a (D+1) delta to the held color's
// red/green/blue channel (spec.md §4.2.3).
func (c *CGIA) renderHAM(p int, pr *PlaneRegs, pi *planeInternal, bank uint8, lineInRow int, out []uint8, drawn []bool) {
	x := int(pr.BorderColumns()) * CGIAColumnPx
	rowBase := pi.memScan + uint16(lineInRow)*ColumnsPerLine
	bases := pr.HAMBaseColors()
	held := bases[0]

	pixelsNeeded := ColumnsPerLine * CGIAColumnPx
	byteIdx := uint16(0)
	for pixelsDone := 0; pixelsDone < pixelsNeeded; pixelsDone += 4 {
		b0, _ := c.vram.Read(bank, rowBase+byteIdx)
		b1, _ := c.vram.Read(bank, rowBase+byteIdx+1)
		b2, _ := c.vram.Read(bank, rowBase+byteIdx+2)
		byteIdx += 3
		bits := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)

		for i := 0; i < 4; i++ {
			shift := uint(24 - 6*(i+1))
			cmd6 := uint8(bits>>shift) & 0x3F
			c3 := (cmd6 >> 3) & 0x07
			d3 := cmd6 & 0x07

			switch {
			case c3 == 0:
				held = bases[d3]
			case c3 == 1:
				held = hamBlend(held, bases[d3])
			default:
				channel := (c3 >> 1) & 0x03 // 01=R, 10=G, 11=B
				delta := int(d3) + 1
				if c3&0x01 != 0 {
					delta = -delta
				}
				if channel >= 1 && channel <= 3 {
					idx := channel - 1
					held[idx] = hamClamp(int(held[idx]) + delta)
				}
			}

			if x >= 0 && x*3+2 < len(out) {
				out[x*3], out[x*3+1], out[x*3+2] = held[0], held[1], held[2]
				if drawn != nil {
					drawn[x] = true
				}
			}
			x++
		}
	}
}

// renderAffine draws a MODE7 affine-textured row by stepping the plane's
// two interpolator lanes across the line and sampling a texture page
// (spec.md §4.2.3, §9).
func (c *CGIA) renderAffine(p int, pr *PlaneRegs, pi *planeInternal, bank uint8, lineInRow int, out []uint8, drawn []bool) {
	if lineInRow == 0 {
		loadAffineLanes(pr, pi)
	} else {
		pi.interpU.advanceLine()
		pi.interpV.advanceLine()
	}
	x := int(pr.BorderColumns())
	width := ColumnsPerLine * CGIAColumnPx
	for i := 0; i < width; i++ {
		u := pi.interpU.next()
		v := pi.interpV.next()
		texel, _ := c.vram.Read(bank, pi.chargenPtr+uint16(v)*256+uint16(u))
		c.plotPixel(out, drawn, x, texel)
		x++
	}
}
