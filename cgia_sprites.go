// cgia_sprites.go - hardware sprite compositing (spec.md §4.2.4)

package main

// spriteDesc is the decoded 16-byte VRAM sprite descriptor (spec.md §3.2).
type spriteDesc struct {
	x, y       int
	linesY     uint8
	flags      uint8
	color0     uint8
	color1     uint8
	color2     uint8
	dataPtr    uint16
	nextPtr    uint16
	startY     uint8
	stopY      uint8
}

func (c *CGIA) readSpriteDesc(bank uint8, off uint16) (spriteDesc, bool) {
	var d spriteDesc
	buf := make([]uint8, spriteDescriptorSize)
	for i := range buf {
		b, ok := c.vram.Read(bank, off+uint16(i))
		if !ok {
			return d, false
		}
		buf[i] = b
	}
	d.x = int(buf[spriteOffPosX])
	d.y = int(buf[spriteOffPosY])
	d.linesY = buf[spriteOffLinesY]
	d.flags = buf[spriteOffFlags]
	d.color0 = buf[spriteOffColor0]
	d.color1 = buf[spriteOffColor1]
	d.color2 = buf[spriteOffColor2]
	d.dataPtr = uint16(buf[spriteOffDataLo]) | uint16(buf[spriteOffDataHi])<<8
	d.nextPtr = uint16(buf[spriteOffNextLo]) | uint16(buf[spriteOffNextHi])<<8
	d.startY = buf[spriteOffStartY]
	d.stopY = buf[spriteOffStopY]
	return d, true
}

// reseedSprites walks a sprite plane's descriptor chain from its first
// descriptor (the plane's mem-scan pointer, reused here as the sprite
// chain head; a sprite plane runs no display list and its OFFSET register
// is not consulted, so nothing on the sprite path reloads this pointer)
// and caches up to NumSpritesPerPlane offsets, at the start of every frame
// (spec.md §4.2.4 "reload sprite descriptors ... at y==0").
func (c *CGIA) reseedSprites(p int) {
	pi := &c.internal[p]
	bank := c.spriteBank
	off := pi.memScan
	for i := 0; i < NumSpritesPerPlane; i++ {
		pi.spriteNext[i] = off
		if off == 0 {
			continue
		}
		d, ok := c.readSpriteDesc(bank, off)
		if !ok || d.nextPtr == off {
			break
		}
		off = d.nextPtr
	}
	pi.spritesNeedUpdate = false
}

// renderSpritePlane composites every active sprite of plane p whose
// vertical range covers raster y into out, in descriptor-chain order
// (later descriptors draw on top, matching the background plane's
// bottom-to-top composite order in spec.md §4.2.1).
func (c *CGIA) renderSpritePlane(p int, y uint16, out []uint8, drawn []bool) {
	pi := &c.internal[p]
	if pi.spritesNeedUpdate {
		c.reseedSprites(p)
	}
	bank := c.spriteBank

	for i := 0; i < NumSpritesPerPlane; i++ {
		off := pi.spriteNext[i]
		if off == 0 {
			continue
		}
		d, ok := c.readSpriteDesc(bank, off)
		if !ok || d.flags&spriteFlagActive == 0 {
			continue
		}
		if y < uint16(d.startY) || y > uint16(d.stopY) {
			continue
		}
		lineInSprite := int(y) - d.y
		if lineInSprite < 0 || lineInSprite >= int(d.linesY) {
			continue
		}
		if d.flags&spriteFlagMirrorY != 0 {
			lineInSprite = int(d.linesY) - 1 - lineInSprite
		}
		c.drawSpriteLine(bank, d, lineInSprite, out, drawn)
	}
}

// spriteWidthColumns returns the sprite's width in byte columns (1-8,
// per the 3-bit width field).
func spriteWidthColumns(d spriteDesc) int {
	return int(d.flags&spriteFlagWidthMask) + 1
}

func (c *CGIA) drawSpriteLine(bank uint8, d spriteDesc, lineInSprite int, out []uint8, drawn []bool) {
	multicolor := d.flags&spriteFlagMulticolor != 0
	mirror := d.flags&spriteFlagMirrorX != 0
	pxPerBit := 1
	if d.flags&spriteFlagDoubleW != 0 {
		pxPerBit = 2
	}
	cols := spriteWidthColumns(d)
	bytesPerRow := cols
	if multicolor {
		bytesPerRow = cols // 2bpp still packs 4px/byte; width counted in bytes either way
	}
	rowBase := d.dataPtr + uint16(lineInSprite*bytesPerRow)

	x := d.x
	for colIdx := 0; colIdx < cols; colIdx++ {
		srcCol := colIdx
		if mirror {
			srcCol = cols - 1 - colIdx
		}
		b, ok := c.vram.Read(bank, rowBase+uint16(srcCol))
		if !ok {
			continue
		}
		if multicolor {
			for bit := 3; bit >= 0; bit-- {
				shift := uint(bit * 2)
				if mirror {
					shift = uint((3 - bit) * 2)
				}
				sel := (b >> shift) & 0x03
				idx := uint8(0)
				switch sel {
				case 1:
					idx = d.color0
				case 2:
					idx = d.color1
				case 3:
					idx = d.color2
				}
				for rep := 0; rep < pxPerBit*2; rep++ {
					if sel != 0 {
						c.plotPixel(out, drawn, x, idx)
					}
					x++
				}
			}
			continue
		}
		for bit := 7; bit >= 0; bit-- {
			shift := uint(bit)
			if mirror {
				shift = uint(7 - bit)
			}
			on := b&(1<<shift) != 0
			for rep := 0; rep < pxPerBit; rep++ {
				if on {
					c.plotPixel(out, drawn, x, d.color0)
				}
				x++
			}
		}
	}
}
