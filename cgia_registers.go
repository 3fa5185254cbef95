// cgia_registers.go - CGIA chip state and CPU register window (spec.md §3.2, §6.2)

package main

import "sync"

// PlaneRegs is the 16-byte register block for one plane; its
// interpretation depends on the plane's type (background, HAM, affine or
// sprite), which is selected by the global `planes` bitmap, not by
// anything in this block itself (spec.md §3.2).
type PlaneRegs [PlaneRegSize]byte

// ScrollX returns the plane's signed horizontal scroll (used by MODE5 and
// general scrolling per spec.md §4.2.3).
func (p *PlaneRegs) ScrollX() int8 { return int8(p[0]) }

// BorderColumns returns how many border columns flank the plane's content.
func (p *PlaneRegs) BorderColumns() uint8 { return p[1] }

// BorderTransparent reports whether border painting is suppressed.
func (p *PlaneRegs) BorderTransparent() bool { return p[2]&0x01 != 0 }

// Transparent reports whether the plane leaves holes where it draws no
// content (spec.md §4.2.1).
func (p *PlaneRegs) Transparent() bool { return p[2]&0x02 != 0 }

// RowHeightLog2 returns the row-height selector (power-of-two, <=32).
func (p *PlaneRegs) RowHeightLog2() uint8 { return p[3] & 0x1F }

// SharedColor is used by MODE4/MODE5's 2bpp palette.
func (p *PlaneRegs) SharedColor() uint8 { return p[4] }

// DoubleWidth reports whether pixels are doubled horizontally.
func (p *PlaneRegs) DoubleWidth() bool { return p[5]&0x01 != 0 }

// Stride returns the MODE5 non-linear scan stride.
func (p *PlaneRegs) Stride() uint16 { return uint16(p[6]) | uint16(p[7])<<8 }

// hamBaseColorOffset is where cgia_ham_regs.base_color[8] starts within the
// 16-byte plane register block (cgia.h: flags, border_columns, row_height,
// reserved[5], base_color[8]).
const hamBaseColorOffset = 8

// HAMBaseColors decodes the plane's 8 HAM base colors: palette indices at
// cgia_ham_regs.base_color[8], each expanded to an RGB triple so MODE6's
// per-channel modify commands have components to add a delta to.
func (p *PlaneRegs) HAMBaseColors() [8][3]uint8 {
	var out [8][3]uint8
	for n := 0; n < 8; n++ {
		r, g, b := paletteRGB(p[hamBaseColorOffset+n])
		out[n] = [3]uint8{r, g, b}
	}
	return out
}

// planeInternal is the per-plane state not visible to the CPU (spec.md
// §3.2 "Per-plane internal state").
type planeInternal struct {
	dlPC       uint16 // current display-list program counter
	memScan    uint16
	colorScan  uint16
	bgScan     uint16
	chargenPtr uint16

	rowLineCount int // rasters elapsed in the current mode row
	rowHeight    int // rasters per row for the current mode row (incl. +1 rule)
	currentMode  int // dlMode* id, or modeBlank/modeDup while between real rows

	lastLine  []uint8 // cached raster for DUPLICATE_LINES replay
	lastDrawn []bool

	waitVBL bool

	// mode7 interpolator save/restore context (two lanes, spec.md §9)
	interpU affineLane
	interpV affineLane

	spritesNeedUpdate bool
	spriteNext        [NumSpritesPerPlane]uint16 // next-descriptor offsets, re-seeded at y==0

	dliThisLine bool
}

func (pi *planeInternal) reset() {
	*pi = planeInternal{spritesNeedUpdate: true, currentMode: modeBlank}
}

// CGIA is the scanline-based video processor (spec.md §4.2).
type CGIA struct {
	mutex sync.Mutex

	vram *VRAMCache

	mode        uint8
	bckgndBank  uint8
	spriteBank  uint8
	raster      uint16
	intRaster   uint16
	intEnable   uint8
	intStatus   uint8
	intMask     uint8 // latched bits, cleared by CPU ack write (spec.md §4.2.5)
	planesMask  uint8
	backColor   uint8
	pwm         [2]uint16

	planeRegs   [NumPlanes]PlaneRegs
	planeOffset [NumPlanes]uint16
	internal    [NumPlanes]planeInternal

	// double-buffered RGB scanline, 24-bit packed as bytes [R,G,B] per px
	lineWidthPx int
	lineBuf     []uint8

	nmiLine bool
}

// NewCGIA creates a CGIA bound to the given VRAM mirror, with a scanline
// buffer wide enough for the border + active area.
func NewCGIA(vram *VRAMCache, lineWidthPx int) *CGIA {
	c := &CGIA{
		vram:        vram,
		lineWidthPx: lineWidthPx,
		lineBuf:     make([]uint8, lineWidthPx*3),
	}
	c.powerOn()
	return c
}

// powerOn resets all plane internal state (spec.md §3.2 lifecycle).
func (c *CGIA) powerOn() {
	for i := range c.internal {
		c.internal[i].reset()
	}
}

// HandleRead services a CPU read from the CGIA's bank-0 register window.
func (c *CGIA) HandleRead(addr uint16) uint8 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	switch {
	case addr == RegMode:
		return c.mode
	case addr == RegBckgndBank:
		return c.bckgndBank
	case addr == RegSpriteBank:
		return c.spriteBank
	case addr == RegRaster:
		return uint8(c.raster)
	case addr == RegRaster+1:
		return uint8(c.raster >> 8)
	case addr == RegIntRaster:
		return uint8(c.intRaster)
	case addr == RegIntRaster+1:
		return uint8(c.intRaster >> 8)
	case addr == RegIntEnable:
		return c.intEnable
	case addr == RegIntStatus:
		status := c.intStatus & c.intEnable & c.intMask
		c.intStatus = 0
		c.intMask = 0
		c.updateNMI()
		return status
	case addr == RegPlanes:
		return c.planesMask
	case addr == RegBackColor:
		return c.backColor
	case addr >= RegOffsetBase && addr < RegOffsetBase+8:
		p := (addr - RegOffsetBase) / 2
		if (addr-RegOffsetBase)%2 == 0 {
			return uint8(c.planeOffset[p])
		}
		return uint8(c.planeOffset[p] >> 8)
	case addr >= RegPlaneBase && addr < RegPlaneBase+NumPlanes*RegPlaneStride:
		p := (addr - RegPlaneBase) / RegPlaneStride
		off := (addr - RegPlaneBase) % RegPlaneStride
		return c.planeRegs[p][off]
	default:
		return 0
	}
}

// HandleWrite services a CPU write to the CGIA's bank-0 register window.
func (c *CGIA) HandleWrite(addr uint16, value uint8) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	switch {
	case addr == RegMode:
		c.mode = value
	case addr == RegBckgndBank:
		c.bckgndBank = value
		c.vram.WantBank(0, value)
	case addr == RegSpriteBank:
		c.spriteBank = value
		c.vram.WantBank(1, value)
	case addr == RegIntRaster:
		c.intRaster = uint16(value) | c.intRaster&0xFF00
	case addr == RegIntRaster+1:
		c.intRaster = c.intRaster&0x00FF | uint16(value)<<8
	case addr == RegIntEnable:
		c.intEnable = value
	case addr == RegIntStatus:
		// write-to-ACK: any value clears both status and mask
		c.intStatus = 0
		c.intMask = 0
		c.updateNMI()
	case addr == RegPlanes:
		c.planesMask = value
		c.markSpritesNeedUpdate()
	case addr == RegBackColor:
		c.backColor = value
	case addr >= RegOffsetBase && addr < RegOffsetBase+8:
		p := (addr - RegOffsetBase) / 2
		if (addr-RegOffsetBase)%2 == 0 {
			c.planeOffset[p] = c.planeOffset[p]&0xFF00 | uint16(value)
		} else {
			c.planeOffset[p] = c.planeOffset[p]&0x00FF | uint16(value)<<8
		}
	case addr >= RegPlaneBase && addr < RegPlaneBase+NumPlanes*RegPlaneStride:
		p := (addr - RegPlaneBase) / RegPlaneStride
		off := (addr - RegPlaneBase) % RegPlaneStride
		c.planeRegs[p][off] = value
		if c.isSpritePlane(int(p)) {
			c.markSpritesNeedUpdate()
		}
	}
}

// markSpritesNeedUpdate asserts the "sprites need update" flag on every
// plane, re-armed whenever the CPU rewrites the plane-active/sprite
// registers (spec.md §3.2 lifecycle).
func (c *CGIA) markSpritesNeedUpdate() {
	for i := range c.internal {
		c.internal[i].spritesNeedUpdate = true
	}
}

func (c *CGIA) isSpritePlane(p int) bool { return c.planesMask&(1<<(uint(p)+4)) != 0 }
func (c *CGIA) planeEnabled(p int) bool  { return c.planesMask&(1<<uint(p)) != 0 }

func (c *CGIA) updateNMI() {
	c.nmiLine = (c.intStatus & c.intEnable & c.intMask) != 0
}

// NMI reports the current state of the CGIA's interrupt line to the CPU.
func (c *CGIA) NMI() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.nmiLine
}

// Raster returns the current scanline, for PIX SYNC ACK replies.
func (c *CGIA) Raster() uint16 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.raster
}
