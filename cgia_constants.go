// cgia_constants.go - CGIA register map and opcode bits (spec.md §4.2, §6.2)

package main

// Bank-0 register addresses (spec.md §6.2).
const (
	RegMode        = 0x00
	RegBckgndBank  = 0x01
	RegSpriteBank  = 0x02
	RegRaster      = 0x10 // u16, read-only
	RegIntRaster   = 0x18 // u16
	RegIntEnable   = 0x1A
	RegIntStatus   = 0x1B // read masked; write clears
	RegPWM0        = 0x20
	RegPWM1        = 0x24
	RegPlanes      = 0x40
	RegBackColor   = 0x41
	RegOffsetBase  = 0x48 // u16 per plane, 0x48/0x4A/0x4C/0x4E
	RegPlaneBase   = 0x50 // 16 bytes each: 0x50, 0x60, 0x70, 0x80
	RegPlaneStride = 0x10
)

// REG_MODE bits.
const (
	ModeHires     = 1 << 0
	ModeInterlace = 1 << 1
)

// Interrupt status/enable bits (spec.md §4.2.5, §6.2).
const (
	IntVBI = 0x80
	IntDLI = 0x40
	IntRSI = 0x20
)

const (
	NumPlanes          = 4
	PlaneRegSize       = 16
	DisplayHeightLines = 312 // PAL-ish total scan lines; wraps `raster`
	ColumnsPerLine     = 40  // default text columns before border accounting
	CGIAColumnPx       = 8   // pixels encoded per "column" byte in MODE2/3
	MaxDLInstrPerRow   = 32  // safety guard (spec.md §4.2.2)
)

// Display-list opcode bit layout (spec.md §4.2.2).
const (
	dlOpDLIBit    = 0x80 // bit 7: request a DLI after this opcode
	dlOpModeBit   = 0x08 // bit 3: 0 = instruction, 1 = mode row
	dlOpLowMask   = 0x07
	dlOpHighNib   = 0xF0
	dlInstrBlank  = 0 // BLANK_LINES(n)
	dlInstrDup    = 1 // DUPLICATE_LINES(n)
	dlInstrJmp    = 2 // JMP(addr16)
	dlInstrLoad   = 3 // LOAD_MEM(mask, u16 x n)
	dlInstrSet8   = 4 // SET_REG8(idx, value)
	dlInstrSet16  = 5 // SET_REG16(idx, value16)
	dlModeText2   = 2 // MODE2
	dlModeBitmap3 = 3 // MODE3
	dlModeText4   = 4 // MODE4
	dlModeBitmap5 = 5 // MODE5
	dlModeHAM6    = 6 // MODE6
	dlModeAffine7 = 7 // MODE7
)

// LOAD_MEM nibble (bits 4..7 of the instruction opcode byte) selects which
// scan pointer(s) the following u16 operands reload, one bit per pointer.
const (
	loadMemMask  = 0x01
	loadColour   = 0x02
	loadBackgnd  = 0x04
	loadChargen  = 0x08
)

// Sprite descriptor layout (16 bytes in VRAM, spec.md §3.2, §4.2.4).
const (
	spriteOffPosX      = 0
	spriteOffPosY       = 1
	spriteOffLinesY     = 2
	spriteOffFlags      = 3
	spriteOffColor0     = 4
	spriteOffColor1     = 5
	spriteOffColor2     = 6
	spriteOffDataLo     = 7
	spriteOffDataHi     = 8
	spriteOffNextLo     = 9
	spriteOffNextHi     = 10
	spriteOffStartY     = 11
	spriteOffStopY      = 12
	spriteDescriptorSize = 16
)

// Sprite flags byte bits.
const (
	spriteFlagWidthMask  = 0x07
	spriteFlagMulticolor = 1 << 3
	spriteFlagDoubleW    = 1 << 4
	spriteFlagMirrorX    = 1 << 5
	spriteFlagMirrorY    = 1 << 6
	spriteFlagActive     = 1 << 7
)

const NumSpritesPerPlane = 8

// Pseudo mode ids used by planeInternal.currentMode between real mode rows.
const (
	modeBlank   = -1
	modeDup     = -2
	modeRunaway = -3 // bad opcode / >32-instruction DL: one magenta diagnostic line
)

// DiagnosticMagenta is the color index forced onto a runaway plane's
// diagnostic line (spec.md §7 "render a magenta diagnostic line").
const DiagnosticMagenta = 0xE3 // RGB332 111 000 11

// MODE7 fixed-point fraction width for the affine interpolators (spec.md
// §4.2.3, §9).
const Mode7FracBits = 8
