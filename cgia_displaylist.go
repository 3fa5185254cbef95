// cgia_displaylist.go - display-list interpreter (spec.md §4.2.2, §9)

package main

import "math/bits"

// DLInstr is the tagged-variant decoding of one display-list opcode, per
// the reference design notes in spec.md §9 ("parse it as a small enum
// DLInstr"). Operand byte counts follow a self-consistent scheme chosen
// where spec.md leaves the exact inline operand layout unspecified beyond
// the opcode's low-3-bits/bit-3/bit-7 split (see DESIGN.md open question
// "DL operand widths").
type DLInstr struct {
	Kind    int // dlInstr* or dlMode* constant
	IsMode  bool
	DLI     bool
	N       uint8   // BLANK_LINES/DUPLICATE_LINES repeat count (raw, use +1)
	Addr    uint16  // JMP target
	Mask    uint8   // LOAD_MEM pointer mask (bits 0..3 = mem,colour,bg,chargen)
	Values  []uint16 // LOAD_MEM operands, in mask bit order
	RegIdx  uint8   // SET_REG8/16 register index within the plane's block
	Reg8    uint8
	Reg16   uint16
	Mode    int // mode id when IsMode
	Size    int // total bytes consumed, including the opcode byte
}

// decodeDL reads one display-list instruction starting at pc in the given
// VRAM bank. ok is false if the byte isn't mirrored (desynced bank).
func (c *CGIA) decodeDL(bank uint8, pc uint16) (DLInstr, bool) {
	op, ok := c.vram.Read(bank, pc)
	if !ok {
		return DLInstr{}, false
	}
	dli := op&dlOpDLIBit != 0

	if op&dlOpModeBit != 0 {
		return DLInstr{IsMode: true, DLI: dli, Mode: int(op & dlOpLowMask), Size: 1}, true
	}

	switch op & dlOpLowMask {
	case dlInstrBlank:
		n := (op >> 4) & 0x07
		return DLInstr{Kind: dlInstrBlank, DLI: dli, N: n, Size: 1}, true
	case dlInstrDup:
		n := (op >> 4) & 0x07
		return DLInstr{Kind: dlInstrDup, DLI: dli, N: n, Size: 1}, true
	case dlInstrJmp:
		lo, _ := c.vram.Read(bank, pc+1)
		hi, _ := c.vram.Read(bank, pc+2)
		return DLInstr{Kind: dlInstrJmp, DLI: dli, Addr: uint16(lo) | uint16(hi)<<8, Size: 3}, true
	case dlInstrLoad:
		mask := (op >> 4) & 0x0F
		n := bits.OnesCount8(mask)
		vals := make([]uint16, 0, n)
		off := pc + 1
		for i := 0; i < n; i++ {
			lo, _ := c.vram.Read(bank, off)
			hi, _ := c.vram.Read(bank, off+1)
			vals = append(vals, uint16(lo)|uint16(hi)<<8)
			off += 2
		}
		return DLInstr{Kind: dlInstrLoad, DLI: dli, Mask: mask, Values: vals, Size: 1 + 2*n}, true
	case dlInstrSet8:
		idx := (op >> 4) & 0x07
		val, _ := c.vram.Read(bank, pc+1)
		return DLInstr{Kind: dlInstrSet8, DLI: dli, RegIdx: idx, Reg8: val, Size: 2}, true
	case dlInstrSet16:
		idx := (op >> 4) & 0x07
		lo, _ := c.vram.Read(bank, pc+1)
		hi, _ := c.vram.Read(bank, pc+2)
		return DLInstr{Kind: dlInstrSet16, DLI: dli, RegIdx: idx, Reg16: uint16(lo) | uint16(hi)<<8, Size: 3}, true
	default:
		// Unknown low-3-bit instruction code (6 is reserved, 7 is
		// reserved): the runaway/unknown-opcode guard handles this at
		// the call site by forcing the diagnostic fallback.
		return DLInstr{Kind: -1, Size: 1}, true
	}
}

// applyLoadMem reloads the selected scan pointers from a LOAD_MEM
// instruction onto a plane's internal state, in mask bit order
// (mem, colour, background, chargen).
func applyLoadMem(pi *planeInternal, instr DLInstr) {
	i := 0
	if instr.Mask&loadMemMask != 0 {
		pi.memScan = instr.Values[i]
		i++
	}
	if instr.Mask&loadColour != 0 {
		pi.colorScan = instr.Values[i]
		i++
	}
	if instr.Mask&loadBackgnd != 0 {
		pi.bgScan = instr.Values[i]
		i++
	}
	if instr.Mask&loadChargen != 0 {
		pi.chargenPtr = instr.Values[i]
		i++
	}
}

// runDLUntilModeRow steps a plane's display list forward, executing
// instructions, until it lands on a mode-row opcode (returned without
// being consumed; the caller advances dlPC and computes the row height)
// or on a BLANK_LINES/DUPLICATE_LINES instruction (consumed and
// returned). runaway is true when the 32-instruction safety guard trips
// or an unknown opcode is met (spec.md §4.2.2's "Safety guard"). A
// desynced bank yields a zero-valued BLANK_LINES with runaway false, so
// the plane draws nothing this raster and retries from the same dlPC.
func (c *CGIA) runDLUntilModeRow(p int, bank uint8) (instr DLInstr, runaway bool) {
	pi := &c.internal[p]
	for steps := 0; steps < MaxDLInstrPerRow; steps++ {
		ins, ok := c.decodeDL(bank, pi.dlPC)
		if !ok {
			// Desynced bank: nothing to render this raster for this plane.
			return DLInstr{Kind: dlInstrBlank}, false
		}
		if ins.Kind == -1 {
			cgiaLog.Printf("plane %d: unknown DL opcode at 0x%04X", p, pi.dlPC)
			pi.dlPC += uint16(ins.Size) // force progress (spec.md §7)
			return DLInstr{}, true
		}
		if ins.DLI {
			pi.dliThisLine = true
		}
		if ins.IsMode {
			return ins, false
		}
		switch ins.Kind {
		case dlInstrBlank, dlInstrDup:
			pi.dlPC += uint16(ins.Size)
			return ins, false
		case dlInstrJmp:
			pi.dlPC = ins.Addr
			if ins.DLI {
				pi.waitVBL = true
			}
		case dlInstrLoad:
			applyLoadMem(pi, ins)
			pi.dlPC += uint16(ins.Size)
		case dlInstrSet8:
			if int(ins.RegIdx) < PlaneRegSize {
				c.planeRegs[p][ins.RegIdx] = ins.Reg8
			}
			pi.dlPC += uint16(ins.Size)
		case dlInstrSet16:
			if int(ins.RegIdx)+1 < PlaneRegSize {
				c.planeRegs[p][ins.RegIdx] = uint8(ins.Reg16)
				c.planeRegs[p][ins.RegIdx+1] = uint8(ins.Reg16 >> 8)
			}
			pi.dlPC += uint16(ins.Size)
		}
	}
	cgiaLog.Printf("plane %d: DL runaway (>%d instructions between mode rows)", p, MaxDLInstrPerRow)
	return DLInstr{}, true
}

// rowHeightFor computes a mode row's height in rasters: row_height+1 for
// bitmap modes, row_height for character modes (spec.md §4.2.2).
func rowHeightFor(pr *PlaneRegs, mode int) int {
	log2h := pr.RowHeightLog2()
	if log2h > 5 {
		log2h = 5 // clamp to <=32
	}
	h := 1 << log2h
	switch mode {
	case dlModeBitmap3, dlModeBitmap5, dlModeHAM6, dlModeAffine7:
		return h + 1
	default: // MODE2, MODE4: character modes
		return h
	}
}
