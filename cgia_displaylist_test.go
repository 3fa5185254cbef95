package main

import "testing"

// writeDL writes a byte program into VRAM bank 0 starting at addr.
func writeDL(vram *VRAMCache, addr uint16, bytes ...byte) {
	for i, b := range bytes {
		vram.MemWrite(uint32(addr)+uint32(i), b)
	}
}

func newTestCGIA() (*CGIA, *VRAMCache) {
	vram := NewVRAMCache()
	return NewCGIA(vram, defaultLineWidth), vram
}

func TestDecodeBlankLines(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0, 0x70) // n=7 -> 8 lines
	ins, ok := c.decodeDL(0, 0)
	if !ok {
		t.Fatal("decodeDL should succeed on a mirrored byte")
	}
	if ins.Kind != dlInstrBlank || ins.N != 7 || ins.Size != 1 {
		t.Fatalf("decodeDL(0x70) = %+v, want BLANK_LINES n=7 size=1", ins)
	}
}

func TestDecodeJmp(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0, dlInstrJmp, 0x00, 0x10)
	ins, ok := c.decodeDL(0, 0)
	if !ok || ins.Kind != dlInstrJmp || ins.Addr != 0x1000 || ins.Size != 3 {
		t.Fatalf("decodeDL(JMP) = %+v, ok=%v, want JMP addr=0x1000 size=3", ins, ok)
	}
}

func TestDecodeLoadMemAllFourPointers(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0,
		dlInstrLoad|0xF0, // mask nibble = 1111: mem, colour, background, chargen
		0x00, 0x00,
		0x00, 0x10,
		0x00, 0x20,
		0x00, 0x30,
	)
	ins, ok := c.decodeDL(0, 0)
	if !ok {
		t.Fatal("decodeDL should succeed")
	}
	want := []uint16{0x0000, 0x1000, 0x2000, 0x3000}
	if len(ins.Values) != len(want) {
		t.Fatalf("len(Values) = %d, want %d", len(ins.Values), len(want))
	}
	for i, v := range want {
		if ins.Values[i] != v {
			t.Errorf("Values[%d] = 0x%04X, want 0x%04X", i, ins.Values[i], v)
		}
	}
	if ins.Size != 9 {
		t.Errorf("Size = %d, want 9", ins.Size)
	}
}

func TestApplyLoadMemUpdatesScanPointers(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0,
		dlInstrLoad|0xF0,
		0x00, 0x00,
		0x00, 0x10,
		0x00, 0x20,
		0x00, 0x30,
	)
	ins, _ := c.decodeDL(0, 0)
	pi := &planeInternal{}
	applyLoadMem(pi, ins)
	if pi.memScan != 0x0000 || pi.colorScan != 0x1000 || pi.bgScan != 0x2000 || pi.chargenPtr != 0x3000 {
		t.Fatalf("planeInternal after applyLoadMem = %+v, want mem=0x0 colour=0x1000 bg=0x2000 chargen=0x3000", pi)
	}
}

func TestDLIBitSetsFlag(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0, 0x70|dlOpDLIBit)
	ins, _ := c.decodeDL(0, 0)
	if !ins.DLI {
		t.Fatal("DLI flag should be set when bit 7 is set")
	}
}

func TestDecodeModeRow(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0, dlOpModeBit|dlModeText4)
	ins, ok := c.decodeDL(0, 0)
	if !ok || !ins.IsMode || ins.Mode != dlModeText4 {
		t.Fatalf("decodeDL(mode row) = %+v, ok=%v, want IsMode Mode=MODE4", ins, ok)
	}
}

func TestRunDLUntilModeRowStopsAtModeRow(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0,
		dlInstrBlank|0x70, // 8 blank lines, consumed
	)
	writeDL(vram, 1, dlOpModeBit|dlModeText2)
	c.internal[0].dlPC = 0

	ins, runaway := c.runDLUntilModeRow(0, 0)
	if runaway {
		t.Fatal("should not report a runaway")
	}
	if ins.Kind != dlInstrBlank {
		t.Fatalf("first step should return the BLANK_LINES instruction, got %+v", ins)
	}
	if c.internal[0].dlPC != 1 {
		t.Fatalf("dlPC after one BLANK_LINES = %d, want 1", c.internal[0].dlPC)
	}
}

func TestRunDLUntilModeRowDetectsUnknownOpcode(t *testing.T) {
	c, vram := newTestCGIA()
	writeDL(vram, 0, 0x06) // low 3 bits = 6: reserved
	c.internal[0].dlPC = 0

	_, runaway := c.runDLUntilModeRow(0, 0)
	if !runaway {
		t.Fatal("an unknown opcode should be reported as a runaway")
	}
	if c.internal[0].dlPC == 0 {
		t.Fatal("dlPC should advance past the bad opcode to force progress")
	}
}

func TestRunDLUntilModeRowDetectsInstructionGuard(t *testing.T) {
	c, vram := newTestCGIA()
	// 40 SET_REG8 instructions (2 bytes each, register index packed into
	// the opcode's bits 6-4) with no mode row: trips the 32-instruction
	// safety guard (spec.md §4.2.2).
	bytes := make([]byte, 0, 40*2)
	for i := 0; i < 40; i++ {
		bytes = append(bytes, dlInstrSet8, 0)
	}
	writeDL(vram, 0, bytes...)
	c.internal[0].dlPC = 0

	_, runaway := c.runDLUntilModeRow(0, 0)
	if !runaway {
		t.Fatal("exceeding MaxDLInstrPerRow should report a runaway")
	}
}

func TestRowHeightForBitmapAddsOne(t *testing.T) {
	var pr PlaneRegs
	pr[3] = 0 // log2h = 0 -> h = 1
	if got := rowHeightFor(&pr, dlModeBitmap3); got != 2 {
		t.Errorf("rowHeightFor(MODE3, h=1) = %d, want 2", got)
	}
}

func TestRowHeightForTextDoesNotAddOne(t *testing.T) {
	var pr PlaneRegs
	pr[3] = 0
	if got := rowHeightFor(&pr, dlModeText2); got != 1 {
		t.Errorf("rowHeightFor(MODE2, h=1) = %d, want 1", got)
	}
}
