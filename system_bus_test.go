package main

import "testing"

func newTestBus() (*SystemBus, *CGIA, *CPURegFile) {
	vram := NewVRAMCache()
	cgia := NewCGIA(vram, defaultLineWidth)
	regs := NewCPURegFile(NewSGU(1024))
	bus := NewSystemBus(2*64*1024, cgia, regs, func(addr uint32, data uint8) {}) // banks 0 and 1
	return bus, cgia, regs
}

func TestBusRoutesCGIAWindow(t *testing.T) {
	bus, cgia, _ := newTestBus()
	if err := bus.Write8(RegBackColor, 0x2A); err != nil {
		t.Fatalf("Write8(RegBackColor): %v", err)
	}
	if cgia.backColor != 0x2A {
		t.Fatalf("cgia.backColor = 0x%02X, want 0x2A", cgia.backColor)
	}
	if got := bus.Read8(RegBackColor); got != 0x2A {
		t.Fatalf("Read8(RegBackColor) = 0x%02X, want 0x2A", got)
	}
}

func TestBusRoutesCPURegFileWindow(t *testing.T) {
	bus, _, regs := newTestBus()
	if err := bus.Write8(RegOperaL, 9); err != nil {
		t.Fatalf("Write8(RegOperaL): %v", err)
	}
	if regs.operaA != 9 {
		t.Fatalf("regs.operaA = %d, want 9", regs.operaA)
	}
	if got := bus.Read8(RegOperaL); got != 9 {
		t.Fatalf("Read8(RegOperaL) = %d, want 9", got)
	}
}

func TestBusRoutesEverythingElseToRAM(t *testing.T) {
	bus, _, _ := newTestBus()
	addr := uint32(0x1000) // above the CGIA window, below RegFileBase: ordinary RAM
	if err := bus.Write8(addr, 0x55); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if got := bus.Read8(addr); got != 0x55 {
		t.Fatalf("Read8(0x1000) = 0x%02X, want 0x55 (routed through L2/RAM)", got)
	}
}

func TestBusRoutesOtherBanksToRAMEvenAtLowAddresses(t *testing.T) {
	bus, _, _ := newTestBus()
	addr := uint32(1)<<16 | 0x10 // bank 1, low address: not a bank-0 register
	if err := bus.Write8(addr, 0x77); err != nil {
		t.Fatalf("Write8: %v", err)
	}
	if got := bus.Read8(addr); got != 0x77 {
		t.Fatalf("Read8 in bank 1 = 0x%02X, want 0x77 (not mistaken for a register)", got)
	}
}

func TestBusResetClearsRAM(t *testing.T) {
	bus, _, _ := newTestBus()
	addr := uint32(0x2000)
	bus.Write8(addr, 0xAB)
	bus.Reset()
	if got := bus.Read8(addr); got != 0 {
		t.Fatalf("Read8 after Reset() = 0x%02X, want 0 (RAM cleared)", got)
	}
}

func TestBusRAMAccessorReturnsSameInstanceUsedByWrites(t *testing.T) {
	bus, _, _ := newTestBus()
	bus.Write8(0x3000, 0x99)
	got, err := bus.RAM().Read8(0x3000)
	if err != nil {
		t.Fatalf("RAM().Read8: %v", err)
	}
	if got != 0x99 {
		t.Fatalf("RAM().Read8(0x3000) = 0x%02X, want 0x99 (same backing store as bus.Write8)", got)
	}
}

func TestIsBank0RegisterBoundaries(t *testing.T) {
	bus, _, _ := newTestBus()
	if isCGIA, isRegFile := bus.isBank0Register(0x8F); !isCGIA || isRegFile {
		t.Errorf("0x8F should be the last CGIA register byte: isCGIA=%v isRegFile=%v", isCGIA, isRegFile)
	}
	if isCGIA, isRegFile := bus.isBank0Register(0x90); isCGIA || isRegFile {
		t.Errorf("0x90 should be plain RAM (gap between CGIA and regfile): isCGIA=%v isRegFile=%v", isCGIA, isRegFile)
	}
	if isCGIA, isRegFile := bus.isBank0Register(RegFileBase); isCGIA || !isRegFile {
		t.Errorf("RegFileBase should be the first regfile byte: isCGIA=%v isRegFile=%v", isCGIA, isRegFile)
	}
	if isCGIA, isRegFile := bus.isBank0Register(0xFFFF); isCGIA || !isRegFile {
		t.Errorf("0xFFFF should be the last regfile byte: isCGIA=%v isRegFile=%v", isCGIA, isRegFile)
	}
}
