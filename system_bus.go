// system_bus.go - CPU-facing address space router (spec.md §2, §6.2, §6.6)

package main

import "sync"

// SystemBus is the trusted (addr24, data, rw) transaction sink the
// 65C816 front end is abstracted as driving (spec.md §1's "Out of
// scope" list). It routes bank-0 register addresses to the CGIA and the
// CPU register file, and everything else through the L2 cache to main
// RAM.
type SystemBus struct {
	mutex sync.Mutex

	ram  *MainRAM
	l2   *L2Cache
	cgia *CGIA
	regs *CPURegFile
}

// NewSystemBus wires a bus over ram bytes of main RAM, mirroring every
// CPU write to cgia's VRAM mirror via PIX (onPixMemWrite), matching the
// memory bus's MapIO-style dispatch table in spirit (spec.md §3.1).
func NewSystemBus(ramSize int, cgia *CGIA, regs *CPURegFile, onPixMemWrite func(addr uint32, data uint8)) *SystemBus {
	ram := NewMainRAM(ramSize)
	return &SystemBus{
		ram:  ram,
		l2:   NewL2Cache(ram, onPixMemWrite),
		cgia: cgia,
		regs: regs,
	}
}

// isBank0Register reports whether addr (a full 24-bit address) falls in
// bank 0's register window: either the CGIA's 0x00..0x8F block or the
// CPU register file's 0xFFC0..0xFFFF block.
func (b *SystemBus) isBank0Register(addr uint32) (isCGIA, isRegFile bool) {
	if addr>>16 != 0 {
		return false, false
	}
	low := uint16(addr)
	if low <= 0x8F {
		return true, false
	}
	if low >= RegFileBase {
		return false, true
	}
	return false, false
}

// Read8 services one CPU read transaction.
func (b *SystemBus) Read8(addr uint32) uint8 {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if isCGIA, isRegFile := b.isBank0Register(addr); isCGIA {
		return b.cgia.HandleRead(uint16(addr))
	} else if isRegFile {
		return b.regs.Read(uint16(addr))
	}
	return b.l2.Read8(addr)
}

// Write8 services one CPU write transaction.
func (b *SystemBus) Write8(addr uint32, value uint8) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if isCGIA, isRegFile := b.isBank0Register(addr); isCGIA {
		b.cgia.HandleWrite(uint16(addr), value)
		return nil
	} else if isRegFile {
		b.regs.Write(uint16(addr), value)
		return nil
	}
	return b.l2.Write8(addr, value)
}

// Reset clears main RAM, for a CPU reset transaction.
func (b *SystemBus) Reset() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.ram.Reset()
}

// RAM returns the bus's backing main RAM, for the bus domain's DMA-pump
// source reads (spec.md §4.1's idle-DMA-request flow).
func (b *SystemBus) RAM() *MainRAM { return b.ram }
