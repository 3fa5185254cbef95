// main_ram.go - 24-bit byte-addressed main RAM (spec.md §3.1)

package main

import "fmt"

// MaxRAMSize is the architectural ceiling: 24-bit addressing, up to 16MB,
// split into two 8MB banks by address bit 23 (spec.md §3.1).
const MaxRAMSize = 16 * 1024 * 1024

// MainRAM is a flat byte slice standing in for PSRAM. Bank split on bit 23
// is transparent here since Go slice indexing already spans the whole
// 24-bit space; callers that care about the bank boundary (e.g. a DMA
// source picker) just mask addr&0x800000 themselves.
type MainRAM struct {
	bytes []byte
}

// NewMainRAM allocates size bytes of RAM, capped at the 16MB architectural
// limit.
func NewMainRAM(size int) *MainRAM {
	if size <= 0 || size > MaxRAMSize {
		size = MaxRAMSize
	}
	return &MainRAM{bytes: make([]byte, size)}
}

func (r *MainRAM) bound(addr uint32) error {
	if int(addr) >= len(r.bytes) {
		return fmt.Errorf("ram: address 0x%06X out of range (size 0x%06X)", addr, len(r.bytes))
	}
	return nil
}

// Read8 returns the byte at addr.
func (r *MainRAM) Read8(addr uint32) (uint8, error) {
	if err := r.bound(addr); err != nil {
		return 0, err
	}
	return r.bytes[addr], nil
}

// Write8 stores data at addr.
func (r *MainRAM) Write8(addr uint32, data uint8) error {
	if err := r.bound(addr); err != nil {
		return err
	}
	r.bytes[addr] = data
	return nil
}

// ReadBlock copies n bytes starting at addr, for DMA sourcing.
func (r *MainRAM) ReadBlock(addr uint32, n int) ([]byte, error) {
	if err := r.bound(addr + uint32(n) - 1); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.bytes[addr:int(addr)+n])
	return out, nil
}

// Reset zeroes the entire RAM block.
func (r *MainRAM) Reset() {
	for i := range r.bytes {
		r.bytes[i] = 0
	}
}
