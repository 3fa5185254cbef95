package main

import "testing"

func TestSineTableSymmetry(t *testing.T) {
	// sin(0) should sit at the table's zero crossing.
	if v := sineTable[0]; v < -2 || v > 2 {
		t.Errorf("sineTable[0] = %d, want near 0", v)
	}
	// sin(pi/2) (index 64) should be near the positive peak.
	if v := sineTable[64]; v < 120 {
		t.Errorf("sineTable[64] = %d, want near +127", v)
	}
}

func TestTriangleTableShape(t *testing.T) {
	if v := triApprox(0); v != 0 {
		t.Errorf("triApprox(0) = %d, want 0", v)
	}
	if v := triApprox(64); v < 120 {
		t.Errorf("triApprox(64) = %d, want near peak", v)
	}
	if v := triApprox(192); v > -120 {
		t.Errorf("triApprox(192) = %d, want near trough", v)
	}
}

func TestLfsr32NeverGetsStuckAtZero(t *testing.T) {
	state := uint32(0xACE1)
	for i := 0; i < 10000; i++ {
		state = lfsr32(state)
		if state == 0 {
			t.Fatal("lfsr32 reached the all-zero state, which it cannot recover from")
		}
	}
}

func TestLfsr6ReseedsOnStuckZero(t *testing.T) {
	next := lfsr6(0, 0)
	if next == 0 {
		t.Fatal("lfsr6 should reseed to a nonzero state rather than stick at zero")
	}
	if next != 0xAAAA&0x3F {
		t.Errorf("lfsr6(0, 0) = 0x%X, want the 0xAAAA reseed value masked to 6 bits", next)
	}
}

func TestLfsr6TapSelectionVariesOutput(t *testing.T) {
	seen := map[uint32]bool{}
	for sel := uint8(0); sel < 4; sel++ {
		seen[lfsr6(0x15, sel)] = true
	}
	if len(seen) < 2 {
		t.Error("different tap selections should not all collapse to the same next state")
	}
}

func TestRawOscillatorPulseDutyCycle(t *testing.T) {
	// Below duty: low. At/above duty: high.
	if got := rawOscillator(WavePulse, 0, 0x80); got != 0 {
		t.Errorf("pulse phase=0 (top=0) duty=0x80 = %d, want 0 (top < duty)", got)
	}
	if got := rawOscillator(WavePulse, 0x40000000, 0x80); got != 0 {
		t.Errorf("pulse phase=0x40000000 (top=0x40) duty=0x80 = %d, want 0", got)
	}
	if got := rawOscillator(WavePulse, 0xC0000000, 0x80); got != 127 {
		t.Errorf("pulse phase=0xC0000000 (top=0xC0) duty=0x80 = %d, want 127", got)
	}
}

func TestRawOscillatorSawRampsWithTopByte(t *testing.T) {
	low := rawOscillator(WaveSaw, 0, 0)
	high := rawOscillator(WaveSaw, 0x7F000000, 0)
	if int8(low) >= int8(high) {
		t.Errorf("saw should ramp upward across the phase wheel: low=%d high=%d", low, high)
	}
}

func TestRawOscillatorSineMatchesTable(t *testing.T) {
	got := rawOscillator(WaveSine, 64<<24, 0)
	if got != sineTable[64] {
		t.Errorf("rawOscillator(sine, top=64) = %d, want sineTable[64]=%d", got, sineTable[64])
	}
}

func TestRawOscillatorTriangleMatchesTable(t *testing.T) {
	got := rawOscillator(WaveTriangle, 192<<24, 0)
	if got != triangleTable[192] {
		t.Errorf("rawOscillator(triangle, top=192) = %d, want triangleTable[192]=%d", got, triangleTable[192])
	}
}

func TestRawOscillatorXorVariantsXorThePulse(t *testing.T) {
	top := uint32(200) << 24
	plainSine := rawOscillator(WaveSine, top, 0x80)
	xorSine := rawOscillator(WaveXorSine, top, 0x80)
	// top=200 >= duty=0x80(128), so the pulse contributes 127.
	want := int8(127) ^ plainSine
	if xorSine != want {
		t.Errorf("xorSine = %d, want %d (pulse(127) xor sine)", xorSine, want)
	}
}

func TestRawOscillatorUnknownWaveIsSilent(t *testing.T) {
	if got := rawOscillator(0xFF, 0, 0); got != 0 {
		t.Errorf("rawOscillator(unknown wave) = %d, want 0", got)
	}
}
