// sgu_oscillators.go - waveform generators and LFSR noise sources (spec.md §4.3.1)

package main

var sineTable [256]int8
var triangleTable [256]int8

func init() {
	for i := 0; i < 256; i++ {
		angle := float64(i) / 256 * 2 * 3.14159265358979323846
		sineTable[i] = int8(sinApprox(angle) * 127)
		triangleTable[i] = int8(triApprox(i))
	}
}

func sinApprox(x float64) float64 {
	// Bhaskara I approximation, accurate enough for an 8-bit LUT and
	// avoids importing math for a single call site's worth of precision.
	for x > 3.14159265358979323846 {
		x -= 2 * 3.14159265358979323846
	}
	for x < -3.14159265358979323846 {
		x += 2 * 3.14159265358979323846
	}
	sign := 1.0
	if x < 0 {
		x = -x
		sign = -1.0
	}
	num := 16 * x * (3.14159265358979323846 - x)
	den := 5*3.14159265358979323846*3.14159265358979323846 - 4*x*(3.14159265358979323846-x)
	return sign * num / den
}

func triApprox(i int) int {
	// 256-step triangle, peak +127 at p=64, trough -128 at p=192.
	p := i % 256
	if p < 64 {
		return p * 2
	} else if p < 192 {
		return 127 - (p-64)*2
	}
	return -128 + (p-192)*2
}

// lfsr32 steps the 32-bit white-noise LFSR with taps {0,2,3,5} (spec.md
// §4.3.1 "NOISE").
func lfsr32(state uint32) uint32 {
	bit := (state ^ (state >> 2) ^ (state >> 3) ^ (state >> 5)) & 1
	return (state >> 1) | (bit << 31)
}

// lfsr6 steps a 6-bit periodic-noise LFSR with a tap selected by sel
// (0..3, from duty[5:4]); reseeds to 0xAAAA if it sticks at zero in its
// low 6 bits (spec.md §4.3.1 "PERIODIC_NOISE").
func lfsr6(state uint32, sel uint8) uint32 {
	var tapBit uint
	switch sel {
	case 0:
		tapBit = 1
	case 1:
		tapBit = 2
	case 2:
		tapBit = 3
	default:
		tapBit = 5
	}
	bit := (state ^ (state >> tapBit)) & 1
	next := ((state >> 1) | (bit << 5)) & 0x3F
	if next == 0 {
		return 0xAAAA & 0x3F
	}
	return next
}

// rawOscillator produces one sample for a non-PCM channel, dispatching on
// the 3-bit waveform field (spec.md §4.3.1 step 1).
func rawOscillator(wave uint8, phase uint32, duty uint8) int8 {
	top := uint8(phase >> 24)
	switch wave {
	case WavePulse:
		if top >= duty {
			return 127
		}
		return 0
	case WaveSaw:
		return int8(top)
	case WaveSine:
		return sineTable[top]
	case WaveTriangle:
		return triangleTable[top]
	case WaveXorSine:
		pulse := int8(0)
		if top >= duty {
			pulse = 127
		}
		return pulse ^ sineTable[top]
	case WaveXorTriangle:
		pulse := int8(0)
		if top >= duty {
			pulse = 127
		}
		return pulse ^ triangleTable[top]
	default:
		return 0
	}
}
