// sgu_constants.go - SGU-1 channel/operator register layout (spec.md §6.3, §6.4, §6.5)

package main

const (
	NumChannels   = 9
	ChannelRegSize = 32
	NumOperators  = 4
	OperatorRegSize = 8

	PCMRAMMaxSize = 64 * 1024
)

// Per-channel register offsets (spec.md §6.4).
const (
	ChFreqL    = 0x00
	ChFreqH    = 0x01
	ChVol      = 0x02
	ChPan      = 0x03
	ChFlags0   = 0x04
	ChFlags1   = 0x05
	ChCutL     = 0x06
	ChCutH     = 0x07
	ChDuty     = 0x08
	ChReson    = 0x09
	ChPCMPosL  = 0x0A
	ChPCMPosH  = 0x0B
	ChPCMEndL  = 0x0C
	ChPCMEndH  = 0x0D
	ChPCMRstL  = 0x0E
	ChPCMRstH  = 0x0F

	ChSwFreqSpdL = 0x10
	ChSwFreqSpdH = 0x11
	ChSwFreqAmt  = 0x12
	ChSwFreqBnd  = 0x13
	ChSwVolSpdL  = 0x18
	ChSwVolSpdH  = 0x19
	ChSwVolAmt   = 0x1A
	ChSwVolBnd   = 0x1B
	ChSwCutSpdL  = 0x1C
	ChSwCutSpdH  = 0x1D
	ChSwCutAmt   = 0x1E
	ChSwCutBnd   = 0x1F
)

// flags0 bits (spec.md §6.5): [NSBAND NSHIGH NSLOW RING_MOD 0 PCM_EN 0 KEY]
const (
	Flags0Key     = 1 << 0
	Flags0PCMEn   = 1 << 2
	Flags0Ring    = 1 << 4
	Flags0NSLow   = 1 << 5
	Flags0NSHigh  = 1 << 6
	Flags0NSBand  = 1 << 7
	Flags0WaveMask = 0x07 // waveform select when PCM_EN is clear, low 3 bits reused
)

// flags1 bits: [0 CUT_SWEEP VOL_SWEEP FREQ_SWEEP TIMER_SYNC PCM_LOOP FILTER_RESET PHASE_RESET]
const (
	Flags1PhaseReset  = 1 << 0
	Flags1FilterReset = 1 << 1
	Flags1PCMLoop     = 1 << 2
	Flags1TimerSync   = 1 << 3
	Flags1FreqSweep   = 1 << 4
	Flags1VolSweep    = 1 << 5
	Flags1CutSweep    = 1 << 6
)

// Waveform ids dispatched from flags0's low bits when PCM is not selected.
const (
	WavePulse = iota
	WaveSaw
	WaveSine
	WaveTriangle
	WaveNoise
	WavePeriodicNoise
	WaveXorSine
	WaveXorTriangle
)

// Operator register offsets (spec.md §6.3).
const (
	OpR0 = 0 // [7]TRM [6]VIB [5]FIX [3:0]MUL
	OpR1 = 1 // [7:6]KSL [5:0]TL_lo6
	OpR2 = 2 // [7:4]AR_lo4 [3:0]DR_lo4
	OpR3 = 3 // [7:4]SL [3:0]RR
	OpR4 = 4 // [7:5]DT [4:0]SR
	OpR5 = 5 // [7:5]DELAY [4:3]KSR [2:0]WPAR
	OpR6 = 6 // [7]TRMD [6]VIBD [5]SYNC [4]RING [3:1]MOD [0]TL_msb
	OpR7 = 7 // [7:5]OUT [4]AR_msb [3]DR_msb [2:0]WAVE
)

// Envelope generator states.
const (
	EnvAttack = iota
	EnvDecay
	EnvSustain
	EnvRelease
	EnvIdle
)

// Pm is the phase-multiplier constant translating register-domain
// frequencies into the internal generation-rate domain (spec.md §9
// glossary). With Pm = 1 the register frequency is added unscaled to the
// 32-bit phase accumulators each sample, and cutoffs and sweep countdowns
// are likewise used unscaled.
const Pm = 1

// InternalSampleRate is the SGU-1's fixed per-sample tick rate.
const InternalSampleRate = 96000

// MUL lookup table for FM ratio-mode phase stepping (spec.md §4.3.2);
// values follow the OPL/ESFM convention of halves for 0 and 11, 15.
var mulTable = [16]int{
	1, 2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 20, 24, 24, 30, 30,
}
