// sgu_channel.go - per-channel audio pipeline (spec.md §4.3.1)

package main

// panGainL/panGainR are the precomputed pan gain tables (spec.md §4.3.1
// step 7): left gain ramps 127->0 across indices 0..127, right gain ramps
// 0->126 across 128..255, forcing r[128]=0.
var panGainL [256]uint8
var panGainR [256]uint8

func init() {
	for i := 0; i < 128; i++ {
		panGainL[i] = uint8(127 - i)
		panGainR[i] = 0
	}
	for i := 128; i < 256; i++ {
		panGainL[i] = 0
		panGainR[i] = uint8(i - 129)
	}
	panGainR[128] = 0
}

// svfState holds a resonant state-variable filter's running low/band/high
// outputs (spec.md §4.3.1 step 5).
type svfState struct {
	low, high, band int32
}

// dcBlockState tracks the adaptive one-pole DC estimate in Q8 (spec.md
// §4.3.1 step 6).
type dcBlockState struct {
	estimate int32
}

// Channel is one of the SGU-1's 9 independent voices.
type Channel struct {
	regs      ChannelRegs
	operators [NumOperators]operatorState

	phaseAccum     uint32
	pcmFrac        uint32 // fractional accumulator, crosses at 32768 (spec.md §4.3.1 step 3)
	lfsrWhite      uint32
	lfsrPeriodic   uint32
	phaseResetCnt  int

	svf     svfState
	dc      dcBlockState
	prevRaw int8

	freqSweepCountdown int
	volSweepCountdown  int
	cutSweepCountdown  int
	volSweepDir        bool // true = currently moving up
	curVol             int16
	curFreq            uint16
	curCutoff          uint16

	muted bool
	tick  uint32
}

// NewChannel returns a freshly power-on-reset channel.
func NewChannel() *Channel {
	c := &Channel{lfsrWhite: 0xACE1, lfsrPeriodic: 0xAAAA}
	return c
}

// Mute zeroes the SVF state to kill ringing on unmute (spec.md §4.3.3).
func (c *Channel) Mute(m bool) {
	c.muted = m
	if m {
		c.svf = svfState{}
	}
}

// Step runs one sample tick of the full per-channel pipeline and returns
// the channel's pan-adjusted (left, right) contribution. ringSource is the
// previous raw sample of the channel used for ring modulation (the next
// channel in index order, the last channel wrapping to channel 0; see
// SGU.Tick).
func (c *Channel) Step(pcm []int8, ringSource int8) (left, right int32) {
	if c.muted {
		return 0, 0
	}
	c.tick++
	c.applyOneShotReset()

	flags0 := c.regs.Flags0()
	flags1 := c.regs.Flags1()

	c.curFreq = c.regs.Freq()
	c.curCutoff = c.regs.Cutoff()
	c.curVol = int16(c.regs.Vol())

	raw := c.rawSample(pcm, flags0)
	if flags0&Flags0PCMEn == 0 && c.hasActiveOperators() {
		raw = c.stepFM(flags0&Flags0Key != 0)
	}

	if flags0&Flags0Ring != 0 {
		raw = int8((int32(raw) * int32(ringSource)) >> 7)
	}

	c.advanceTime(flags0, flags1)

	voice := int32(raw) * int32(c.curVol)
	if flags0&Flags0PCMEn == 0 {
		voice >>= 1
	}

	if flags0&(Flags0NSLow|Flags0NSHigh|Flags0NSBand) != 0 {
		voice = c.runSVF(voice, flags0)
	}

	voice = c.dcBlockStep(voice)
	c.prevRaw = raw

	panIdx := c.regs.Pan()
	l := (voice * int32(panGainL[panIdx])) >> 8
	r := (voice * int32(panGainR[panIdx])) >> 8

	c.stepSweeps(flags1)

	return l, r
}

func (c *Channel) applyOneShotReset() {
	flags1 := c.regs.Flags1()
	if flags1&Flags1PhaseReset != 0 {
		c.phaseAccum = 0
		c.pcmFrac = 0
		restimer := uint16(c.regs.base[0x0E]) | uint16(c.regs.base[0x0F])<<8
		c.phaseResetCnt = int(restimer)
		c.regs.ClearFlags1Bit(Flags1PhaseReset)
	}
}

func (c *Channel) rawSample(pcm []int8, flags0 uint8) int8 {
	if flags0&Flags0PCMEn != 0 {
		size := len(pcm)
		if size == 0 {
			return 0
		}
		pos := int(c.regs.PCMPos()) & (size - 1)
		return pcm[pos]
	}
	wave := flags0 & Flags0WaveMask
	duty := c.regs.Duty()
	switch wave {
	case WaveNoise:
		return int8((c.lfsrWhite & 1) * 127)
	case WavePeriodicNoise:
		return int8((c.lfsrPeriodic & 1) * 127)
	default:
		return rawOscillator(wave, c.phaseAccum, duty)
	}
}

func (c *Channel) advanceTime(flags0, flags1 uint8) {
	step := uint32(c.curFreq) * Pm

	if flags0&Flags0PCMEn != 0 {
		c.pcmFrac += step
		for c.pcmFrac >= 32768 {
			c.pcmFrac -= 32768
			c.advancePCMPos(flags1)
		}
		return
	}

	wave := flags0 & Flags0WaveMask
	if wave == WavePeriodicNoise {
		sel := (c.regs.Duty() >> 4) & 0x03
		scale := uint32(1) << uint(sel)
		step = step * scale - step/8
	}

	prevTop := c.phaseAccum >> 28
	c.phaseAccum += step
	newTop := c.phaseAccum >> 28
	if newTop != prevTop {
		c.lfsrWhite = lfsr32(c.lfsrWhite)
		sel := (c.regs.Duty() >> 4) & 0x03
		c.lfsrPeriodic = lfsr6(c.lfsrPeriodic, sel)
	}

	if flags1&Flags1TimerSync != 0 {
		restimer := uint16(c.regs.base[0x0E]) | uint16(c.regs.base[0x0F])<<8
		if restimer != 0 {
			c.phaseResetCnt--
			if c.phaseResetCnt <= 0 {
				c.phaseResetCnt = int(restimer)
				c.phaseAccum = 0
				c.lfsrWhite = 0xACE1
			}
		}
	}
}

func (c *Channel) advancePCMPos(flags1 uint8) {
	pos := c.regs.PCMPos() + 1
	end := c.regs.PCMEnd()
	if end != 0 && pos >= end {
		if flags1&Flags1PCMLoop != 0 {
			pos = c.regs.PCMRestart()
		}
	}
	c.regs.SetPCMPos(pos)
}

// runSVF implements the resonant state-variable filter (spec.md §4.3.1
// step 5): ff = clamp(cutoff * Pm, <=32768), feedback = (256-reson)/256.
func (c *Channel) runSVF(input int32, flags0 uint8) int32 {
	ff := int64(c.curCutoff) * Pm
	if ff > 32768 {
		ff = 32768
	}
	f := int32(ff) >> 9 // scale into a workable fixed-point coefficient
	q := int32(256-int32(c.regs.Reson())) << 0

	c.svf.low += (f * c.svf.band) >> 8
	c.svf.high = input - c.svf.low - ((q * c.svf.band) >> 8)
	c.svf.band += (f * c.svf.high) >> 8

	var out int32
	if flags0&Flags0NSLow != 0 {
		out += c.svf.low
	}
	if flags0&Flags0NSBand != 0 {
		out += c.svf.band
	}
	if flags0&Flags0NSHigh != 0 {
		out += c.svf.high
	}
	return out
}

// dcBlockStep runs the adaptive one-pole tracker (spec.md §4.3.1 step 6).
func (c *Channel) dcBlockStep(v int32) int32 {
	q8 := v << 8
	err := q8 - c.dc.estimate
	if abs32(err) > 64<<8 {
		c.dc.estimate += err >> 9
	} else {
		c.dc.estimate += err >> 12
	}
	return (q8 - c.dc.estimate) >> 8
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// stepSweeps advances the three sweep subsystems by one sample tick,
// each sharing the `countdown -= Pm; while countdown<=0 { countdown +=
// speed; step() }` pattern (spec.md §4.3.1 step 8, final paragraph).
func (c *Channel) stepSweeps(flags1 uint8) {
	if flags1&Flags1FreqSweep != 0 {
		sw := c.regs.FreqSweep()
		c.freqSweepCountdown -= Pm
		for c.freqSweepCountdown <= 0 {
			c.freqSweepCountdown += int(sw.speed)
			if sw.speed == 0 {
				break
			}
			c.stepFreqSweep(sw)
		}
	}
	if flags1&Flags1VolSweep != 0 {
		sw := c.regs.VolSweep()
		c.volSweepCountdown -= Pm
		for c.volSweepCountdown <= 0 {
			c.volSweepCountdown += int(sw.speed)
			if sw.speed == 0 {
				break
			}
			c.stepVolSweep(sw)
		}
	}
	if flags1&Flags1CutSweep != 0 {
		sw := c.regs.CutSweep()
		c.cutSweepCountdown -= Pm
		for c.cutSweepCountdown <= 0 {
			c.cutSweepCountdown += int(sw.speed)
			if sw.speed == 0 {
				break
			}
			c.stepCutSweep(sw)
		}
	}
}

func (c *Channel) stepFreqSweep(sw sweepBlock) {
	freq := c.regs.Freq()
	amt := uint32(sw.amt & 0x1F)
	up := sw.amt&0x20 != 0
	bound := uint16(sw.bound) << 8
	if up {
		nf := uint32(freq) * (128 + amt) / 128
		if nf > 0xFFFF || (bound != 0 && uint16(nf) > bound) {
			nf = uint32(bound)
			if nf == 0 {
				nf = 0xFFFF
			}
		}
		c.regs.SetFreq(uint16(nf))
	} else {
		nf := uint32(freq) * (255 - amt) / 256
		if nf < uint32(bound) {
			nf = uint32(bound)
		}
		c.regs.SetFreq(uint16(nf))
	}
}

func (c *Channel) stepVolSweep(sw sweepBlock) {
	step := int16(sw.amt & 0x1F)
	dir := sw.amt&0x20 != 0
	wrap := sw.amt&0x40 != 0
	bounce := sw.amt&0x80 != 0
	bound := int16(sw.bound)

	if dir {
		c.curVol += step
	} else {
		c.curVol -= step
	}

	if c.curVol > bound {
		switch {
		case bounce:
			c.curVol = bound - (c.curVol - bound)
		case wrap:
			c.curVol = c.curVol - bound
		default:
			c.curVol = bound
		}
	} else if c.curVol < -bound-1 {
		switch {
		case bounce:
			c.curVol = -bound - 1 + (-bound - 1 - c.curVol)
		case wrap:
			c.curVol = c.curVol + bound + 1
		default:
			c.curVol = -bound - 1
		}
	}
	c.regs.SetVol(int8(c.curVol))
}

// hasActiveOperators reports whether any of the channel's 4 FM operators
// has a nonzero OUT gain, i.e. is contributing to the voice (spec.md
// §4.3.2). A channel with OUT = 0 on every operator falls back to the
// plain oscillator path of §4.3.1.
func (c *Channel) hasActiveOperators() bool {
	for i := range c.regs.Operators {
		if c.regs.Operators[i].Out() != 0 {
			return true
		}
	}
	return false
}

// stepFM sums the 4-operator ESFM voice (spec.md §4.3.2): each operator's
// phase is modulated by the previous operator's output scaled by its MOD
// field, operator 0 self-modulates via its own previous output (acting as
// feedback), and the voice is the OUT-gain-weighted sum.
func (c *Channel) stepFM(keyOn bool) int8 {
	var sum int32
	var prevOut int8
	for i := range c.operators {
		op := &c.operators[i]
		regs := &c.regs.Operators[i]
		modIn := prevOut
		if i == 0 {
			modIn = int8((int32(op.prevOutput) * int32(regs.Mod())) >> 3)
		} else {
			modIn = int8((int32(prevOut) * int32(regs.Mod())) >> 3)
		}
		out := op.step(regs, c.curFreq, modIn, keyOn, c.tick)
		sum += int32(out) * int32(regs.Out())
		prevOut = out
	}
	sum >>= 3 // normalize the 3-bit OUT gain's weighted sum back to int8 range
	if sum > 127 {
		sum = 127
	} else if sum < -128 {
		sum = -128
	}
	return int8(sum)
}

func (c *Channel) stepCutSweep(sw sweepBlock) {
	cutoff := c.regs.Cutoff()
	amt := uint32(sw.amt & 0x1F)
	up := sw.amt&0x20 != 0
	bound := uint16(sw.bound) << 8
	if up {
		nc := uint32(cutoff) + amt
		if nc > 0xFFFF || (bound != 0 && uint16(nc) > bound) {
			nc = uint32(bound)
		}
		c.regs.SetCutoff(uint16(nc))
	} else {
		nc := uint32(cutoff) * (2048 - amt) / 2048
		if nc < uint32(bound) {
			nc = uint32(bound)
		}
		c.regs.SetCutoff(uint16(nc))
	}
}
