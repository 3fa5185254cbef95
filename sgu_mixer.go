// sgu_mixer.go - 9-channel mixdown and global LFO (spec.md §3.3, §4.3.3)

package main

import "sync"

// SGU is the SoundUnit synthesizer: 9 independent channels summed to a
// stereo output (spec.md §2, §4.3).
type SGU struct {
	mutex sync.Mutex

	channels [NumChannels]*Channel
	pcm      []int8 // PCM RAM, size must be a power of two (spec.md §3.3)

	lfoAM uint32
	lfoPM uint32

	selectedChannel uint8 // CHANNEL_SELECT paging target (spec.md §4.4)
	special2TODO    bool  // surfaced per spec.md §9's open question, never acted on
}

// NewSGU allocates an SGU-1 with pcmSize bytes of PCM RAM (rounded down to
// the nearest power of two, capped at 64KB per spec.md §3.3).
func NewSGU(pcmSize int) *SGU {
	if pcmSize <= 0 {
		pcmSize = PCMRAMMaxSize
	}
	if pcmSize > PCMRAMMaxSize {
		pcmSize = PCMRAMMaxSize
	}
	size := 1
	for size*2 <= pcmSize {
		size *= 2
	}
	s := &SGU{pcm: make([]int8, size)}
	for i := range s.channels {
		s.channels[i] = NewChannel()
	}
	return s
}

// LoadPCM copies raw signed-8-bit samples into PCM RAM starting at offset.
func (s *SGU) LoadPCM(offset int, data []int8) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i, b := range data {
		pos := (offset + i) & (len(s.pcm) - 1)
		s.pcm[pos] = b
	}
}

// Tick advances the global LFO and every channel by one sample, returning
// the clamped stereo output ready for the I2S encoder (spec.md §4.3.3).
func (s *SGU) Tick() (left, right int32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lfoAM++
	s.lfoPM++

	var sumL, sumR int64
	raws := make([]int8, NumChannels)
	for i, ch := range s.channels {
		raws[i] = ch.prevRaw
	}
	for i, ch := range s.channels {
		ringSrc := raws[(i+1)%NumChannels]
		l, r := ch.Step(s.pcm, ringSrc)
		sumL += int64(l)
		sumR += int64(r)
	}

	return clampI32(sumL), clampI32(sumR)
}

func clampI32(v int64) int32 {
	if v > 0x7FFFFFFF {
		return 0x7FFFFFFF
	}
	if v < -0x80000000 {
		return -0x80000000
	}
	return int32(v)
}

// ChannelWindow returns the currently CHANNEL_SELECT-paged channel's
// register block, for the CPU-visible 64-byte register window (spec.md
// §4.4's "paged register file pattern").
func (s *SGU) ChannelWindow() *ChannelRegs {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	idx := s.selectedChannel
	if int(idx) >= NumChannels {
		return nil
	}
	return &s.channels[idx].regs
}

// SelectChannel sets the CHANNEL_SELECT register. A value of 0xFF is
// described by the reference design as mapping "service registers"; per
// spec.md §9's open question this mapping is undocumented and not acted
// on here beyond recording the TODO flag.
func (s *SGU) SelectChannel(v uint8) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if v == 0xFF {
		s.special2TODO = true
		return
	}
	s.selectedChannel = v
}
