//go:build !headless

// audiosink_oto.go - oto/v3-backed stereo audio sink (spec.md §1)

package main

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// otoSink buffers SGU-1 samples into a ring and streams them to the
// system audio device through oto/v3, mirroring the reference engine's
// OtoPlayer setup (context + single long-lived Player).
type otoSink struct {
	mutex  sync.Mutex
	ctx    *oto.Context
	player *oto.Player
	ring   []int16
	head   int
	tail   int
	size   int
}

// NewOtoAudioSink opens the default audio device at InternalSampleRate,
// stereo 16-bit.
func NewOtoAudioSink() (AudioSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   InternalSampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &otoSink{ctx: ctx, size: InternalSampleRate, ring: make([]int16, InternalSampleRate*2)}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read implements io.Reader for oto.Player, draining the ring buffer into
// p (interleaved LE int16 stereo), zero-filling if the producer falls
// behind rather than blocking (the audio domain must never block on us).
func (s *otoSink) Read(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n := len(p) / 2
	for i := 0; i < n; i++ {
		var v int16
		if s.head != s.tail {
			v = s.ring[s.head]
			s.head = (s.head + 1) % len(s.ring)
		}
		binary.LittleEndian.PutUint16(p[i*2:], uint16(v))
	}
	return n * 2, nil
}

func (s *otoSink) PushSample(left, right int32) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pushLocked(clampI16(left))
	s.pushLocked(clampI16(right))
}

func (s *otoSink) pushLocked(v int16) {
	next := (s.tail + 1) % len(s.ring)
	if next == s.head {
		return // ring full: drop rather than block the audio domain
	}
	s.ring[s.tail] = v
	s.tail = next
}

func (s *otoSink) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.player != nil {
		return s.player.Close()
	}
	return nil
}

func clampI16(v int32) int16 {
	v >>= 16
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
