// audiosink.go - downstream audio output port (spec.md §1 "Out of scope: I2S codec")

package main

// AudioSink receives the SGU-1's stereo output, one sample pair per
// I2S slot. Implementations must not block the audio domain beyond one
// sample period (spec.md §5).
type AudioSink interface {
	PushSample(left, right int32)
	Close() error
}
