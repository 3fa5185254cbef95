//go:build headless

// audiosink_headless.go - no-op audio sink for headless builds (spec.md §1)

package main

type headlessAudioSink struct{}

// NewOtoAudioSink is shadowed in headless builds: no system audio device
// is opened, matching the reference engine's headless audio backend.
func NewOtoAudioSink() (AudioSink, error) {
	return headlessAudioSink{}, nil
}

func (headlessAudioSink) PushSample(left, right int32) {}
func (headlessAudioSink) Close() error                 { return nil }
