//go:build headless

// videosink_headless.go - no-op video sink for headless builds (spec.md §1)

package main

type headlessVideoSink struct{}

// NewEbitenVideoSink is shadowed in headless builds: no window is opened,
// matching the reference engine's headless video backend.
func NewEbitenVideoSink(width, height int) (VideoSink, error) {
	return headlessVideoSink{}, nil
}

func (headlessVideoSink) PushScanline(rgb []uint8) {}
func (headlessVideoSink) Close() error              { return nil }
