// videosink.go - downstream display encoder port (spec.md §1 "Out of scope: DVI/HSTX")

package main

// VideoSink receives one rendered RGB scanline per hsync. The video
// core's only obligation to its encoder is producing this buffer on
// time (spec.md §1).
type VideoSink interface {
	PushScanline(rgb []uint8)
	Close() error
}
