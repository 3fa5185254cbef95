//go:build !headless

// videosink_ebiten.go - ebiten-backed display window (spec.md §1 "Out of scope: DVI/HSTX")

package main

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// ebitenSink accumulates scanlines into a frame buffer and presents it
// through ebiten's game loop, standing in for the DVI/HSTX pixel
// serializer the CGIA is abstracted as feeding (spec.md §1).
type ebitenSink struct {
	mutex   sync.Mutex
	width   int
	height  int
	raster  int
	frame   *image.RGBA
	display *ebiten.Image
}

// NewEbitenVideoSink opens a window sized for width x height scanlines.
func NewEbitenVideoSink(width, height int) (VideoSink, error) {
	s := &ebitenSink{
		width:  width,
		height: height,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	ebiten.SetWindowSize(width*2, height*2)
	ebiten.SetWindowTitle("x65")
	go func() { _ = ebiten.RunGame(s) }()
	return s, nil
}

func (s *ebitenSink) PushScanline(rgb []uint8) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	y := s.raster
	for x := 0; x < s.width && x*3+2 < len(rgb); x++ {
		i := s.frame.PixOffset(x, y)
		s.frame.Pix[i] = rgb[x*3]
		s.frame.Pix[i+1] = rgb[x*3+1]
		s.frame.Pix[i+2] = rgb[x*3+2]
		s.frame.Pix[i+3] = 0xFF
	}
	s.raster = (s.raster + 1) % s.height
}

// Update implements ebiten.Game.
func (s *ebitenSink) Update() error { return nil }

// Draw implements ebiten.Game.
func (s *ebitenSink) Draw(screen *ebiten.Image) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.display == nil {
		s.display = ebiten.NewImageFromImage(s.frame)
	} else {
		s.display.WritePixels(s.frame.Pix)
	}
	screen.DrawImage(s.display, nil)
}

// Layout implements ebiten.Game.
func (s *ebitenSink) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.width, s.height
}

func (s *ebitenSink) Close() error { return nil }
