// system_domains.go - concurrency domain supervision (spec.md §5)

package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// videoRefreshHz and audio sample period derive the real-time deadlines
// the video and audio domains must not miss (spec.md §5).
const videoRefreshHz = 50 // PAL-ish, matches DisplayHeightLines

// Domains supervises the three concurrency domains named in spec.md §5:
// video (one scanline per hsync), audio (one stereo sample per I2S
// slot), and bus/monitor (CPU cycles, PIX, USB, file I/O). Each domain
// is a value owned by its own goroutine; cross-domain state is only the
// CGIA/SGU/bus values themselves, whose own locking documents which
// domain may touch what (spec.md §9 "Multi-domain shared state").
type Domains struct {
	CGIA  *CGIA
	SGU   *SGU
	Bus   *SystemBus
	Regs  *CPURegFile
	Pix   *PixSlave

	Master *PixMaster
	RAM    *MainRAM

	VideoSink VideoSink
	AudioSink AudioSink
}

// Run starts all three domains and blocks until one fails or ctx is
// cancelled. A video or audio deadline miss is fatal, matching the
// reference firmware's "halt and print" behavior (spec.md §5, §7).
func (d *Domains) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.runVideo(ctx) })
	g.Go(func() error { return d.runAudio(ctx) })
	g.Go(func() error { return d.runBus(ctx) })

	return g.Wait()
}

func (d *Domains) runVideo(ctx context.Context) error {
	period := time.Second / videoRefreshHz / time.Duration(DisplayHeightLines)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			deadline := time.Now().Add(period)
			line := d.CGIA.NextScanline()
			if time.Now().After(deadline) {
				cgiaLog.Printf("scanline overrun at raster %d", d.CGIA.Raster())
				return fmt.Errorf("video domain: %w", ErrVideoUnderrun)
			}
			if d.VideoSink != nil {
				d.VideoSink.PushScanline(line)
			}
		}
	}
}

func (d *Domains) runAudio(ctx context.Context) error {
	period := time.Second / InternalSampleRate
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			deadline := time.Now().Add(period)
			l, r := d.SGU.Tick()
			if time.Now().After(deadline) {
				sguLog.Printf("sample tick overrun")
				return fmt.Errorf("audio domain: %w", ErrAudioOverrun)
			}
			if d.AudioSink != nil {
				d.AudioSink.PushSample(l, r)
			}
		}
	}
}

// runBus drives the idle-DMA-request pump described in spec.md §4.1/§7:
// whenever no PIX request is in flight and a VRAM bank is wanted, pull
// the bank's 64KB from main RAM and push it over PIX as 2048 DMA_WRITE
// frames.
func (d *Domains) runBus(ctx context.Context) error {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if d.Regs.Halted() {
				return fmt.Errorf("bus domain: %w", ErrCPUHalted)
			}
			d.Regs.AdvanceClock(1000)
			bank, ok := d.Pix.IdleDMARequest()
			if !ok {
				continue
			}
			src, err := d.RAM.ReadBlock(uint32(bank)<<16, VRAMBankSize)
			if err != nil {
				busLog.Printf("dma source read failed for bank %d: %v", bank, err)
				continue
			}
			if err := d.Master.PumpDMA(src); err != nil {
				busLog.Printf("pix: %v", err)
				return err
			}
		}
	}
}
