// main.go - wires the CGIA, SGU-1, PIX bus and CPU register file into one
// running simulator, mirroring the reference engine's main.go wiring shape
// (construct each chip, hand its slave end to the bus, start the domains).

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const (
	defaultRAMSize    = 2 * 1024 * 1024
	defaultPCMSize    = PCMRAMMaxSize
	defaultLineWidth  = ColumnsPerLine * CGIAColumnPx
)

func main() {
	monitor := flag.Bool("monitor", false, "attach an interactive PIX liveness tap on stdin")
	flag.Parse()

	if err := run(*monitor); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run wires the chips and blocks until a domain fails or the process is
// signaled. Whether audio/video actually open a device or window is
// decided at build time by the headless tag, not here (spec.md §1's
// DVI/I2S hardware is out of scope either way).
func run(monitor bool) error {
	vram := NewVRAMCache()
	cgia := NewCGIA(vram, defaultLineWidth)
	sgu := NewSGU(defaultPCMSize)
	regs := NewCPURegFile(sgu)

	pixSlave := NewPixSlave(vram, cgia.Raster)
	onPixMemWrite := func(addr uint32, data uint8) { vram.MemWrite(addr, data) }
	bus := NewSystemBus(defaultRAMSize, cgia, regs, onPixMemWrite)

	link := NewDirectLink(pixSlave)
	master := NewPixMaster(link)
	master.SetOnHalt(func(err error) {
		busLog.Printf("halted: %v", err)
		os.Exit(1)
	})

	videoSink, err := NewEbitenVideoSink(defaultLineWidth, DisplayHeightLines)
	if err != nil {
		return fmt.Errorf("video sink: %w", err)
	}
	defer videoSink.Close()

	audioSink, err := NewOtoAudioSink()
	if err != nil {
		return fmt.Errorf("audio sink: %w", err)
	}
	defer audioSink.Close()

	domains := &Domains{
		CGIA:      cgia,
		SGU:       sgu,
		Bus:       bus,
		Regs:      regs,
		Pix:       pixSlave,
		Master:    master,
		RAM:       bus.RAM(),
		VideoSink: videoSink,
		AudioSink: audioSink,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if monitor {
		go func() {
			tm := NewTerminalMonitor(master)
			if err := tm.Run(); err != nil {
				busLog.Printf("monitor: %v", err)
			}
			stop()
		}()
	}

	return domains.Run(ctx)
}
