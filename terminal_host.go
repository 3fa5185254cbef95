// terminal_host.go - raw-mode terminal liveness tap for the bus domain
// (spec.md §4.1, §5). The monitor command grammar itself is out of scope
// (spec.md §1 Non-goals); this only exercises the PIX PING/SYNC round trip
// from an interactive keypress so a developer at a serial console can
// confirm the bridges are alive, the way the reference engine's
// debug_monitor.go taps into live chip state without being a full monitor.
package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalMonitor reads single keypresses from stdin in raw mode and turns
// 'p' into a PIX PING and 's' into a PIX SYNC, printing the reply. 'q'
// (or ctrl-C/ctrl-D) exits the loop.
type TerminalMonitor struct {
	master *PixMaster
	in     *os.File
	out    io.Writer
}

// NewTerminalMonitor binds a liveness tap to master, reading from stdin.
func NewTerminalMonitor(master *PixMaster) *TerminalMonitor {
	return &TerminalMonitor{master: master, in: os.Stdin, out: os.Stdout}
}

// Run puts stdin into raw mode and services keypresses until 'q', ctrl-C,
// ctrl-D, or a read error. It restores the terminal state before returning.
func (t *TerminalMonitor) Run() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("terminal_host: stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("terminal_host: %w", err)
	}
	defer term.Restore(fd, oldState)

	fmt.Fprint(t.out, "x65 liveness tap: p=PING s=SYNC q=quit\r\n")
	buf := make([]byte, 1)
	for {
		n, err := t.in.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case 'q', 0x03, 0x04: // q, ctrl-C, ctrl-D
			return nil
		case 'p':
			t.ping(buf[0])
		case 's':
			t.sync()
		}
	}
}

func (t *TerminalMonitor) ping(nonce byte) {
	code, payload, err := t.master.Request(PixPing, []byte{nonce})
	if err != nil {
		fmt.Fprintf(t.out, "PING failed: %v\r\n", err)
		return
	}
	fmt.Fprintf(t.out, "PONG code=%d payload=0x%03X\r\n", code, payload)
}

func (t *TerminalMonitor) sync() {
	code, raster, err := t.master.Request(PixSync, []byte{0})
	if err != nil {
		fmt.Fprintf(t.out, "SYNC failed: %v\r\n", err)
		return
	}
	fmt.Fprintf(t.out, "ACK code=%d raster=%d\r\n", code, raster)
}
