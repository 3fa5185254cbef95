// errors.go - sentinel error kinds (spec.md §7)

package main

import "errors"

// Sentinel errors for errors.Is matching across package boundaries.
var (
	// ErrPixProtocol covers unexpected replies, unknown request types and
	// payload length mismatches on the PIX link. Always fatal to the
	// master side: the CPU halts.
	ErrPixProtocol = errors.New("pix: protocol violation")

	// ErrPixTimeout fires when no reply arrives within the configured
	// watchdog window (~50ms in the reference design).
	ErrPixTimeout = errors.New("pix: reply timeout")

	// ErrCGIARunaway marks a display-list that exceeded the 32-instruction
	// guard between mode rows, or hit an unknown opcode. Never fatal: the
	// renderer recovers by forcing a magenta diagnostic line and advancing.
	ErrCGIARunaway = errors.New("cgia: display list runaway")

	// ErrVideoUnderrun marks a scanline that did not finish rendering
	// before the display encoder's hsync deadline. Fatal: the reference
	// design prints "DVI underrun" and halts; there is no recovery path.
	ErrVideoUnderrun = errors.New("cgia: video domain deadline missed")

	// ErrAudioOverrun marks a sample tick that did not finish inside the
	// I2S FIFO deadline. Fatal: there is no recovery path.
	ErrAudioOverrun = errors.New("sgu: audio tick overrun")

	// ErrVRAMDesync marks a plane whose wanted bank doesn't match either
	// cached mirror slot. Never fatal: the plane is skipped for one frame.
	ErrVRAMDesync = errors.New("cgia: vram bank desync")

	// ErrCPUHalted marks a CPU-initiated halt via a 0xFF write to the API
	// doorbell (spec.md §4.4). Fatal: there is no recovery path.
	ErrCPUHalted = errors.New("cpu: halted via api doorbell")
)
