// pix_transport.go - PIX master/slave transport (spec.md §4.1, §5, §7)

package main

import (
	"fmt"
	"sync"
	"time"
)

// DefaultPixTimeout matches the ~50ms watchdog window of the reference
// design (spec.md §4.1).
const DefaultPixTimeout = 50 * time.Millisecond

// PixStats are cheap diagnostic counters kept on the hot path, in the
// spirit of the reference engine's debug_monitor.go counters.
type PixStats struct {
	Sent     uint64
	Replied  uint64
	Timeouts uint64
	NAKs     uint64
}

// PixSlave is the video/audio-side endpoint. It answers requests
// synchronously (one request in, one reply out) and tracks in-flight
// DMA-bank-fill state.
type PixSlave struct {
	mutex sync.Mutex

	vram *VRAMCache
	cgia *CGIA

	raster func() uint16 // current raster line, supplied by the CGIA engine

	inFlight int // requests received minus replies sent

	devHandler func(device, command uint8, payload []byte) (PixReplyCode, uint16, error)

	stats PixStats
}

// NewPixSlave creates a slave bound to the given VRAM mirror. raster
// reports the current scanline for SYNC ACK replies.
func NewPixSlave(vram *VRAMCache, raster func() uint16) *PixSlave {
	return &PixSlave{vram: vram, raster: raster}
}

// SetDevHandler installs the DEV_CMD/DEV_READ/DEV_WRITE dispatcher
// (spec.md §4.1.1).
func (s *PixSlave) SetDevHandler(h func(device, command uint8, payload []byte) (PixReplyCode, uint16, error)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.devHandler = h
}

// Handle processes one decoded request frame and returns the reply word.
// Unsolicited replies are not modeled here since the slave never receives
// replies; the master enforces that side of spec.md §5's ordering rule.
func (s *PixSlave) Handle(frame PixFrame) (uint16, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.inFlight++
	defer func() { s.inFlight--; s.stats.Replied++ }()
	s.stats.Sent++

	switch frame.Type {
	case PixSync:
		if len(frame.Payload) != 1 {
			return EncodeReply(PixNAK, 0), fmt.Errorf("pix: %w: SYNC payload length %d, want 1", ErrPixProtocol, len(frame.Payload))
		}
		return EncodeReply(PixACK, s.raster()), nil

	case PixPing:
		if len(frame.Payload) < 1 || len(frame.Payload) > 32 {
			return EncodeReply(PixNAK, 0), fmt.Errorf("pix: %w: PING payload length %d out of [1,32]", ErrPixProtocol, len(frame.Payload))
		}
		last := frame.Payload[len(frame.Payload)-1]
		return EncodeReply(PixPONG, PingPayload(last, len(frame.Payload))), nil

	case PixMemWrite:
		addr, data, err := DecodeMemWrite(frame.Payload)
		if err != nil {
			return EncodeReply(PixNAK, 0), err
		}
		s.vram.MemWrite(addr, data)
		return EncodeReply(PixACK, s.raster()), nil

	case PixDMAWrite:
		if len(frame.Payload) != PixDMALineSize {
			return EncodeReply(PixNAK, 0), fmt.Errorf("pix: %w: DMA_WRITE payload length %d, want %d", ErrPixProtocol, len(frame.Payload), PixDMALineSize)
		}
		s.vram.DMAWriteLine(frame.Payload)
		return EncodeReply(PixACK, s.raster()), nil

	case PixDevCmd, PixDevRead, PixDevWrite:
		if len(frame.Payload) < 1 {
			return EncodeReply(PixNAK, 0), fmt.Errorf("pix: %w: empty device payload", ErrPixProtocol)
		}
		device, command := DecodeDevCmd(frame.Payload[0])
		if s.devHandler == nil {
			s.stats.NAKs++
			return EncodeReply(PixNAK, 0), nil
		}
		code, payload, err := s.devHandler(device, command, frame.Payload[1:])
		if err != nil {
			s.stats.NAKs++
			return EncodeReply(PixNAK, 0), err
		}
		return EncodeReply(code, payload), nil

	default:
		s.stats.NAKs++
		return EncodeReply(PixNAK, 0), fmt.Errorf("pix: %w: unknown request type %d", ErrPixProtocol, frame.Type)
	}
}

// IdleDMARequest is called by the bus domain (Domains.runBus) whenever
// there is no request in flight, to offer a DMA_REQ reply carrying the
// desired bank. Returns ok=false when no plane currently wants a bank
// refill.
func (s *PixSlave) IdleDMARequest() (bank uint8, ok bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.inFlight != 0 {
		return 0, false
	}
	return s.vram.NextWantedBank()
}

// Stats returns a snapshot of the slave's diagnostic counters.
func (s *PixSlave) Stats() PixStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stats
}

// --------------------------------------------------------------------------
// Master side
// --------------------------------------------------------------------------

// PixLink is the minimal point-to-point transport a PixMaster drives: send
// a request frame, get back a reply word. A real bridge implements this
// over whatever wire-accurate PIO/DMA transport it likes (spec.md's
// Non-goals leave this open); tests use an in-process link straight into a
// PixSlave.
type PixLink interface {
	Send(frame PixFrame) (uint16, error)
}

// directLink wires a PixMaster straight to a PixSlave in-process.
type directLink struct{ slave *PixSlave }

func (d directLink) Send(frame PixFrame) (uint16, error) { return d.slave.Handle(frame) }

// NewDirectLink returns a PixLink that calls the slave in-process,
// synchronously, with no timeout simulation. Useful for unit tests and for
// a single-binary simulator where both bridges live in one process.
func NewDirectLink(slave *PixSlave) PixLink { return directLink{slave} }

// PixMaster is the CPU-side endpoint. It serializes requests that expect a
// reply, tracks in-flight count, and halts on any protocol violation or
// timeout (spec.md §7).
type PixMaster struct {
	mutex   sync.Mutex
	link    PixLink
	timeout time.Duration

	inFlight int
	halted   bool
	haltErr  error

	onHalt func(error) // called once, with the mutex released

	stats PixStats
}

// NewPixMaster creates a master that talks to link with the default
// watchdog timeout.
func NewPixMaster(link PixLink) *PixMaster {
	return &PixMaster{link: link, timeout: DefaultPixTimeout}
}

// SetTimeout overrides the watchdog window.
func (m *PixMaster) SetTimeout(d time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.timeout = d
}

// SetOnHalt installs the callback invoked the first time the master
// halts the (simulated) CPU. In the real firmware this stops 65C816
// execution; in main.go's run() it is wired to process exit.
func (m *PixMaster) SetOnHalt(f func(error)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.onHalt = f
}

// Halted reports whether the master has stopped issuing requests.
func (m *PixMaster) Halted() (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.halted, m.haltErr
}

// halt marks the master as dead and fires the halt callback exactly once.
func (m *PixMaster) halt(err error) {
	m.mutex.Lock()
	if m.halted {
		m.mutex.Unlock()
		return
	}
	m.halted = true
	m.haltErr = err
	cb := m.onHalt
	m.mutex.Unlock()

	pixLog.Printf("fatal: %v", err)
	if cb != nil {
		cb(err)
	}
}

// Request sends a frame and serializes on its reply: spec.md §4.1's "a real
// response pointer serializes on the previous outstanding-response". The
// reply, or a timeout/protocol error, is returned; any error also halts
// the master.
func (m *PixMaster) Request(t PixRequestType, payload []byte) (PixReplyCode, uint16, error) {
	m.mutex.Lock()
	if m.halted {
		m.mutex.Unlock()
		return 0, 0, fmt.Errorf("pix: %w: master halted: %v", ErrPixProtocol, m.haltErr)
	}
	m.inFlight++
	m.stats.Sent++
	link := m.link
	timeout := m.timeout
	m.mutex.Unlock()

	header, err := EncodeHeader(t, len(payload))
	if err != nil {
		m.halt(err)
		return 0, 0, err
	}
	frame := PixFrame{Type: t, Payload: payload}
	_ = header // the in-process link exchanges PixFrame directly; a byte-serial
	// transport would prepend `header` itself before the payload bytes.

	type result struct {
		word uint16
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		w, err := link.Send(frame)
		ch <- result{w, err}
	}()

	select {
	case r := <-ch:
		m.mutex.Lock()
		m.inFlight--
		m.mutex.Unlock()
		if r.err != nil {
			m.halt(r.err)
			return 0, 0, r.err
		}
		code, p := DecodeReply(r.word)
		if code == PixNAK {
			m.mutex.Lock()
			m.stats.NAKs++
			m.mutex.Unlock()
		} else {
			m.mutex.Lock()
			m.stats.Replied++
			m.mutex.Unlock()
		}
		return code, p, nil
	case <-time.After(timeout):
		m.mutex.Lock()
		m.stats.Timeouts++
		m.mutex.Unlock()
		err := fmt.Errorf("pix: %w after %s waiting for %s reply", ErrPixTimeout, timeout, t)
		m.halt(err)
		return 0, 0, err
	}
}

// RequestAsync sends a frame without waiting for (or serializing on) its
// reply, matching spec.md §4.1's "sending a new request with
// response=nullptr does not block". The reply, when it eventually arrives,
// is simply discarded by the in-process link model used here.
func (m *PixMaster) RequestAsync(t PixRequestType, payload []byte) error {
	m.mutex.Lock()
	if m.halted {
		m.mutex.Unlock()
		return fmt.Errorf("pix: %w: master halted: %v", ErrPixProtocol, m.haltErr)
	}
	link := m.link
	m.mutex.Unlock()

	if _, err := EncodeHeader(t, len(payload)); err != nil {
		m.halt(err)
		return err
	}
	go func() { _, _ = link.Send(PixFrame{Type: t, Payload: payload}) }()
	return nil
}

// Stats returns a snapshot of the master's diagnostic counters.
func (m *PixMaster) Stats() PixStats {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.stats
}

// PumpDMA drains a requested VRAM bank refill by sending exactly
// 2048 DMA_WRITE frames of 32 bytes each (65536 bytes total), in order,
// from src. This realizes the DMA-req flow of spec.md §4.1.
func (m *PixMaster) PumpDMA(src []byte) error {
	const lines = VRAMBankSize / PixDMALineSize
	if len(src) != VRAMBankSize {
		return fmt.Errorf("pix: %w: DMA source length %d, want %d", ErrPixProtocol, len(src), VRAMBankSize)
	}
	for i := 0; i < lines; i++ {
		line := src[i*PixDMALineSize : (i+1)*PixDMALineSize]
		if _, _, err := m.Request(PixDMAWrite, line); err != nil {
			return err
		}
	}
	return nil
}
