package main

import (
	"errors"
	"testing"
	"time"
)

func newTestTransport() (*PixMaster, *PixSlave, *VRAMCache) {
	vram := NewVRAMCache()
	raster := func() uint16 { return 42 }
	slave := NewPixSlave(vram, raster)
	master := NewPixMaster(NewDirectLink(slave))
	return master, slave, vram
}

// TestPixPingRoundTrip pins spec.md's testable property 1 and scenario S5:
// PING(p) produces exactly one PONG whose payload is (p[L-1]<<6)|L.
func TestPixPingRoundTrip(t *testing.T) {
	master, _, _ := newTestTransport()
	code, payload, err := master.Request(PixPing, []byte{0xAB})
	if err != nil {
		t.Fatalf("Request(PING): %v", err)
	}
	if code != PixPONG {
		t.Fatalf("reply code = %v, want PONG", code)
	}
	if payload != 0x0AC1 {
		t.Fatalf("payload = 0x%X, want 0x0AC1", payload)
	}
}

func TestPixPingMultiBytePayloadUsesLastByte(t *testing.T) {
	master, _, _ := newTestTransport()
	_, payload, err := master.Request(PixPing, []byte{0x11, 0x22, 0x33})
	if err != nil {
		t.Fatalf("Request(PING): %v", err)
	}
	want := PingPayload(0x33, 3)
	if payload != want {
		t.Fatalf("payload = 0x%X, want 0x%X", payload, want)
	}
}

func TestPixSyncReturnsRaster(t *testing.T) {
	master, _, _ := newTestTransport()
	code, raster, err := master.Request(PixSync, []byte{0})
	if err != nil {
		t.Fatalf("Request(SYNC): %v", err)
	}
	if code != PixACK || raster != 42 {
		t.Fatalf("(code, raster) = (%v, %d), want (ACK, 42)", code, raster)
	}
}

// slowLink stalls every Send past the master's watchdog window.
type slowLink struct{ delay time.Duration }

func (s slowLink) Send(frame PixFrame) (uint16, error) {
	time.Sleep(s.delay)
	return EncodeReply(PixACK, 0), nil
}

func TestPixMasterTimeoutHaltsMaster(t *testing.T) {
	master := NewPixMaster(slowLink{delay: 50 * time.Millisecond})
	master.SetTimeout(5 * time.Millisecond)

	var haltErr error
	master.SetOnHalt(func(err error) { haltErr = err })

	_, _, err := master.Request(PixSync, []byte{0})
	if err == nil {
		t.Fatal("Request should time out")
	}
	if !errors.Is(err, ErrPixTimeout) {
		t.Errorf("err = %v, want ErrPixTimeout", err)
	}

	halted, _ := master.Halted()
	if !halted {
		t.Error("master should be halted after a timeout")
	}
	if haltErr == nil {
		t.Error("onHalt callback should have fired with the timeout error")
	}
}

func TestPixMasterRejectsRequestsAfterHalt(t *testing.T) {
	master := NewPixMaster(slowLink{delay: 50 * time.Millisecond})
	master.SetTimeout(5 * time.Millisecond)
	master.SetOnHalt(func(error) {})
	_, _, _ = master.Request(PixSync, []byte{0})

	_, _, err := master.Request(PixPing, []byte{0xAB})
	if err == nil {
		t.Fatal("Request on a halted master should fail")
	}
}

func TestPixSlaveNAKsUnknownRequestType(t *testing.T) {
	_, slave, _ := newTestTransport()
	_, err := slave.Handle(PixFrame{Type: PixRequestType(7), Payload: []byte{0}})
	if err == nil {
		t.Fatal("Handle with an unknown request type should error")
	}
}

func TestPixSlaveMemWriteMirrorsIntoSyncedBank(t *testing.T) {
	master, _, vram := newTestTransport()
	vram.WantBank(0, 0) // both slots already synced to bank 0 at NewVRAMCache
	payload := EncodeMemWrite(0x0010, 0x7E)
	code, _, err := master.Request(PixMemWrite, payload)
	if err != nil {
		t.Fatalf("Request(MEM_WRITE): %v", err)
	}
	if code != PixACK {
		t.Fatalf("code = %v, want ACK", code)
	}
	got, ok := vram.Read(0, 0x0010)
	if !ok || got != 0x7E {
		t.Fatalf("vram.Read(0, 0x10) = (0x%X, %v), want (0x7E, true)", got, ok)
	}
}

func TestPixDMAWritePopulatesWholeBank(t *testing.T) {
	master, slave, vram := newTestTransport()
	vram.WantBank(0, 5) // bank 5 isn't mirrored yet: needs a fill

	// Mirrors the bus domain's idle-DMA-request pump (spec.md §4.1): the
	// slave primes the fill countdown before the master streams lines.
	if _, ok := slave.IdleDMARequest(); !ok {
		t.Fatal("IdleDMARequest should report bank 5 wanted")
	}

	src := make([]byte, VRAMBankSize)
	for i := range src {
		src[i] = 0xCC
	}
	if err := master.PumpDMA(src); err != nil {
		t.Fatalf("PumpDMA: %v", err)
	}
	if !vram.Ready(0) {
		t.Fatal("slot 0 should be synced after a full PumpDMA")
	}
	if b, ok := vram.Read(5, 0); !ok || b != 0xCC {
		t.Fatalf("vram.Read(5, 0) = (0x%X, %v), want (0xCC, true)", b, ok)
	}
}
