package serial

import (
	"bytes"
	"testing"

	"github.com/thelolagemann/gbcore/internal/interrupts"
	"github.com/thelolagemann/gbcore/internal/io"
	"github.com/thelolagemann/gbcore/internal/types"
)

func TestController_Transfer(t *testing.T) {
	b := io.NewBus()
	irq := interrupts.NewService()
	c := NewController(b, irq)

	var out bytes.Buffer
	c.Attach(NewWriterDevice(&out))

	for _, v := range []byte("ok") {
		b.Write(types.SB, v)
		b.Write(types.SC, 0x81)
	}

	if out.String() != "ok" {
		t.Errorf("Expected serial output to be %q, got %q", "ok", out.String())
	}
	if b.Read(types.SB) != 0xFF {
		t.Errorf("Expected SB to hold the received byte 0xFF, got 0x%02X", b.Read(types.SB))
	}
	if b.Read(types.SC) != 0x7F {
		t.Errorf("Expected the transfer request to be cleared, got SC 0x%02X", b.Read(types.SC))
	}
	if !irq.Pending(interrupts.Serial) {
		t.Error("Expected the serial interrupt to be requested")
	}
}

func TestController_ExternalClock(t *testing.T) {
	b := io.NewBus()
	irq := interrupts.NewService()
	c := NewController(b, irq)

	b.Write(types.SB, 0x42)
	b.Write(types.SC, 0x80)

	if !c.TransferRequest || b.Read(types.SC) != 0xFE {
		t.Errorf("Expected the transfer to wait for a clock, got SC 0x%02X", b.Read(types.SC))
	}
	if b.Read(types.SB) != 0x42 {
		t.Errorf("Expected SB to be unchanged, got 0x%02X", b.Read(types.SB))
	}
	if irq.Pending(interrupts.Serial) {
		t.Error("Expected no serial interrupt")
	}
}

func TestController_State(t *testing.T) {
	c := NewController(io.NewBus(), interrupts.NewService())
	c.data, c.TransferRequest = 0x12, true

	s := types.NewState()
	c.Save(s)

	other := NewController(io.NewBus(), interrupts.NewService())
	other.Load(types.StateFromBytes(s.Bytes()))
	if other.data != 0x12 || !other.TransferRequest || other.InternalClock {
		t.Errorf("Expected the state to be restored, got %+v", other)
	}
}
