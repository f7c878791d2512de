package maple_test

import (
	"testing"

	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/maple"
	"github.com/washgo/washcore/sh4"
)

func TestDeviceInfoReturnedForPluggedInController(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	bus := maple.NewBus(clk, intc)
	bus.Attach(0, 0, maple.NewController())

	addr := maple.PackAddr(0, 0)
	resp := bus.Transfer([]maple.Frame{{
		Port: 0, Last: true,
		Packet: maple.Packet{Command: maple.CmdDeviceInfo, Addr: addr},
	}})

	if len(resp) != 1 || resp[0].Packet.Command != maple.RespDeviceStatus {
		t.Fatalf("got %+v, want a single RespDeviceStatus frame", resp)
	}
	if len(resp[0].Packet.Data) == 0 {
		t.Fatalf("expected a non-empty DEVINFO payload")
	}
	// spec.md §8 scenario 4: the Controller's function-code mask, read
	// little-endian from bytes 0..3 of the DEVINFO payload, is 0x01000000.
	data := resp[0].Packet.Data
	funcMask := uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
	if funcMask != 0x01000000 {
		t.Fatalf("got function mask %#08x, want 0x01000000", funcMask)
	}
}

func TestDeviceInfoForUnplugggedSlotReturnsNone(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	bus := maple.NewBus(clk, intc)

	addr := maple.PackAddr(2, 0)
	resp := bus.Transfer([]maple.Frame{{
		Port: 2, Last: true,
		Packet: maple.Packet{Command: maple.CmdDeviceInfo, Addr: addr},
	}})
	if resp[0].Packet.Command != maple.RespNone {
		t.Fatalf("got %v, want RespNone for an unplugged slot", resp[0].Packet.Command)
	}
}

func TestGetConditionReportsButtonState(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	bus := maple.NewBus(clk, intc)
	ctrl := maple.NewController()
	ctrl.Buttons = 0xfffb // button A held (bit 2 cleared, active-low)
	bus.Attach(1, 0, ctrl)

	addr := maple.PackAddr(1, 0)
	resp := bus.Transfer([]maple.Frame{{
		Port: 1, Last: true,
		Packet: maple.Packet{Command: maple.CmdGetCondition, Addr: addr},
	}})

	if resp[0].Packet.Command != maple.RespDataTransfer {
		t.Fatalf("got %v, want RespDataTransfer", resp[0].Packet.Command)
	}
	if len(resp[0].Packet.Data) != 8 {
		t.Fatalf("got %d condition bytes, want 8", len(resp[0].Packet.Data))
	}
	data := resp[0].Packet.Data
	if got := uint16(data[4]) | uint16(data[5])<<8; got != 0xfffb {
		t.Fatalf("got buttons %#04x, want 0xfffb", got)
	}
}

func TestTransferSchedulesDMACompleteInterrupt(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	bus := maple.NewBus(clk, intc)
	bus.Attach(0, 0, maple.NewController())

	addr := maple.PackAddr(0, 0)
	bus.Transfer([]maple.Frame{{Port: 0, Last: true, Packet: maple.Packet{Command: maple.CmdDeviceInfo, Addr: addr}}})

	if _, ok := intc.Pending(0, false); ok {
		t.Fatalf("expected no interrupt pending before DMA-complete latency elapses")
	}
	clk.Advance(100_000)
	clk.PopDue()
	if _, ok := intc.Pending(0, false); !ok {
		t.Fatalf("expected a MAPLE DMA-complete interrupt pending after latency elapsed")
	}
}

func TestFrameEncodeDecodeRoundTrip(t *testing.T) {
	f := maple.Frame{
		Port: 1, Pattern: 0, Last: true, RecvAddr: maple.PackAddr(1, 0),
		Packet: maple.Packet{Command: maple.CmdGetCondition, Addr: maple.PackAddr(1, 0), Data: []byte{1, 2, 3, 4}},
	}
	enc := f.Encode()
	got, err := maple.DecodeFrame(enc)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Packet.Command != f.Packet.Command || got.Port != f.Port || got.Last != f.Last {
		t.Fatalf("got %+v, want %+v", got, f)
	}
	if len(got.Packet.Data) != 4 {
		t.Fatalf("got %d payload bytes, want 4", len(got.Packet.Data))
	}
}
