package maple

import (
	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/sh4"
)

// dmaLatency is the scheduler-cycle delay a Maple DMA transfer's
// completion interrupt fires after, per spec.md §4.9 (approximated, like
// PVR2's render-completion timing, rather than cycle-accurate to the
// real bus's serial bit rate).
const dmaLatency = 50_000

// Bus is the 4-port Maple peripheral bus: up to six devices per port (unit
// 0, the main function, plus five sub-peripheral slots), dispatching
// commands and scheduling the DMA-complete interrupt real software polls
// for after kicking off a transfer.
type Bus struct {
	devices [4][6]Device

	clk  *clock.Clock
	intc *sh4.InterruptController

	dmaDone clock.Event
}

// NewBus returns an empty Bus wired to clk/intc for DMA-complete
// scheduling.
func NewBus(clk *clock.Clock, intc *sh4.InterruptController) *Bus {
	b := &Bus{clk: clk, intc: intc}
	b.dmaDone.Handler = b.onDMADone
	return b
}

// Attach plugs a device into port/unit. unit 0 is the main peripheral
// function; units 1-5 are sub-peripheral expansion sockets.
func (b *Bus) Attach(port, unit int, d Device) {
	b.devices[port][unit] = d
}

// Detach removes whatever device occupies port/unit.
func (b *Bus) Detach(port, unit int) {
	b.devices[port][unit] = nil
}

// dispatch answers one request Packet, returning RespNone if the
// addressed port/unit has nothing plugged in, per spec.md §4.9's rule
// that an empty slot answers DEVINFO (and everything else) with NONE.
func (b *Bus) dispatch(req Packet) Packet {
	port, unit := UnpackAddr(req.Addr)
	if unit < 0 {
		return Packet{Command: RespNone, Addr: req.Addr}
	}
	dev := b.devices[port][unit]
	if dev == nil {
		return Packet{Command: RespNone, Addr: req.Addr}
	}

	switch req.Command {
	case CmdDeviceInfo, CmdAllInfo:
		return Packet{Command: RespDeviceStatus, Addr: req.Addr, Data: dev.Info().encode()}
	default:
		resp, data, ok := dev.Handle(req.Command, req.Data)
		if !ok {
			return Packet{Command: RespUnknownCmd, Addr: req.Addr}
		}
		return Packet{Command: resp, Addr: req.Addr, Data: data}
	}
}

// Transfer runs a full DMA transfer: one request Frame per addressed
// device, in order, producing one response Frame each, then schedules
// the MAPLE DMA-complete interrupt dmaLatency cycles out.
func (b *Bus) Transfer(frames []Frame) []Frame {
	responses := make([]Frame, len(frames))
	for i, f := range frames {
		resp := b.dispatch(f.Packet)
		responses[i] = Frame{
			Port:     f.Port,
			RecvAddr: f.RecvAddr,
			Last:     f.Last,
			Packet:   resp,
		}
	}
	b.clk.ScheduleRelative(&b.dmaDone, dmaLatency)
	return responses
}

func (b *Bus) onDMADone(arg interface{}) {
	b.intc.Raise(sh4.IRQMAPLE)
}
