// Package tmu implements the SH-4's on-chip Timer Unit: three independent
// down-counters driven off the peripheral clock, each raising its TUNI
// interrupt on underflow. Dreamcast software uses TMU0 as its principal
// millisecond/frame timer, so this is carried as an ambient peripheral
// even though spec.md's distilled scope only names the CPU/PVR2/Maple
// trio explicitly -- see DESIGN.md.
//
// Grounded the same way as package sh4's InterruptController: a small
// explicit register-bit state machine rather than a continuous
// simulation, since that is the only shape spec.md's peripherals take.
package tmu

import (
	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/sh4"
)

const channelCount = 3

var tuniIRQ = [channelCount]sh4.IRQLine{sh4.IRQTMU0, sh4.IRQTMU1, sh4.IRQTMU2}

// TCR bits (a representative subset: clock-select and underflow-flag).
const (
	tcrUNF = 1 << 8
)

// Channel is one of the TMU's three down-counters.
type Channel struct {
	TCOR uint32 // reload value
	TCNT uint32 // current count
	TCR  uint16
	running bool
	scale   int64 // scheduler cycles per TMU tick, derived from TCR's clock-select bits

	event clock.Event
}

// Unit is the 3-channel Timer Unit.
type Unit struct {
	channels [channelCount]Channel
	TOCR     uint8

	clk  *clock.Clock
	intc *sh4.InterruptController
}

// prescaleTable maps TCR's 3-bit clock-select field to a Pclk divisor,
// matching real SH-4 TMU wiring (/4, /16, /64, /256, /1024, Rtc).
var prescaleTable = [8]int64{4, 16, 64, 256, 1024, 1, 1, 1}

// New returns a Unit with all channels stopped, wired to clk/intc.
func New(clk *clock.Clock, intc *sh4.InterruptController) *Unit {
	u := &Unit{clk: clk, intc: intc}
	for i := range u.channels {
		ch := i
		u.channels[i].event.Handler = func(arg interface{}) { u.onUnderflow(ch) }
		u.channels[i].scale = prescaleTable[0]
	}
	return u
}

// WriteTSTR starts or stops each channel according to bits 0-2 (channel
// 0-2's start bit).
func (u *Unit) WriteTSTR(v uint8) {
	for i := range u.channels {
		want := v&(1<<uint(i)) != 0
		if want && !u.channels[i].running {
			u.start(i)
		} else if !want && u.channels[i].running {
			u.stop(i)
		}
	}
}

// WriteTCR sets channel ch's control register, re-deriving its prescale.
func (u *Unit) WriteTCR(ch int, v uint16) {
	u.channels[ch].TCR = v &^ tcrUNF // writing TCR clears UNF per real hardware
	u.channels[ch].scale = prescaleTable[v&0x7]
	if u.channels[ch].running {
		u.reschedule(ch)
	}
}

// WriteTCOR sets channel ch's reload value.
func (u *Unit) WriteTCOR(ch int, v uint32) {
	u.channels[ch].TCOR = v
}

// WriteTCNT sets channel ch's live count, rescheduling its underflow event
// if running.
func (u *Unit) WriteTCNT(ch int, v uint32) {
	u.channels[ch].TCNT = v
	if u.channels[ch].running {
		u.reschedule(ch)
	}
}

// ReadTCNT reports channel ch's count, extrapolated from the scheduled
// underflow event so reads between ticks are accurate.
func (u *Unit) ReadTCNT(ch int) uint32 {
	c := &u.channels[ch]
	if !c.running || !c.event.Scheduled() {
		return c.TCNT
	}
	remaining := c.event.When - u.clk.Stamp()
	if remaining < 0 {
		remaining = 0
	}
	return uint32(remaining / c.scale)
}

func (u *Unit) start(ch int) {
	u.channels[ch].running = true
	u.reschedule(ch)
}

func (u *Unit) stop(ch int) {
	c := &u.channels[ch]
	c.TCNT = u.ReadTCNT(ch)
	c.running = false
	u.clk.Cancel(&c.event)
}

func (u *Unit) reschedule(ch int) {
	c := &u.channels[ch]
	delta := int64(c.TCNT) * c.scale
	u.clk.Schedule(&c.event, u.clk.Stamp()+delta)
}

func (u *Unit) onUnderflow(ch int) {
	c := &u.channels[ch]
	c.TCR |= tcrUNF
	c.TCNT = c.TCOR
	u.intc.Raise(tuniIRQ[ch])
	if c.running {
		u.reschedule(ch)
	}
}
