package pvr2

import (
	"math"

	"github.com/washgo/washcore/coreerr"
)

// Register offsets within the PVR2 control-register region, named after
// the real hardware's register map (a representative subset: the ones
// spec.md's TA/display-list/STARTRENDER path actually touches).
const (
	RegID            = 0x000
	RegSOFTRESET     = 0x008
	RegSTARTRENDER   = 0x014
	RegREGIONBASE    = 0x020
	RegTA_VERTBUFPOS = 0x0e4
	RegTA_LIST_INIT  = 0x144
	RegTA_LIST_CONT  = 0x160
)

// Regs is the memmap.Handler servicing the PVR2 control-register window,
// per spec.md §4.2's region-handler-interface convention. The TAFIFO
// command stream is a separate memory region (see FIFO, below) since on
// real hardware it is mapped well away from the register block.
type Regs struct {
	sys *System

	id         uint32
	vertbufPos uint32
	regionBase uint32
}

// NewRegs returns a Regs handler driving sys.
func NewRegs(sys *System) *Regs {
	return &Regs{sys: sys, id: 0x17fd11db}
}

func (r *Regs) Read8(addr uint32) (uint8, error) {
	v, err := r.Read32(addr &^ 3)
	return uint8(v >> ((addr & 3) * 8)), err
}

func (r *Regs) Read16(addr uint32) (uint16, error) {
	v, err := r.Read32(addr &^ 3)
	return uint16(v >> ((addr & 2) * 8)), err
}

func (r *Regs) Read32(addr uint32) (uint32, error) {
	switch addr {
	case RegID:
		return r.id, nil
	case RegTA_VERTBUFPOS:
		return r.vertbufPos, nil
	case RegREGIONBASE:
		return r.regionBase, nil
	}
	return 0, nil
}

func (r *Regs) ReadFloat(addr uint32) (float32, error)  { return 0, nil }
func (r *Regs) ReadDouble(addr uint32) (float64, error) { return 0, nil }

func (r *Regs) Write8(addr uint32, v uint8) error {
	return r.Write32(addr&^3, uint32(v))
}

func (r *Regs) Write16(addr uint32, v uint16) error {
	return r.Write32(addr&^3, uint32(v))
}

func (r *Regs) Write32(addr uint32, v uint32) error {
	switch addr {
	case RegSOFTRESET:
		if v&1 != 0 {
			r.sys.Reset()
		}
		return nil
	case RegTA_VERTBUFPOS:
		r.vertbufPos = v
		r.sys.TA.OpenList(v)
		return nil
	case RegTA_LIST_INIT:
		r.sys.TA.OpenList(r.vertbufPos)
		return nil
	case RegREGIONBASE:
		r.regionBase = v
		return nil
	case RegSTARTRENDER:
		return r.sys.StartRender(r.regionBase)
	}
	return coreerr.Protocolf("pvr2", "write to unhandled register %#08x", addr)
}

func (r *Regs) WriteFloat(addr uint32, v float32) error {
	return r.Write32(addr, math.Float32bits(v))
}

func (r *Regs) WriteDouble(addr uint32, v float64) error {
	return coreerr.Protocolf("pvr2", "64-bit write to register %#08x", addr)
}

// FIFO is the memmap.Handler for the TAFIFO command-stream window: every
// 32-bit write anywhere in the region is one more TA command word,
// regardless of the low address bits, since the real hardware's TA accepts
// a streamed, not individually-addressed, command sequence.
type FIFO struct {
	sys *System
}

// NewFIFO returns a FIFO handler feeding sys.TA.
func NewFIFO(sys *System) *FIFO { return &FIFO{sys: sys} }

func (f *FIFO) Read8(addr uint32) (uint8, error)  { return 0, nil }
func (f *FIFO) Read16(addr uint32) (uint16, error) { return 0, nil }
func (f *FIFO) Read32(addr uint32) (uint32, error) { return 0, nil }
func (f *FIFO) ReadFloat(addr uint32) (float32, error)  { return 0, nil }
func (f *FIFO) ReadDouble(addr uint32) (float64, error) { return 0, nil }

func (f *FIFO) Write8(addr uint32, v uint8) error {
	return coreerr.Protocolf("pvr2", "sub-word write to TAFIFO at %#08x", addr)
}

func (f *FIFO) Write16(addr uint32, v uint16) error {
	return coreerr.Protocolf("pvr2", "sub-word write to TAFIFO at %#08x", addr)
}

func (f *FIFO) Write32(addr uint32, v uint32) error {
	return f.sys.TA.WriteWord(v)
}

func (f *FIFO) WriteFloat(addr uint32, v float32) error {
	return f.sys.TA.WriteWord(math.Float32bits(v))
}

func (f *FIFO) WriteDouble(addr uint32, v float64) error {
	return coreerr.Protocolf("pvr2", "64-bit write to TAFIFO at %#08x", addr)
}
