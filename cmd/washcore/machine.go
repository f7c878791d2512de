package main

import (
	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/config"
	"github.com/washgo/washcore/gfxil"
	"github.com/washgo/washcore/maple"
	"github.com/washgo/washcore/memmap"
	"github.com/washgo/washcore/pvr2"
	"github.com/washgo/washcore/pvr2/spg"
	"github.com/washgo/washcore/sh4"
	"github.com/washgo/washcore/tmu"
)

// ramSize is the Dreamcast's 16MB main system RAM.
const ramSize = 16 * 1024 * 1024

// vramSize is PVR2's 8MB dedicated video RAM, mapped but not otherwise
// modelled here beyond being addressable storage for TA/texture data.
const vramSize = 8 * 1024 * 1024

// Machine wires every core component together into a single bootable
// system, the way the teacher's hardware.VCS type wires TIA/RIOT/CPU/Bus
// for the 6507, generalised to the SH-4/PVR2/Maple trio.
type Machine struct {
	Clk *clock.Clock
	Bus *memmap.Map
	CPU *sh4.CPU

	PVR2  *pvr2.System
	SPG   *spg.Generator
	Maple *maple.Bus
	TMU   *tmu.Unit

	Controller *maple.Controller
	Joystick   *maple.JoystickSource

	GFXQueue *gfxil.Queue
	Cfg      *config.Store
}

// NewMachine allocates RAM/VRAM, wires every peripheral against the shared
// clock and the CPU's interrupt controller, and returns a Machine ready
// to have a bootstrap loaded into RAM and CPU.Regs.PC set.
func NewMachine(cfg *config.Store) *Machine {
	clk := clock.New()
	bus := memmap.New()

	ram := make([]byte, ramSize)
	bus.AddRegion(memmap.Region{
		Name: "RAM", FirstAddr: 0x0c000000, LastAddr: 0x0cffffff,
		RangeMask: 0x1fffffff, Mask: uint32(ramSize - 1), RAM: ram,
	})
	// P0/P1/P2 alias the same physical RAM at different cache-behaviour
	// windows; spec.md §4.2 treats cache policy as out of scope, so every
	// alias (0x0c000000, 0x8c000000, 0xac000000, ...) routes to the same
	// backing bytes via the RAM region's RangeMask. RAM-P1 maps the literal
	// window at 0x80000000, where run/headless load the bootstrap, onto the
	// same bytes.
	bus.AddRegion(memmap.Region{
		Name: "RAM-P1", FirstAddr: 0x80000000, LastAddr: 0x80ffffff,
		RangeMask: 0xffffffff, Mask: uint32(ramSize - 1), RAM: ram,
	})

	vram := make([]byte, vramSize)
	bus.AddRegion(memmap.Region{
		Name: "VRAM", FirstAddr: 0xa5000000, LastAddr: 0xa57fffff,
		RangeMask: 0xffffffff, Mask: uint32(vramSize - 1), RAM: vram,
	})

	cpu := sh4.NewCPU(bus, clk)

	gfxQueue := gfxil.NewQueue(256)
	pvrSys := pvr2.NewSystem(clk, cpu.INTC, gfxQueue)
	bus.AddRegion(memmap.Region{
		Name: "PVR2-REGS", FirstAddr: 0x005f8000, LastAddr: 0x005f8fff,
		RangeMask: 0xffffffff, Mask: 0xfff, Handler: pvr2.NewRegs(pvrSys),
	})
	bus.AddRegion(memmap.Region{
		Name: "PVR2-TAFIFO", FirstAddr: 0x10000000, LastAddr: 0x107fffff,
		RangeMask: 0xffffffff, Mask: 0x7fffff, Handler: pvr2.NewFIFO(pvrSys),
	})

	spgGen := spg.New(clk)
	spgGen.OnVBlank = func() { cpu.INTC.Raise(sh4.IRQPVR2) }
	spgGen.Start()

	mapleBus := maple.NewBus(clk, cpu.INTC)
	ctrl := maple.NewController()
	mapleBus.Attach(0, 0, ctrl)

	// Binding a physical joystick is best-effort: a headless box with no
	// SDL joystick subsystem (or no bindings in wash.cfg) still boots.
	var joystick *maple.JoystickSource
	if js, err := maple.NewJoystickSource(ctrl, cfg.Section("dc.ctrl.p0_0")); err == nil {
		joystick = js
	} else {
		log.Warn().Err(err).Msg("joystick subsystem unavailable; controller 0 driven by bus traffic only")
	}

	tmuUnit := tmu.New(clk, cpu.INTC)

	return &Machine{
		Clk:        clk,
		Bus:        bus,
		CPU:        cpu,
		PVR2:       pvrSys,
		SPG:        spgGen,
		Maple:      mapleBus,
		TMU:        tmuUnit,
		Controller: ctrl,
		Joystick:   joystick,
		GFXQueue:   gfxQueue,
		Cfg:        cfg,
	}
}

// RunTimeslices advances the CPU for n scheduler timeslices, draining the
// GFX-IL queue into sink after each so a headless caller (or a real
// backend) observes commands without them piling up unbounded.
func (m *Machine) RunTimeslices(n int, sink *gfxil.NullBackend) error {
	for i := 0; i < n; i++ {
		if m.Joystick != nil {
			m.Joystick.Poll()
		}
		if _, err := m.CPU.RunTimeslice(); err != nil {
			return err
		}
		for m.GFXQueue.Len() > 0 {
			if sink != nil {
				if err := sink.Consume(m.GFXQueue.Pop()); err != nil {
					return err
				}
			} else {
				m.GFXQueue.Pop()
			}
		}
	}
	return nil
}
