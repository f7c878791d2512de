// Package spg implements the PVR2 video timing generator: scanline and
// field counters that schedule HBLANK/VBLANK events on the shared clock,
// per SPEC_FULL.md's supplemented-feature note 6 (original_source's
// pvr2_core.h SPG_* registers, compressed out of spec.md's distilled
// §4.8 but necessary for STARTRENDER's completion timing to mean
// anything against a frame cadence).
package spg

import "github.com/washgo/washcore/clock"

// Standard NTSC interlaced timing: 262.5 lines/field (rounded up to 263
// here), ~63.5us/line. These
// are expressed in scheduler cycles (clock.SchedFrequency ticks/second).
const (
	linesPerField  = 263
	vblankLine     = 240
	cyclesPerLine  = clock.SchedFrequency / 15_734 // ~15.734kHz horizontal rate
)

// Generator tracks the current scanline/field and fires HBLANK every line
// and VBLANK once per field, matching real PVR2 SPG_STATUS semantics
// closely enough for guest code that polls scanline position or waits on
// the VBLANK interrupt.
type Generator struct {
	clk *clock.Clock

	line  int
	field int

	hblank clock.Event

	OnHBlank func(line int)
	OnVBlank func()
}

// New returns a Generator that has not yet started ticking; call Start to
// schedule its first HBLANK.
func New(clk *clock.Clock) *Generator {
	g := &Generator{clk: clk}
	g.hblank.Handler = g.onHBlank
	return g
}

// Start schedules the first HBLANK event cyclesPerLine cycles from now.
func (g *Generator) Start() {
	g.clk.ScheduleRelative(&g.hblank, cyclesPerLine)
}

// Line reports the current scanline (0..linesPerField-1).
func (g *Generator) Line() int { return g.line }

// Field reports the current field parity (0 or 1, for interlaced output).
func (g *Generator) Field() int { return g.field }

func (g *Generator) onHBlank(arg interface{}) {
	if g.OnHBlank != nil {
		g.OnHBlank(g.line)
	}
	g.line++
	if g.line == vblankLine {
		if g.OnVBlank != nil {
			g.OnVBlank()
		}
	}
	if g.line >= linesPerField {
		g.line = 0
		g.field ^= 1
	}
	g.clk.ScheduleRelative(&g.hblank, cyclesPerLine)
}
