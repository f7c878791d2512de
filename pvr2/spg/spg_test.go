package spg_test

import (
	"testing"

	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/pvr2/spg"
)

func TestHBlankFiresEveryLine(t *testing.T) {
	clk := clock.New()
	g := spg.New(clk)
	hblanks, next := 0, 0
	g.OnHBlank = func(line int) {
		if line != next {
			t.Fatalf("got HBLANK for line %d, want line %d", line, next)
		}
		next = (line + 1) % 263 // a field is 263 lines
		hblanks++
	}
	g.Start()

	for i := 0; i < 10; i++ {
		clk.RunTimeslice()
	}
	if hblanks == 0 {
		t.Fatalf("expected at least one HBLANK to have fired")
	}
}

func TestVBlankFiresOncePerField(t *testing.T) {
	clk := clock.New()
	g := spg.New(clk)
	hblanks, vblanks := 0, 0
	g.OnHBlank = func(line int) { hblanks++ }
	g.OnVBlank = func() { vblanks++ }
	g.Start()

	for i := 0; i < 400; i++ {
		clk.RunTimeslice()
	}
	if vblanks == 0 {
		t.Fatalf("expected at least one VBLANK after several hundred timeslices")
	}
	// VBLANK fires as line 240 of each 263-line field begins.
	fields := hblanks / 263
	if hblanks%263 >= 240 {
		fields++
	}
	if vblanks != fields {
		t.Fatalf("got %d VBLANKs over %d lines, want %d (one per field)", vblanks, hblanks, fields)
	}
}

func TestFieldParityFlipsAfterFullFrame(t *testing.T) {
	clk := clock.New()
	g := spg.New(clk)
	sawOdd := false
	g.OnHBlank = func(line int) {
		if g.Field() == 1 {
			sawOdd = true
		}
	}
	g.Start()

	for i := 0; i < 400; i++ {
		clk.RunTimeslice()
	}
	// after enough lines have passed, field should have flipped from 0 at
	// least once (a full field is 263 lines).
	if !sawOdd {
		t.Fatalf("field parity never flipped from 0")
	}
	if g.Field() != 0 && g.Field() != 1 {
		t.Fatalf("got unexpected field parity %d", g.Field())
	}
}
