package tmu_test

import (
	"testing"

	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/sh4"
	"github.com/washgo/washcore/tmu"
)

func TestChannelUnderflowRaisesTUNI0(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	u := tmu.New(clk, intc)

	u.WriteTCOR(0, 10)
	u.WriteTCNT(0, 10)
	u.WriteTCR(0, 5) // clock-select index 5 -> scale 1 (fastest)
	u.WriteTSTR(0x1) // start channel 0

	clk.Advance(10)
	clk.PopDue()

	if _, ok := intc.Pending(0, false); !ok {
		t.Fatalf("expected TUNI0 pending after the channel counted down to zero")
	}
}

func TestChannelReloadsAfterUnderflow(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	u := tmu.New(clk, intc)

	u.WriteTCOR(1, 4)
	u.WriteTCNT(1, 4)
	u.WriteTCR(1, 5)
	u.WriteTSTR(0x2) // start channel 1

	clk.Advance(4)
	clk.PopDue()

	if got := u.ReadTCNT(1); got != 4 {
		t.Fatalf("got TCNT=%d after reload, want 4 (TCOR value)", got)
	}
}

func TestStoppedChannelDoesNotUnderflow(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	u := tmu.New(clk, intc)

	u.WriteTCOR(2, 1)
	u.WriteTCNT(2, 1)
	u.WriteTCR(2, 5)
	// TSTR left at 0: channel 2 never starts.
	clk.Advance(1000)
	clk.PopDue()

	if _, ok := intc.Pending(0, false); ok {
		t.Fatalf("expected no interrupt for a stopped channel")
	}
}
