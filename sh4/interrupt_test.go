package sh4_test

import (
	"testing"

	"github.com/washgo/washcore/internal/assert"
	"github.com/washgo/washcore/sh4"
)

func TestInterruptControllerHighestPriorityWins(t *testing.T) {
	ic := sh4.NewInterruptController()
	ic.Raise(sh4.IRQREF)
	ic.Raise(sh4.IRQTMU0)
	ic.Raise(sh4.IRQDMAC)

	code, ok := ic.Pending(0, false)
	if !ok {
		t.Fatalf("expected a pending interrupt")
	}
	assert.Equate(t, code, sh4.ExcTMU0)
}

func TestInterruptControllerMaskedByBL(t *testing.T) {
	ic := sh4.NewInterruptController()
	ic.Raise(sh4.IRQTMU0)
	_, ok := ic.Pending(0, true)
	if ok {
		t.Fatalf("expected no pending interrupt while SR.BL is set")
	}
}

func TestInterruptControllerMaskedByIMASK(t *testing.T) {
	ic := sh4.NewInterruptController()
	ic.Raise(sh4.IRQTMU0) // priority 10
	_, ok := ic.Pending(10, false)
	if ok {
		t.Fatalf("expected IMASK==priority to mask the interrupt")
	}
	_, ok = ic.Pending(9, false)
	if !ok {
		t.Fatalf("expected IMASK below priority to allow the interrupt")
	}
}

func TestInterruptControllerClearRemovesLine(t *testing.T) {
	ic := sh4.NewInterruptController()
	ic.Raise(sh4.IRQTMU0)
	ic.Clear(sh4.IRQTMU0)
	_, ok := ic.Pending(0, false)
	if ok {
		t.Fatalf("expected no pending interrupt after Clear")
	}
}

func TestInterruptControllerNoneRaisedIsNotPending(t *testing.T) {
	ic := sh4.NewInterruptController()
	_, ok := ic.Pending(0, false)
	if ok {
		t.Fatalf("expected no pending interrupt when nothing was raised")
	}
}
