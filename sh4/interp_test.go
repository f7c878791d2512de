package sh4_test

import (
	"testing"

	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/internal/assert"
	"github.com/washgo/washcore/memmap"
	"github.com/washgo/washcore/sh4"
)

func newTestCPU() (*sh4.CPU, *memmap.Map) {
	m := memmap.New()
	m.AddRegion(memmap.Region{
		Name: "RAM", FirstAddr: 0, LastAddr: 0xffffffff, RangeMask: 0xffffffff, Mask: 0x1fffff,
		RAM: make([]byte, 0x200000),
	})
	cpu := sh4.NewCPU(m, clock.New())
	return cpu, m
}

// scenario 1 from spec.md §8: hello-world block.
func TestHelloWorldBlock(t *testing.T) {
	cpu, m := newTestCPU()
	assert.Success(t, m.Write16(0x8c010000, 0xe610)) // MOV #0x10, R6
	assert.Success(t, m.Write16(0x8c010002, 0x000b)) // RTS
	assert.Success(t, m.Write16(0x8c010004, 0x0009)) // NOP (delay slot)
	cpu.Regs.PC = 0x8c010000
	cpu.Regs.PR = 0x8c020000

	for i := 0; i < 3; i++ {
		if _, err := cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	assert.Equate(t, cpu.Regs.PC, uint32(0x8c020000))
	assert.Equate(t, cpu.Regs.R(6), uint32(0x10))
}

// scenario 2 from spec.md §8: delay-slot branch. The ADD in the delay slot
// must execute before the branch target is taken.
func TestDelaySlotBranch(t *testing.T) {
	cpu, m := newTestCPU()
	assert.Success(t, m.Write16(0x8c000000, 0xa003)) // BRA disp=3 (word count)
	assert.Success(t, m.Write16(0x8c000002, 0x7001)) // ADD #1, R0
	cpu.Regs.PC = 0x8c000000
	cpu.Regs.SetR(0, 0)

	for i := 0; i < 2; i++ {
		if _, err := cpu.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	assert.Equate(t, cpu.Regs.R(0), uint32(1))
	assert.Equate(t, cpu.Regs.PC, uint32(0x8c00000a))
}

func TestSlotIllegalInstOnPCRelativeInDelaySlot(t *testing.T) {
	cpu, m := newTestCPU()
	assert.Success(t, m.Write16(0x8c000000, 0xa000)) // BRA disp=0
	assert.Success(t, m.Write16(0x8c000002, 0xa000)) // another BRA in the delay slot: illegal
	cpu.Regs.PC = 0x8c000000
	cpu.Regs.VBR = 0

	cpu.Step() // BRA
	cpu.Step() // delay slot: PC-relative instruction, must raise SLOT_ILLEGAL_INST

	assert.Equate(t, cpu.Regs.EXPEVT, uint32(sh4.ExcSlotIllegalInst))
}

func TestRunTimesliceAdvancesClock(t *testing.T) {
	cpu, m := newTestCPU()
	// BRA back to self (disp=-2 words), NOP delay slot: a tight infinite
	// loop that never reaches unmapped/undecoded memory, so RunTimeslice
	// runs purely until its cycle budget is exhausted.
	assert.Success(t, m.Write16(0x8c000000, 0xaffe))
	assert.Success(t, m.Write16(0x8c000002, 0x0009))
	cpu.Regs.PC = 0x8c000000

	advanced, err := cpu.RunTimeslice()
	assert.Success(t, err)
	if advanced <= 0 {
		t.Fatalf("expected RunTimeslice to advance the clock, got %d", advanced)
	}
	assert.Equate(t, cpu.Clk.Stamp(), int64(clock.Timeslice))
}
