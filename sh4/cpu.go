package sh4

import (
	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/coreerr"
	"github.com/washgo/washcore/memmap"
)

// ExecState is the SH-4's {Norm, Sleep, Standby} power state (spec.md §3).
type ExecState int

const (
	StateNorm ExecState = iota
	StateSleep
	StateStandby
)

// CPU bundles the register file, interrupt controller, memory bus and the
// interpreter's delay-slot/cycle-accounting state. It is the reference
// (non-JIT) execution path and the JIT's fallback target, per spec.md §4.5.
type CPU struct {
	Regs *Registers
	INTC *InterruptController
	Bus  *memmap.Map
	Clk  *clock.Clock

	State ExecState

	delayedBranch     bool
	delayedBranchAddr uint32

	lastGroup IssueGroup
}

// NewCPU wires a CPU over an existing memory map and clock. Both are
// shared with the rest of the machine; CPU does not own their lifetime.
func NewCPU(bus *memmap.Map, clk *clock.Clock) *CPU {
	return &CPU{
		Regs:  NewRegisters(),
		INTC:  NewInterruptController(),
		Bus:   bus,
		Clk:   clk,
		State: StateNorm,
	}
}

// fetch reads the 16-bit instruction word at PC. Instruction fetch is
// always a Read16, regardless of delay-slot status.
func (c *CPU) fetch(pc uint32) (uint16, error) {
	return c.Bus.Read16(pc)
}

// checkPendingIRQ consults the interrupt controller cache and, if an IRQ is
// due, enters the corresponding exception. Called at every block boundary
// per spec.md §4.4.
func (c *CPU) checkPendingIRQ() {
	code, ok := c.INTC.Pending(c.Regs.SR.IMASK, c.Regs.SR.BL)
	if !ok {
		return
	}
	c.Regs.EnterException(code, true)
}

// Step executes exactly one instruction (or, if currently completing a
// delayed branch, the delay-slot instruction followed by the branch),
// returning the number of cycles charged by countInstCycles.
//
// Delay-slot restriction: if the delay-slot instruction has PCRelative
// set, spec.md §4.5 requires raising SLOT_ILLEGAL_INST rather than
// executing it.
func (c *CPU) Step() (int, error) {
	if !c.delayedBranch {
		c.checkPendingIRQ()
	}

	pc := c.Regs.PC
	word, err := c.fetch(pc)
	if err != nil {
		return 0, err
	}
	op, ops := Decode(word)

	if c.delayedBranch && op.PCRelative {
		c.Regs.EnterException(ExcSlotIllegalInst, false)
		c.delayedBranch = false
		return 0, nil
	}

	wasDelaySlot := c.delayedBranch
	c.Regs.PC = pc + 2

	if err := op.Exec(c, ops); err != nil {
		return 0, err
	}

	if wasDelaySlot {
		c.Regs.PC = c.delayedBranchAddr
		c.delayedBranch = false
	}

	return countInstCycles(op, &c.lastGroup), nil
}

// enterDelaySlot records a taken branch's target; the next Step() executes
// the delay-slot instruction (fetched from PC, which Step has already
// advanced past the branch) before jumping.
func (c *CPU) enterDelaySlot(target uint32) {
	c.delayedBranch = true
	c.delayedBranchAddr = target
}

func opUnimplemented(c *CPU, ops Operands) error {
	return coreerr.Unimplementedf("sh4", "opcode at pc=%#08x not implemented", c.Regs.PC-2)
}
