// Package treewalk implements the portable backend of spec.md's component
// C5: it executes a compiled sh4jit.Block's IL one instruction at a time
// out of a switch statement, using a slot array sized from the block's slot
// count. This is one of the two backends spec.md §4.6 requires; the other
// (package sh4jit/amd64) emits native machine code for the same IL and must
// produce identical guest-visible behaviour.
package treewalk

import (
	"github.com/washgo/washcore/coreerr"
	"github.com/washgo/washcore/sh4"
	"github.com/washgo/washcore/sh4jit"
)

// Interp runs sh4jit.Block IL against a CPU's register file and memory bus.
type Interp struct {
	cpu *sh4.CPU
}

// New returns a tree-walking IL interpreter bound to cpu.
func New(cpu *sh4.CPU) *Interp {
	return &Interp{cpu: cpu}
}

// Run executes every instruction in b, returning the next jit_hash (from
// the terminating OpJump) once the block finishes.
func (in *Interp) Run(b *sh4jit.Block) (uint32, error) {
	slots := make([]uint32, countSlots(b)+1)

	for _, inst := range b.Insts {
		switch inst.Op {
		case sh4jit.OpAdd:
			slots[inst.Dst] = slots[inst.Src1] + slots[inst.Src2]
		case sh4jit.OpSub:
			slots[inst.Dst] = slots[inst.Src1] - slots[inst.Src2]
		case sh4jit.OpMul:
			slots[inst.Dst] = slots[inst.Src1] * slots[inst.Src2]
		case sh4jit.OpAddImm:
			slots[inst.Dst] = slots[inst.Src1] + uint32(inst.Imm)
		case sh4jit.OpSubImm:
			slots[inst.Dst] = slots[inst.Src1] - uint32(inst.Imm)
		case sh4jit.OpMulImm:
			slots[inst.Dst] = slots[inst.Src1] * uint32(inst.Imm)
		case sh4jit.OpAnd:
			slots[inst.Dst] = slots[inst.Src1] & slots[inst.Src2]
		case sh4jit.OpOr:
			slots[inst.Dst] = slots[inst.Src1] | slots[inst.Src2]
		case sh4jit.OpXor:
			slots[inst.Dst] = slots[inst.Src1] ^ slots[inst.Src2]
		case sh4jit.OpNot:
			slots[inst.Dst] = ^slots[inst.Src1]
		case sh4jit.OpShll:
			slots[inst.Dst] = slots[inst.Src1] << 1
		case sh4jit.OpShlr:
			slots[inst.Dst] = slots[inst.Src1] >> 1
		case sh4jit.OpSetLiteral:
			slots[inst.Dst] = uint32(inst.Imm)
		case sh4jit.OpSignExtend8:
			slots[inst.Dst] = uint32(int32(int8(slots[inst.Src1])))
		case sh4jit.OpSignExtend16:
			slots[inst.Dst] = uint32(int32(int16(slots[inst.Src1])))
		case sh4jit.OpLoadHostPtr:
			slots[inst.Dst] = in.cpu.Regs.R(inst.GuestReg)
		case sh4jit.OpStoreHostPtr:
			in.cpu.Regs.SetR(inst.GuestReg, slots[inst.Src1])
		case sh4jit.OpFallback:
			in.cpu.Regs.PC = inst.PC
			if _, err := in.cpu.Step(); err != nil {
				return 0, err
			}
		case sh4jit.OpJump:
			if inst.Imm != 0 {
				return uint32(inst.Imm), nil
			}
			pr := in.cpu.Regs.FPSCR.PR
			sz := in.cpu.Regs.FPSCR.SZ
			return sh4jit.Hash(in.cpu.Regs.PC, pr, sz), nil
		default:
			return 0, coreerr.Unimplementedf("sh4jit/treewalk", "IL op %d not implemented", inst.Op)
		}
	}
	return 0, coreerr.Integrityf("sh4jit/treewalk", "block %s has no terminating jump", b)
}

func countSlots(b *sh4jit.Block) sh4jit.Slot {
	var max sh4jit.Slot
	for _, inst := range b.Insts {
		if inst.Dst > max {
			max = inst.Dst
		}
		if inst.Src1 > max {
			max = inst.Src1
		}
		if inst.Src2 > max {
			max = inst.Src2
		}
	}
	return max
}
