package amd64_test

import (
	"testing"

	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/internal/assert"
	"github.com/washgo/washcore/memmap"
	"github.com/washgo/washcore/sh4"
	"github.com/washgo/washcore/sh4jit"
	"github.com/washgo/washcore/sh4jit/amd64"
)

func newTestCPU() *sh4.CPU {
	m := memmap.New()
	m.AddRegion(memmap.Region{
		Name: "RAM", FirstAddr: 0, LastAddr: 0xffffffff, RangeMask: 0xffffffff, Mask: 0x1fffff,
		RAM: make([]byte, 0x200000),
	})
	return sh4.NewCPU(m, clock.New())
}

func TestCompileSupportedSubsetProducesNativeCode(t *testing.T) {
	b := &sh4jit.Block{Insts: []sh4jit.Inst{
		{Op: sh4jit.OpSetLiteral, Dst: 0, Imm: 5},
		{Op: sh4jit.OpSetLiteral, Dst: 1, Imm: 3},
		{Op: sh4jit.OpAdd, Dst: 0, Src1: 0, Src2: 1},
	}}
	be := amd64.New(newTestCPU())
	compiled, err := be.Compile(b)
	assert.Success(t, err)
	if len(compiled.Code) == 0 {
		t.Fatalf("expected non-empty native code for a supported-only block")
	}
}

func TestCompileFallsBackOnUnsupportedOp(t *testing.T) {
	b := &sh4jit.Block{Insts: []sh4jit.Inst{
		{Op: sh4jit.OpJump},
	}}
	be := amd64.New(newTestCPU())
	compiled, err := be.Compile(b)
	assert.Success(t, err)
	if len(compiled.Code) != 0 {
		t.Fatalf("expected no native code when a block contains an unsupported op")
	}
}

func TestRunWithFallbackBlockDefersToTreewalk(t *testing.T) {
	cpu := newTestCPU()
	m := memmap.New()
	m.AddRegion(memmap.Region{
		Name: "RAM", FirstAddr: 0, LastAddr: 0xffffffff, RangeMask: 0xffffffff, Mask: 0x1fffff,
		RAM: make([]byte, 0x200000),
	})
	cpu = sh4.NewCPU(m, clock.New())
	assert.Success(t, m.Write16(0x8c000000, 0xe610)) // MOV #0x10, R6
	assert.Success(t, m.Write16(0x8c000002, 0x000b)) // RTS
	assert.Success(t, m.Write16(0x8c000004, 0x0009)) // NOP (delay slot)
	cpu.Regs.PC = 0x8c000000
	cpu.Regs.PR = 0x8c020000

	blk, err := sh4jit.Build(cpu, 0x8c000000, false, false)
	assert.Success(t, err)

	be := amd64.New(cpu)
	compiled, err := be.Compile(blk)
	assert.Success(t, err)

	_, err = be.Run(compiled)
	assert.Success(t, err)
	assert.Equate(t, cpu.Regs.R(6), uint32(0x10))
	assert.Equate(t, cpu.Regs.PC, uint32(0x8c020000))
}
