package sh4jit

import "github.com/washgo/washcore/sh4"

// MaxBlockLen bounds the number of instructions compiled into a single
// block before a forced terminator, a safety net spec.md does not size
// explicitly (real SH-4 recompilers commonly cap blocks somewhere in the
// low hundreds of instructions; picked conservatively here since this
// design's IL has no internal branches to amortise the cost of a larger
// block).
const MaxBlockLen = 64

// compilable names the handful of opcodes the builder compiles to real
// slot IL rather than falling back to the interpreter. This is
// deliberately a small, growable set: spec.md §4.6 requires only that the
// JIT be "correct-by-default" via fallback, with optimisation growing
// incrementally.
var compilable = map[string]func(b *Builder, ops sh4.Operands) bool{
	"NOP":            (*Builder).compileNOP,
	"MOV":            (*Builder).compileMOV,
	"MOV #imm,Rn":    (*Builder).compileMOVI,
	"ADD Rm,Rn":      (*Builder).compileADD,
	"ADD #imm,Rn":    (*Builder).compileADDI,
	"AND Rm,Rn":      (*Builder).compileAND,
	"OR Rm,Rn":       (*Builder).compileOR,
	"XOR Rm,Rn":      (*Builder).compileXOR,
	"SUB Rm,Rn":      (*Builder).compileSUB,
}

// branchOpcodes forces block termination: the builder compiles the
// delay-slot instruction first, then emits OpJump and stops.
var branchOpcodes = map[string]bool{
	"BT label": true, "BF label": true, "BRA label": true, "BSR label": true,
	"JMP @Rn": true, "JSR @Rn": true, "RTS": true, "RTE": true,
}

// fpscrChangingOpcodes forces a terminator when not already in a delay
// slot, because further code would need a different jit_hash (spec.md §4.6).
var fpscrChangingOpcodes = map[string]bool{
	"LDS Rn,FPSCR": true, "LDS.L @Rn+,FPSCR": true, "FSCHG": true, "FRCHG": true,
}

// Builder assembles one Block by decoding guest memory starting at a PC.
type Builder struct {
	cpu     *sh4.CPU
	insts   []Inst
	tracker *Tracker
	pc      uint32
	entryPR bool
	entrySZ bool
}

// Build compiles a block starting at pc. entryPR/entrySZ are FPSCR.PR/SZ at
// block entry, carried so the compiler can emit the constant-hash jump
// variant when a successor's hash is already known.
func Build(cpu *sh4.CPU, pc uint32, entryPR, entrySZ bool) (*Block, error) {
	b := &Builder{cpu: cpu, pc: pc, entryPR: entryPR, entrySZ: entrySZ}
	b.tracker = NewTracker(&b.insts)

	for i := 0; i < MaxBlockLen; i++ {
		word, err := cpu.Bus.Read16(b.pc)
		if err != nil {
			return nil, err
		}
		op, ops := sh4.Decode(word)

		if branchOpcodes[op.Name] {
			b.compileBranchAndTerminate(op, ops, word)
			break
		}
		if fpscrChangingOpcodes[op.Name] {
			b.compileFallback(word)
			b.emitDynamicJump()
			break
		}

		if compile, ok := compilable[op.Name]; ok {
			compile(b, ops)
		} else {
			b.compileFallback(word)
		}
		b.pc += 2

		if i == MaxBlockLen-1 {
			b.emitConstJump(b.pc)
		}
	}

	return &Block{
		Hash:      Hash(pc, entryPR, entrySZ),
		Insts:     b.insts,
		EntryPR:   entryPR,
		EntrySZ:   entrySZ,
	}, nil
}

func (b *Builder) emit(i Inst) { b.insts = append(b.insts, i) }

func (b *Builder) compileNOP(ops sh4.Operands) bool { return true }

func (b *Builder) compileMOV(ops sh4.Operands) bool {
	src := b.tracker.RegSlot(ops.M)
	dst := b.tracker.RegSlotNoLoad(ops.N)
	b.emit(Inst{Op: OpAddImm, Dst: dst, Src1: src, Imm: 0})
	return true
}

func (b *Builder) compileMOVI(ops sh4.Operands) bool {
	dst := b.tracker.RegSlotNoLoad(ops.N)
	b.emit(Inst{Op: OpSetLiteral, Dst: dst, Imm: int64(int8(ops.I))})
	return true
}

func (b *Builder) compileADD(ops sh4.Operands) bool {
	m := b.tracker.RegSlot(ops.M)
	n := b.tracker.RegSlot(ops.N)
	b.emit(Inst{Op: OpAdd, Dst: n, Src1: n, Src2: m})
	b.tracker.MarkDirty(ops.N)
	return true
}

func (b *Builder) compileADDI(ops sh4.Operands) bool {
	n := b.tracker.RegSlot(ops.N)
	b.emit(Inst{Op: OpAddImm, Dst: n, Src1: n, Imm: int64(int8(ops.I))})
	b.tracker.MarkDirty(ops.N)
	return true
}

func (b *Builder) compileAND(ops sh4.Operands) bool {
	m := b.tracker.RegSlot(ops.M)
	n := b.tracker.RegSlot(ops.N)
	b.emit(Inst{Op: OpAnd, Dst: n, Src1: n, Src2: m})
	b.tracker.MarkDirty(ops.N)
	return true
}

func (b *Builder) compileOR(ops sh4.Operands) bool {
	m := b.tracker.RegSlot(ops.M)
	n := b.tracker.RegSlot(ops.N)
	b.emit(Inst{Op: OpOr, Dst: n, Src1: n, Src2: m})
	b.tracker.MarkDirty(ops.N)
	return true
}

func (b *Builder) compileXOR(ops sh4.Operands) bool {
	m := b.tracker.RegSlot(ops.M)
	n := b.tracker.RegSlot(ops.N)
	b.emit(Inst{Op: OpXor, Dst: n, Src1: n, Src2: m})
	b.tracker.MarkDirty(ops.N)
	return true
}

func (b *Builder) compileSUB(ops sh4.Operands) bool {
	m := b.tracker.RegSlot(ops.M)
	n := b.tracker.RegSlot(ops.N)
	b.emit(Inst{Op: OpSub, Dst: n, Src1: n, Src2: m})
	b.tracker.MarkDirty(ops.N)
	return true
}

// compileFallback implements spec.md §4.6's fallback rule: drain, invalidate,
// call the interpreter for this one instruction word. PC is recorded so the
// backend can resynchronise the CPU's program counter before calling into
// the interpreter, since compiled slot IL never touches it directly.
func (b *Builder) compileFallback(word uint16) {
	b.tracker.DrainAll()
	b.tracker.InvalidateAll()
	w := word
	pc := b.pc
	b.emit(Inst{Op: OpFallback, PC: pc, HostFn: func(args ...uint32) uint32 {
		return uint32(w)
	}})
}

// compileBranchAndTerminate implements spec.md §4.6's delay-slot compilation
// rule: the delay-slot instruction is decoded and appended before the jump.
// Branch targets are resolved through the interpreter fallback since this
// design does not yet compile branch-target arithmetic into IL.
func (b *Builder) compileBranchAndTerminate(op *sh4.InstOpcode, ops sh4.Operands, word uint16) {
	b.compileFallback(word) // the branch itself, via interpreter semantics
	b.pc += 2

	slotWord, err := b.cpu.Bus.Read16(b.pc)
	if err == nil {
		slotOp, _ := sh4.Decode(slotWord)
		if !slotOp.PCRelative {
			b.compileFallback(slotWord) // delay slot, appended before the jump
		}
	}
	b.emitDynamicJump()
}

// emitDynamicJump terminates the block with a jump whose hash is computed
// at run time from FPSCR, used whenever PR/SZ may have changed within the
// block.
func (b *Builder) emitDynamicJump() {
	b.tracker.DrainAll()
	b.emit(Inst{Op: OpJump})
}

// emitConstJump terminates the block with a jump to a known successor PC,
// using the compiler's already-known entry PR/SZ (spec.md §4.6's
// constant-hash variant).
func (b *Builder) emitConstJump(pc uint32) {
	b.tracker.DrainAll()
	b.emit(Inst{Op: OpJump, Imm: int64(Hash(pc, b.entryPR, b.entrySZ))})
}
