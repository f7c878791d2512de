package sh4

import "fmt"

// IssueGroup classifies an instruction for the dual-issue cycle
// approximation described by spec.md §4.5.
type IssueGroup int

const (
	GroupNONE IssueGroup = iota
	GroupMT               // move/transfer
	GroupEX               // integer execute
	GroupBR               // branch
	GroupLS               // load/store
	GroupFE               // floating-point execute
	GroupCO               // complex/serializing
)

// Operands holds the decoded n/m/i/d fields of an instruction word. Not
// every field is meaningful for every opcode; semantic functions read only
// the fields their operand format defines.
type Operands struct {
	N int  // 4-bit register field
	M int  // 4-bit register field
	I int  // 8-bit immediate (zero-extended in the field; callers sign-extend as needed)
	D int  // displacement field, width depends on format
}

// SemanticFunc executes one decoded instruction. It returns an error only
// for conditions spec.md §7 classifies as Unimplemented or Integrity; guest
// exceptions are entered directly on cpu/registers and never returned.
type SemanticFunc func(cpu *CPU, ops Operands) error

// InstOpcode is one entry of the decode table, per spec.md §4.5.
type InstOpcode struct {
	Name     string
	Mask     uint16
	Pattern  uint16
	Format   string // bit-pattern string using n/m/i/d placeholders, for disassembly
	Group    IssueGroup
	Cycles   int
	PCRelative bool // true if this instruction reads PC directly (illegal in a delay slot)
	Exec     SemanticFunc
}

// decodeEntries lists opcodes this interpreter implements. Coverage is a
// representative, extensible subset spanning every addressing mode and
// issue group rather than the full 65536-encoding table; unlisted
// encodings decode to the opUnimplemented stub (see buildDecodeTable).
var decodeEntries = []InstOpcode{
	{"NOP", 0xffff, 0x0009, "0000000000001001", GroupMT, 1, false, opNOP},
	{"MOV", 0xf00f, 0x6003, "0110nnnnmmmm0011", GroupMT, 1, false, opMOV},
	{"MOV #imm,Rn", 0xf000, 0xe000, "1110nnnniiiiiiii", GroupEX, 1, false, opMOVI},
	{"MOV.L @(disp,PC),Rn", 0xf000, 0xd000, "1101nnnndddddddd", GroupLS, 1, true, opMOVLPC},
	{"MOV.L Rm,@Rn", 0xf00f, 0x2002, "0010nnnnmmmm0010", GroupLS, 1, false, opMOVLStore},
	{"MOV.L @Rm,Rn", 0xf00f, 0x6002, "0110nnnnmmmm0010", GroupLS, 1, false, opMOVLLoad},
	{"MOV.L @Rm+,Rn", 0xf00f, 0x6006, "0110nnnnmmmm0110", GroupLS, 1, false, opMOVLLoadInc},
	{"MOV.L Rm,@-Rn", 0xf00f, 0x2006, "0010nnnnmmmm0110", GroupLS, 1, false, opMOVLStoreDec},
	{"ADD Rm,Rn", 0xf00f, 0x300c, "0011nnnnmmmm1100", GroupEX, 1, false, opADD},
	{"ADD #imm,Rn", 0xf000, 0x7000, "0111nnnniiiiiiii", GroupEX, 1, false, opADDI},
	{"SUB Rm,Rn", 0xf00f, 0x3008, "0011nnnnmmmm1000", GroupEX, 1, false, opSUB},
	{"CMP/EQ Rm,Rn", 0xf00f, 0x3000, "0011nnnnmmmm0000", GroupMT, 1, false, opCMPEQ},
	{"CMP/EQ #imm,R0", 0xff00, 0x8800, "10001000iiiiiiii", GroupMT, 1, false, opCMPEQI},
	{"CMP/GT Rm,Rn", 0xf00f, 0x3007, "0011nnnnmmmm0111", GroupMT, 1, false, opCMPGT},
	{"CMP/HI Rm,Rn", 0xf00f, 0x3006, "0011nnnnmmmm0110", GroupMT, 1, false, opCMPHI},
	{"TST Rm,Rn", 0xf00f, 0x2008, "0010nnnnmmmm1000", GroupMT, 1, false, opTST},
	{"AND Rm,Rn", 0xf00f, 0x2009, "0010nnnnmmmm1001", GroupEX, 1, false, opAND},
	{"OR Rm,Rn", 0xf00f, 0x200b, "0010nnnnmmmm1011", GroupEX, 1, false, opOR},
	{"XOR Rm,Rn", 0xf00f, 0x200a, "0010nnnnmmmm1010", GroupEX, 1, false, opXOR},
	{"SHLL Rn", 0xf0ff, 0x4000, "0100nnnn00000000", GroupEX, 1, false, opSHLL},
	{"SHLR Rn", 0xf0ff, 0x4001, "0100nnnn00000001", GroupEX, 1, false, opSHLR},
	{"BT label", 0xff00, 0x8900, "10001001dddddddd", GroupBR, 1, true, opBT},
	{"BF label", 0xff00, 0x8b00, "10001011dddddddd", GroupBR, 1, true, opBF},
	{"BRA label", 0xf000, 0xa000, "1010dddddddddddd", GroupBR, 1, true, opBRA},
	{"BSR label", 0xf000, 0xb000, "1011dddddddddddd", GroupBR, 1, true, opBSR},
	{"JMP @Rn", 0xf0ff, 0x402b, "0100nnnn00101011", GroupBR, 1, false, opJMP},
	{"JSR @Rn", 0xf0ff, 0x400b, "0100nnnn00001011", GroupBR, 1, false, opJSR},
	{"RTS", 0xffff, 0x000b, "0000000000001011", GroupBR, 2, false, opRTS},
	{"RTE", 0xffff, 0x002b, "0000000000101011", GroupCO, 5, false, opRTE},
	{"LDC Rn,SR", 0xf0ff, 0x400e, "0100nnnn00001110", GroupCO, 4, false, opLDCSR},
	{"STC SR,Rn", 0xf0ff, 0x0002, "0000nnnn00000010", GroupCO, 2, false, opSTCSR},
	{"LDS Rn,PR", 0xf0ff, 0x402a, "0100nnnn00101010", GroupCO, 2, false, opLDSPR},
	{"STS PR,Rn", 0xf0ff, 0x002a, "0000nnnn00101010", GroupCO, 2, false, opSTSPR},
	{"MUL.L Rm,Rn", 0xf00f, 0x0007, "0000nnnnmmmm0111", GroupCO, 2, false, opMULL},
	{"TRAPA #imm", 0xff00, 0xc300, "11000011iiiiiiii", GroupCO, 8, false, opTRAPA},
	{"LDS Rn,FPSCR", 0xf0ff, 0x406a, "0100nnnn01101010", GroupCO, 1, false, opLDSFPSCR},
	{"LDS.L @Rn+,FPSCR", 0xf0ff, 0x4066, "0100nnnn01100110", GroupCO, 1, false, opLDSLFPSCR},
	{"FSCHG", 0xffff, 0xf3fd, "1111001111111101", GroupLS, 1, false, opFSCHG},
	{"FRCHG", 0xffff, 0xfbfd, "1111101111111101", GroupLS, 1, false, opFRCHG},
}

var decodeTable [65536]*InstOpcode

func init() {
	buildDecodeTable()
}

func buildDecodeTable() {
	unimpl := &InstOpcode{Name: "UNIMPLEMENTED", Group: GroupNONE, Cycles: 1, Exec: opUnimplemented}
	for i := range decodeTable {
		decodeTable[i] = unimpl
	}
	for i := range decodeEntries {
		entry := &decodeEntries[i]
		for word := 0; word < 65536; word++ {
			if uint16(word)&entry.Mask == entry.Pattern {
				decodeTable[word] = entry
			}
		}
	}
}

// Decode returns the InstOpcode for a 16-bit instruction word, O(1) via the
// precomputed LUT, and the Operands extracted per the standard SH-4 field
// layout (n at bits 8-11, m at bits 4-7; i/d reuse the low byte or low
// 4/8/12 bits depending on format, left for the semantic function to mask).
func Decode(word uint16) (*InstOpcode, Operands) {
	op := decodeTable[word]
	ops := Operands{
		N: int((word >> 8) & 0xf),
		M: int((word >> 4) & 0xf),
		I: int(word & 0xff),
		D: int(word & 0xfff),
	}
	return op, ops
}

func (o *InstOpcode) String() string {
	return fmt.Sprintf("%s [%s]", o.Name, o.Format)
}

// countInstCycles implements spec.md §4.5's dual-issue approximation: an
// instruction is free when the previous instruction was non-CO, the
// current one is non-CO, and the two are in different groups (MT-after-MT
// is still charged). lastGroup is updated in place.
func countInstCycles(op *InstOpcode, lastGroup *IssueGroup) int {
	free := *lastGroup != GroupCO && op.Group != GroupCO && op.Group != *lastGroup
	if op.Group == GroupMT && *lastGroup == GroupMT {
		free = false
	}
	*lastGroup = op.Group
	if free {
		return 0
	}
	return op.Cycles
}
