// Package sh4 implements spec.md's components C3 (register file,
// exception/interrupt controller) and C4 (interpreter). The register-bank
// swap discipline, the labelled-register texture, and the Status-register
// String() rendering are grounded in the teacher's hardware/cpu/registers
// package, generalised from the 6507's single 8-bit Status register and
// unbanked register file to the SH-4's banked general-purpose registers,
// banked floating point registers, and much larger control-register set.
package sh4

import "fmt"

// Registers holds all SH-4 architectural state described by spec.md §3.
type Registers struct {
	// general purpose registers, logically R0..R15. R0..R7 of the bank
	// selected by SR.MD && SR.RB live in gp[0:8] and the other bank's copies
	// in gpBank (SetSR swaps them); R8..R15 are never banked and live
	// directly in gp[8:16].
	gp     [16]uint32
	gpBank [8]uint32 // R0_BANK..R7_BANK

	// control registers
	SR   StatusRegister
	GBR  uint32
	VBR  uint32
	SSR  StatusRegister
	SPC  uint32
	SGR  uint32
	DBR  uint32
	MACH uint32
	MACL uint32
	PR   uint32
	PC   uint32
	TRA  uint32
	EXPEVT uint32
	INTEVT uint32

	// floating point registers: FR0..FR15, reinterpretable as DR0..DR14 and
	// an alternate bank XF0..XF15, selected by FPSCR.FR.
	fr  [16]uint32
	xf  [16]uint32
	FPSCR FPSCR
	FPUL  uint32
}

// NewRegisters returns a Registers value with every field zeroed, matching
// the state after a hardware reset line assert (the caller is responsible
// for driving the reset exception separately; see EnterException with
// ExcPowerOnReset).
func NewRegisters() *Registers {
	return &Registers{}
}

// bankSelected reports which gp bank is architecturally active.
func (r *Registers) bankSelected() bool {
	return r.SR.MD && r.SR.RB
}

// R returns the value of general register n (0..15), resolving the active
// bank for n < 8 per spec.md §4.3's gen_reg_idx.
func (r *Registers) R(n int) uint32 {
	return r.gp[n]
}

// SetR writes general register n (0..15).
func (r *Registers) SetR(n int, v uint32) {
	r.gp[n] = v
}

// swapBanks exchanges R0..R7 with R0_BANK..R7_BANK. Called whenever a write
// to SR changes MD or RB (spec.md §4.3); idempotent if called twice in a
// row for the same logical state, since it always performs a symmetrical
// exchange regardless of the bit's previous value -- the caller is
// responsible for calling it only on an actual MD/RB transition so the
// exchange isn't performed an odd number of extra times.
func (r *Registers) swapBanks() {
	for i := 0; i < 8; i++ {
		r.gp[i], r.gpBank[i] = r.gpBank[i], r.gp[i]
	}
}

// SetSR writes a new value to SR, performing the R0..R7/R0_BANK..R7_BANK
// swap iff MD or RB actually changed.
func (r *Registers) SetSR(v StatusRegister) {
	prevBank := r.bankSelected()
	r.SR = v
	if r.bankSelected() != prevBank {
		r.swapBanks()
	}
}

// swapFPBanks exchanges FR0..FR15 with XF0..XF15.
func (r *Registers) swapFPBanks() {
	for i := 0; i < 16; i++ {
		r.fr[i], r.xf[i] = r.xf[i], r.fr[i]
	}
}

// SetFPSCR writes a new value to FPSCR, swapping the floating point banks
// iff FR actually changed.
func (r *Registers) SetFPSCR(v FPSCR) {
	prevFR := r.FPSCR.FR
	r.FPSCR = v
	if r.FPSCR.FR != prevFR {
		r.swapFPBanks()
	}
}

// FR returns floating point register n (0..15) in the active bank.
func (r *Registers) FR(n int) uint32 { return r.fr[n] }

// SetFR writes floating point register n (0..15) in the active bank.
func (r *Registers) SetFR(n int, v uint32) { r.fr[n] = v }

// XF returns the alternate-bank floating point register n (0..15),
// regardless of which bank is currently architecturally active.
func (r *Registers) XF(n int) uint32 { return r.xf[n] }

// SetXF writes the alternate-bank floating point register n.
func (r *Registers) SetXF(n int, v uint32) { r.xf[n] = v }

// DR reads double-precision register n (n even, 0..14): spec.md §3, the
// upper 32 bits come from FR[n], the lower 32 bits from FR[n+1] -- i.e. on a
// little-endian host the in-memory order of the FR pair is swapped relative
// to the double's own byte order.
func (r *Registers) DR(n int) float64 {
	hi := r.fr[n]
	lo := r.fr[n+1]
	return bitsToFloat64(uint64(hi)<<32 | uint64(lo))
}

// SetDR writes double-precision register n (n even, 0..14).
func (r *Registers) SetDR(n int, v float64) {
	bits := float64ToBits(v)
	r.fr[n] = uint32(bits >> 32)
	r.fr[n+1] = uint32(bits)
}

// XD reads the transposed XF pair for double n (n even, 0..14). Per
// spec.md §4.3, the XD registers are transposed relative to the FR file:
// XD0 interleaves XF0/XF1, XD1 interleaves XF2/XF3, etc, the same pairing
// as DR, but permanently addressing the alternate bank regardless of
// FPSCR.FR.
func (r *Registers) XD(n int) float64 {
	hi := r.xf[n]
	lo := r.xf[n+1]
	return bitsToFloat64(uint64(hi)<<32 | uint64(lo))
}

// SetXD writes the transposed XF pair for double n.
func (r *Registers) SetXD(n int, v float64) {
	bits := float64ToBits(v)
	r.xf[n] = uint32(bits >> 32)
	r.xf[n+1] = uint32(bits)
}

func (r *Registers) String() string {
	return fmt.Sprintf("PC=%08x PR=%08x SR=%s R0=%08x R15=%08x",
		r.PC, r.PR, r.SR, r.gp[0], r.gp[15])
}
