package sh4

import "strings"

// StatusRegister is the SH-4's SR, decoded into its named bit fields per
// spec.md §3. The bit-by-bit String() rendering follows the teacher's
// registers.Status texture (upper-case set / lower-case clear letters).
type StatusRegister struct {
	MD     bool // privileged mode
	RB     bool // register bank select
	BL     bool // block interrupts
	FD     bool // FPU disabled
	IMASK  uint8 // 4 bits
	M      bool
	Q      bool
	S      bool
	T      bool // condition code
}

// Pack encodes the StatusRegister into its 32-bit hardware layout.
func (sr StatusRegister) Pack() uint32 {
	var v uint32
	if sr.MD {
		v |= 1 << 30
	}
	if sr.RB {
		v |= 1 << 29
	}
	if sr.BL {
		v |= 1 << 28
	}
	if sr.FD {
		v |= 1 << 15
	}
	v |= uint32(sr.IMASK&0xf) << 4
	if sr.M {
		v |= 1 << 9
	}
	if sr.Q {
		v |= 1 << 8
	}
	if sr.S {
		v |= 1 << 1
	}
	if sr.T {
		v |= 1 << 0
	}
	return v
}

// UnpackSR decodes a 32-bit hardware value into a StatusRegister.
func UnpackSR(v uint32) StatusRegister {
	return StatusRegister{
		MD:    v&(1<<30) != 0,
		RB:    v&(1<<29) != 0,
		BL:    v&(1<<28) != 0,
		FD:    v&(1<<15) != 0,
		IMASK: uint8((v >> 4) & 0xf),
		M:     v&(1<<9) != 0,
		Q:     v&(1<<8) != 0,
		S:     v&(1<<1) != 0,
		T:     v&(1<<0) != 0,
	}
}

func (sr StatusRegister) String() string {
	var b strings.Builder
	flag := func(set bool, on, off rune) {
		if set {
			b.WriteRune(on)
		} else {
			b.WriteRune(off)
		}
	}
	flag(sr.MD, 'M', 'm')
	flag(sr.RB, 'R', 'r')
	flag(sr.BL, 'B', 'b')
	flag(sr.FD, 'F', 'f')
	flag(sr.T, 'T', 't')
	return b.String()
}

// FPSCR is the SH-4's floating point status/control register.
type FPSCR struct {
	RM   uint8 // rounding mode
	FlagFlags uint8
	EnableFlags uint8
	CauseFlags uint8
	DN   bool
	PR   bool // precision: double when set
	SZ   bool // transfer size: double when set
	FR   bool // FPU register bank select
}

// Pack encodes FPSCR into its 32-bit hardware layout.
func (f FPSCR) Pack() uint32 {
	var v uint32
	v |= uint32(f.RM & 0x3)
	v |= uint32(f.FlagFlags&0x1f) << 2
	v |= uint32(f.EnableFlags&0x1f) << 7
	v |= uint32(f.CauseFlags&0x3f) << 12
	if f.DN {
		v |= 1 << 18
	}
	if f.PR {
		v |= 1 << 19
	}
	if f.SZ {
		v |= 1 << 20
	}
	if f.FR {
		v |= 1 << 21
	}
	return v
}

// UnpackFPSCR decodes a 32-bit hardware value into an FPSCR.
func UnpackFPSCR(v uint32) FPSCR {
	return FPSCR{
		RM:          uint8(v & 0x3),
		FlagFlags:   uint8((v >> 2) & 0x1f),
		EnableFlags: uint8((v >> 7) & 0x1f),
		CauseFlags:  uint8((v >> 12) & 0x3f),
		DN:          v&(1<<18) != 0,
		PR:          v&(1<<19) != 0,
		SZ:          v&(1<<20) != 0,
		FR:          v&(1<<21) != 0,
	}
}

// ClearCause zeroes the cause bits, done before each FPU op unless a "fast"
// FPU mode is compiled in (spec.md §4.5).
func (f *FPSCR) ClearCause() {
	f.CauseFlags = 0
}
