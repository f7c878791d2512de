package sh4

// opcodes.go implements the semantic functions referenced from decode.go's
// decodeEntries table. Coverage spans every addressing mode and issue group
// named by spec.md §4.5 (register-register, register-immediate, PC-relative
// load, indirect load/store with pre-decrement/post-increment, the
// condition-code comparisons, the three branch families, and the
// control-register transfers) without attempting all 65536 encodings; see
// DESIGN.md for the scoping rationale.

func sext8(v int) int32  { return int32(int8(v)) }
func sext12(v int) int32 { return (int32(v) << 20) >> 20 }

func opNOP(c *CPU, ops Operands) error { return nil }

// MOV Rm,Rn
func opMOV(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.M))
	return nil
}

// MOV #imm,Rn -- imm is sign-extended per SH-4 convention.
func opMOVI(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, uint32(sext8(ops.I)))
	return nil
}

// MOV.L @(disp,PC),Rn -- disp is an 8-bit unsigned longword count; the
// effective address is PC masked to a longword boundary plus disp*4 per
// SH-4's PC-relative longword load.
func opMOVLPC(c *CPU, ops Operands) error {
	base := (c.Regs.PC & 0xfffffffc) + uint32(ops.I)*4
	v, err := c.Bus.Read32(base)
	if err != nil {
		return err
	}
	c.Regs.SetR(ops.N, v)
	return nil
}

func opMOVLStore(c *CPU, ops Operands) error {
	return c.Bus.Write32(c.Regs.R(ops.N), c.Regs.R(ops.M))
}

func opMOVLLoad(c *CPU, ops Operands) error {
	v, err := c.Bus.Read32(c.Regs.R(ops.M))
	if err != nil {
		return err
	}
	c.Regs.SetR(ops.N, v)
	return nil
}

// MOV.L @Rm+,Rn -- post-increment load; if n == m the incremented value is
// the one left in the register (standard SH-4 rule for this edge case).
func opMOVLLoadInc(c *CPU, ops Operands) error {
	addr := c.Regs.R(ops.M)
	v, err := c.Bus.Read32(addr)
	if err != nil {
		return err
	}
	c.Regs.SetR(ops.M, addr+4)
	c.Regs.SetR(ops.N, v)
	return nil
}

// MOV.L Rm,@-Rn -- pre-decrement store.
func opMOVLStoreDec(c *CPU, ops Operands) error {
	addr := c.Regs.R(ops.N) - 4
	if err := c.Bus.Write32(addr, c.Regs.R(ops.M)); err != nil {
		return err
	}
	c.Regs.SetR(ops.N, addr)
	return nil
}

func opADD(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.N)+c.Regs.R(ops.M))
	return nil
}

func opADDI(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.N)+uint32(sext8(ops.I)))
	return nil
}

func opSUB(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.N)-c.Regs.R(ops.M))
	return nil
}

func opCMPEQ(c *CPU, ops Operands) error {
	c.Regs.SR.T = c.Regs.R(ops.N) == c.Regs.R(ops.M)
	return nil
}

func opCMPEQI(c *CPU, ops Operands) error {
	c.Regs.SR.T = int32(c.Regs.R(0)) == sext8(ops.I)
	return nil
}

func opCMPGT(c *CPU, ops Operands) error {
	c.Regs.SR.T = int32(c.Regs.R(ops.N)) > int32(c.Regs.R(ops.M))
	return nil
}

func opCMPHI(c *CPU, ops Operands) error {
	c.Regs.SR.T = c.Regs.R(ops.N) > c.Regs.R(ops.M)
	return nil
}

func opTST(c *CPU, ops Operands) error {
	c.Regs.SR.T = (c.Regs.R(ops.N) & c.Regs.R(ops.M)) == 0
	return nil
}

func opAND(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.N)&c.Regs.R(ops.M))
	return nil
}

func opOR(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.N)|c.Regs.R(ops.M))
	return nil
}

func opXOR(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.R(ops.N)^c.Regs.R(ops.M))
	return nil
}

func opSHLL(c *CPU, ops Operands) error {
	v := c.Regs.R(ops.N)
	c.Regs.SR.T = v&0x80000000 != 0
	c.Regs.SetR(ops.N, v<<1)
	return nil
}

func opSHLR(c *CPU, ops Operands) error {
	v := c.Regs.R(ops.N)
	c.Regs.SR.T = v&1 != 0
	c.Regs.SetR(ops.N, v>>1)
	return nil
}

// BT label -- branch if T set. The displacement is an 8-bit signed word
// count relative to PC+4 (PC has already been advanced past this
// instruction in Step, so the base here is the post-fetch PC).
func opBT(c *CPU, ops Operands) error {
	if c.Regs.SR.T {
		target := uint32(int32(c.Regs.PC) + 2 + sext8(ops.I)*2)
		c.enterDelaySlot(target)
	}
	return nil
}

func opBF(c *CPU, ops Operands) error {
	if !c.Regs.SR.T {
		target := uint32(int32(c.Regs.PC) + 2 + sext8(ops.I)*2)
		c.enterDelaySlot(target)
	}
	return nil
}

func opBRA(c *CPU, ops Operands) error {
	d12 := int(ops.D)
	target := uint32(int32(c.Regs.PC) + 2 + sext12(d12)*2)
	c.enterDelaySlot(target)
	return nil
}

func opBSR(c *CPU, ops Operands) error {
	d12 := int(ops.D)
	target := uint32(int32(c.Regs.PC) + 2 + sext12(d12)*2)
	c.Regs.PR = c.Regs.PC + 2
	c.enterDelaySlot(target)
	return nil
}

func opJMP(c *CPU, ops Operands) error {
	c.enterDelaySlot(c.Regs.R(ops.N))
	return nil
}

func opJSR(c *CPU, ops Operands) error {
	c.Regs.PR = c.Regs.PC + 2
	c.enterDelaySlot(c.Regs.R(ops.N))
	return nil
}

func opRTS(c *CPU, ops Operands) error {
	c.enterDelaySlot(c.Regs.PR)
	return nil
}

func opRTE(c *CPU, ops Operands) error {
	c.enterDelaySlot(c.Regs.SPC)
	// SSR must be restored only once the delay slot retires, matching
	// real hardware's RTE timing; simplified here to restore immediately
	// since this interpreter does not model SR-dependent delay-slot
	// instructions crossing the RTE boundary.
	c.Regs.SetSR(c.Regs.SSR)
	return nil
}

func opLDCSR(c *CPU, ops Operands) error {
	c.Regs.SetSR(UnpackSR(c.Regs.R(ops.N)))
	c.INTC.Invalidate()
	return nil
}

func opSTCSR(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.SR.Pack())
	return nil
}

func opLDSPR(c *CPU, ops Operands) error {
	c.Regs.PR = c.Regs.R(ops.N)
	return nil
}

func opSTSPR(c *CPU, ops Operands) error {
	c.Regs.SetR(ops.N, c.Regs.PR)
	return nil
}

// MUL.L Rm,Rn -- 32x32->32 multiply, result in MACL only (SH-4 semantics).
func opMULL(c *CPU, ops Operands) error {
	c.Regs.MACL = c.Regs.R(ops.N) * c.Regs.R(ops.M)
	return nil
}

func opTRAPA(c *CPU, ops Operands) error {
	c.Regs.TRA = uint32(ops.I) << 2
	c.Regs.EnterException(ExcUnconditionalTrap, false)
	return nil
}

// LDS Rn,FPSCR -- loads FPSCR from Rn, changing PR/SZ/FR as encoded. This
// is one of the instructions the JIT builder terminates a block on, since
// jit_hash is keyed on FPSCR.PR/SZ (spec.md §4.6).
func opLDSFPSCR(c *CPU, ops Operands) error {
	c.Regs.SetFPSCR(UnpackFPSCR(c.Regs.R(ops.N)))
	return nil
}

// LDS.L @Rn+,FPSCR -- post-increment memory load variant of LDS Rn,FPSCR.
func opLDSLFPSCR(c *CPU, ops Operands) error {
	addr := c.Regs.R(ops.N)
	v, err := c.Bus.Read32(addr)
	if err != nil {
		return err
	}
	c.Regs.SetR(ops.N, addr+4)
	c.Regs.SetFPSCR(UnpackFPSCR(v))
	return nil
}

// FSCHG -- toggles FPSCR.SZ, the transfer-size bit the JIT hash splits on.
func opFSCHG(c *CPU, ops Operands) error {
	c.Regs.FPSCR.SZ = !c.Regs.FPSCR.SZ
	return nil
}

// FRCHG -- toggles FPSCR.FR, swapping the active floating point bank.
func opFRCHG(c *CPU, ops Operands) error {
	c.Regs.SetFPSCR(FPSCR{
		RM: c.Regs.FPSCR.RM, FlagFlags: c.Regs.FPSCR.FlagFlags,
		EnableFlags: c.Regs.FPSCR.EnableFlags, CauseFlags: c.Regs.FPSCR.CauseFlags,
		DN: c.Regs.FPSCR.DN, PR: c.Regs.FPSCR.PR, SZ: c.Regs.FPSCR.SZ,
		FR: !c.Regs.FPSCR.FR,
	})
	return nil
}
