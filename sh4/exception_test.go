package sh4_test

import (
	"testing"

	"github.com/washgo/washcore/internal/assert"
	"github.com/washgo/washcore/sh4"
)

func TestEnterExceptionSavesStateAndJumps(t *testing.T) {
	r := sh4.NewRegisters()
	r.VBR = 0x8c100000
	r.PC = 0x8c010004
	r.SetR(15, 0xdeadbeef)
	r.SR = sh4.StatusRegister{T: true}

	r.EnterException(sh4.ExcGenIllegalInst, false)

	assert.Equate(t, r.SSR, sh4.StatusRegister{T: true})
	assert.Equate(t, r.SPC, uint32(0x8c010004))
	assert.Equate(t, r.SGR, uint32(0xdeadbeef))
	assert.Equate(t, r.SR.MD, true)
	assert.Equate(t, r.SR.BL, true)
	assert.Equate(t, r.SR.RB, true)
	assert.Equate(t, r.EXPEVT, uint32(sh4.ExcGenIllegalInst))
	assert.Equate(t, r.PC, r.VBR+0x100)
}

func TestEnterExceptionInterruptWritesINTEVT(t *testing.T) {
	r := sh4.NewRegisters()
	r.VBR = 0x8c100000
	r.EnterException(sh4.ExcTMU0, true)
	assert.Equate(t, r.INTEVT, uint32(sh4.ExcTMU0))
	assert.Equate(t, r.PC, r.VBR+0x600)
}

func TestReturnFromExceptionRestoresSRAndPC(t *testing.T) {
	r := sh4.NewRegisters()
	r.SetR(0, 0x1111)
	r.VBR = 0
	r.PC = 0x8c010000
	sr := sh4.StatusRegister{MD: true, RB: true}
	r.SetSR(sr)
	r.SetR(0, 0x2222)

	r.EnterException(sh4.ExcGenIllegalInst, false)
	r.ReturnFromException()

	assert.Equate(t, r.PC, uint32(0x8c010000))
	assert.Equate(t, r.R(0), uint32(0x2222))
}
