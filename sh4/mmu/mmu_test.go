package mmu_test

import (
	"testing"

	"github.com/washgo/washcore/internal/assert"
	"github.com/washgo/washcore/sh4/mmu"
)

func TestTranslateMissWhenNoEntry(t *testing.T) {
	tlb := mmu.NewUTLB()
	_, outcome := tlb.Translate(0x12345000, 0, mmu.AccessRead, true)
	assert.Equate(t, outcome, mmu.Miss)
}

func TestTranslateSuccessAfterLDTLB(t *testing.T) {
	tlb := mmu.NewUTLB()
	assert.Success(t, tlb.LDTLB(mmu.Entry{
		Valid: true, VPN: 0x12345000, PPN: 0x0c000000,
		Protection: mmu.ProtUserRW, Size: mmu.Page4K, Dirty: true,
	}))
	pa, outcome := tlb.Translate(0x12345678, 0, mmu.AccessRead, false)
	assert.Equate(t, outcome, mmu.Success)
	assert.Equate(t, pa, uint32(0x0c000678))
}

func TestTranslateProtViolPrivOnlyPageFromUser(t *testing.T) {
	tlb := mmu.NewUTLB()
	assert.Success(t, tlb.LDTLB(mmu.Entry{
		Valid: true, VPN: 0x12345000, PPN: 0x0c000000,
		Protection: mmu.ProtPrivRW, Size: mmu.Page4K, Dirty: true,
	}))
	_, outcome := tlb.Translate(0x12345000, 0, mmu.AccessRead, false)
	assert.Equate(t, outcome, mmu.ProtViol)
}

func TestTranslateInitialWriteOnCleanPage(t *testing.T) {
	tlb := mmu.NewUTLB()
	assert.Success(t, tlb.LDTLB(mmu.Entry{
		Valid: true, VPN: 0x12345000, PPN: 0x0c000000,
		Protection: mmu.ProtUserRW, Size: mmu.Page4K, Dirty: false,
	}))
	_, outcome := tlb.Translate(0x12345000, 0, mmu.AccessWrite, false)
	assert.Equate(t, outcome, mmu.InitialWrite)
}

func TestASIDIsolation(t *testing.T) {
	tlb := mmu.NewUTLB()
	assert.Success(t, tlb.LDTLB(mmu.Entry{
		Valid: true, VPN: 0x12345000, PPN: 0x0c000000, ASID: 1,
		Protection: mmu.ProtUserRW, Size: mmu.Page4K, Dirty: true,
	}))
	_, outcome := tlb.Translate(0x12345000, 2, mmu.AccessRead, false)
	assert.Equate(t, outcome, mmu.Miss)
}

func TestLDTLBRotatesReplaceCounter(t *testing.T) {
	tlb := mmu.NewITLB()
	for i := 0; i < 5; i++ {
		assert.Success(t, tlb.LDTLB(mmu.Entry{
			Valid: true, VPN: uint32(i) << 12, PPN: uint32(i) << 12,
			Protection: mmu.ProtUserRW, Size: mmu.Page4K, Dirty: true,
		}))
	}
	// the 5th LDTLB on a 4-entry TLB wraps and overwrites slot 0 (vpn 0).
	_, outcome := tlb.Translate(0, 0, mmu.AccessRead, false)
	assert.Equate(t, outcome, mmu.Miss)
}
