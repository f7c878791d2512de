// Package mmu implements spec.md's component C6: the optional SH-4 MMU,
// with a 64-entry UTLB and a 4-entry ITLB, associative lookup, and the
// translation outcomes {Success, Miss, ProtViol, InitialWrite}.
//
// There is no direct teacher analogue (the 6507 has no MMU); this package
// is grounded in spec.md §4.7 directly, using the same associative-array
// scan idiom the teacher's hardware/memory/bus package uses for its region
// table (linear scan over a small fixed-size table), since 64/4 entries is
// too small to justify a map-based index.
package mmu

import "github.com/washgo/washcore/coreerr"

// PageSize is the TLB entry's page-size field.
type PageSize int

const (
	Page1K PageSize = iota
	Page4K
	Page64K
	Page1M
)

func (p PageSize) mask() uint32 {
	switch p {
	case Page1K:
		return 0x3ff
	case Page4K:
		return 0xfff
	case Page64K:
		return 0xffff
	case Page1M:
		return 0xfffff
	}
	return 0xfff
}

// Protection is the entry's protection-key field.
type Protection int

const (
	ProtPrivRO Protection = iota
	ProtPrivRW
	ProtUserRO
	ProtUserRW
)

// Entry is one TLB slot, per spec.md §4.7.
type Entry struct {
	Valid      bool
	Shared     bool
	ASID       uint8
	VPN        uint32 // virtual page number, already shifted to page-aligned form
	PPN        uint32 // physical page number
	Protection Protection
	Cacheable  bool
	Dirty      bool // UTLB only
	SA         uint8
	Size       PageSize
	WT         bool
	TC         bool
}

// Outcome classifies a translation result.
type Outcome int

const (
	Success Outcome = iota
	Miss
	ProtViol
	InitialWrite // UTLB only: a write to a clean page
)

// AccessKind indicates the access direction a Translate call is checking.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
)

// TLB is one translation buffer (UTLB or ITLB): a fixed-size entry table
// and its replace counter.
type TLB struct {
	entries []Entry
	urc     int // UTLB replace counter (MMUCR.URC), advances on LDTLB
}

// NewUTLB returns a 64-entry UTLB with every slot invalid.
func NewUTLB() *TLB { return &TLB{entries: make([]Entry, 64)} }

// NewITLB returns a 4-entry ITLB with every slot invalid.
func NewITLB() *TLB { return &TLB{entries: make([]Entry, 4)} }

// lookup performs the associative scan spec.md §4.7 describes: match by
// (vpn masked to the entry's page size, asid-if-not-shared).
func (t *TLB) lookup(vaddr uint32, asid uint8) (*Entry, bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if !e.Valid {
			continue
		}
		if !e.Shared && e.ASID != asid {
			continue
		}
		mask := e.Size.mask()
		if (vaddr &^ mask) == (e.VPN &^ mask) {
			return e, true
		}
	}
	return nil, false
}

// Translate maps a virtual address to a physical one, per spec.md §4.7's
// outcome table. privileged is SR.MD.
func (t *TLB) Translate(vaddr uint32, asid uint8, access AccessKind, privileged bool) (uint32, Outcome) {
	e, ok := t.lookup(vaddr, asid)
	if !ok {
		return 0, Miss
	}

	allowed := false
	switch e.Protection {
	case ProtPrivRO:
		allowed = privileged && access == AccessRead
	case ProtPrivRW:
		allowed = privileged
	case ProtUserRO:
		allowed = access == AccessRead
	case ProtUserRW:
		allowed = true
	}
	if !allowed {
		return 0, ProtViol
	}

	if access == AccessWrite && !e.Dirty {
		return 0, InitialWrite
	}

	mask := e.Size.mask()
	return (e.PPN &^ mask) | (vaddr & mask), Success
}

// LDTLB writes an entry (typically assembled from PTEH/PTEL/PTEA by the
// caller) into the UTLB slot selected by the replace counter, advancing the
// counter afterward, per spec.md §4.7's MMUCR.URC rotation.
func (t *TLB) LDTLB(e Entry) error {
	if len(t.entries) == 0 {
		return coreerr.Integrityf("mmu", "LDTLB called on an empty TLB")
	}
	t.entries[t.urc] = e
	t.urc = (t.urc + 1) % len(t.entries)
	return nil
}

// Invalidate clears every entry, used on MMUCR.TI writes.
func (t *TLB) Invalidate() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
}
