// Package memmap implements spec.md's component C2: the memory map shared
// by the SH-4 interpreter and JIT. It routes a 32-bit guest physical address
// to a region handler by interval comparison, with a fast inline path for
// RAM and an indirect handler-table call for everything else.
//
// The region-table-plus-handler-interface shape is grounded in the teacher
// repository's hardware/memory/bus package (bus.CPUBus / bus.ChipBus
// interfaces dispatched through a single VCSMemory type) generalised from
// the VCS's 13-bit address space and four hard-coded region kinds (TIA,
// RAM, RIOT, Cartridge) to spec.md §3's open-ended, ordered region list
// keyed by (first_addr, last_addr, range_mask, mask).
package memmap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/washgo/washcore/coreerr"
)

// Handler services reads and writes routed to a region. addr is already
// masked to the region-local offset spec.md §4.2 describes.
type Handler interface {
	Read8(addr uint32) (uint8, error)
	Read16(addr uint32) (uint16, error)
	Read32(addr uint32) (uint32, error)
	ReadFloat(addr uint32) (float32, error)
	ReadDouble(addr uint32) (float64, error)

	Write8(addr uint32, v uint8) error
	Write16(addr uint32, v uint16) error
	Write32(addr uint32, v uint32) error
	WriteFloat(addr uint32, v float32) error
	WriteDouble(addr uint32, v float64) error
}

// Region describes one entry of the memory map, per spec.md §3.
type Region struct {
	Name      string
	FirstAddr uint32
	LastAddr  uint32
	RangeMask uint32 // applied to the incoming address before interval compare
	Mask      uint32 // applied to produce the region-local offset

	// RAM is a direct byte-slice fast path; if non-nil, Handler is ignored
	// and accesses are serviced inline as mem[addr&Mask].
	RAM []byte

	Handler Handler
}

// AccessKind distinguishes reads from writes for the debug tap.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
)

// Width identifies the access size of a dispatched operation.
type Width int

const (
	Width8 Width = iota
	Width16
	Width32
	WidthFloat
	WidthDouble
)

func (w Width) bytes() uint32 {
	switch w {
	case Width8:
		return 1
	case Width16:
		return 2
	case Width32, WidthFloat:
		return 4
	case WidthDouble:
		return 8
	}
	return 1
}

// Tap is an optional, read-only observer invoked on every dispatch,
// regardless of whether it hits RAM or a Handler. It does not alter
// routing. This exists to give an out-of-tree BIOS HLE syscall tracer
// (out of scope per spec.md §1, see original_source/deep_syscall_trace.c)
// somewhere to attach without the memory map depending on it.
type Tap func(kind AccessKind, width Width, addr uint32)

// Map is an ordered, immutable-after-construction sequence of regions.
// Populated at system construction; dispatch walks regions in order and the
// first match wins (spec.md §4.2).
type Map struct {
	regions []Region
	Tap     Tap
}

// New creates an empty Map. Add regions with AddRegion before first use.
func New() *Map {
	return &Map{}
}

// AddRegion appends a region to the map. Order matters: the first region
// whose interval matches an address wins.
func (m *Map) AddRegion(r Region) {
	m.regions = append(m.regions, r)
}

// find returns the region matching addr for an access of the given width,
// or nil if none match.
func (m *Map) find(addr uint32, width Width) *Region {
	n := width.bytes()
	for i := range m.regions {
		r := &m.regions[i]
		masked := addr & r.RangeMask
		if masked >= r.FirstAddr && masked <= r.LastAddr-(n-1) {
			return r
		}
	}
	return nil
}

func unmapped(addr uint32, width Width) error {
	return coreerr.Integrityf("memmap", "unmapped address %#08x (width %d)", addr, width.bytes())
}

// Read8 reads a single byte.
func (m *Map) Read8(addr uint32) (uint8, error) {
	if m.Tap != nil {
		m.Tap(AccessRead, Width8, addr)
	}
	r := m.find(addr, Width8)
	if r == nil {
		return 0, unmapped(addr, Width8)
	}
	if r.RAM != nil {
		return r.RAM[addr&r.Mask], nil
	}
	return r.Handler.Read8(addr & r.Mask)
}

// Write8 writes a single byte.
func (m *Map) Write8(addr uint32, v uint8) error {
	if m.Tap != nil {
		m.Tap(AccessWrite, Width8, addr)
	}
	r := m.find(addr, Width8)
	if r == nil {
		return unmapped(addr, Width8)
	}
	if r.RAM != nil {
		r.RAM[addr&r.Mask] = v
		return nil
	}
	return r.Handler.Write8(addr&r.Mask, v)
}

// Read16 reads a little-endian 16-bit halfword.
func (m *Map) Read16(addr uint32) (uint16, error) {
	if m.Tap != nil {
		m.Tap(AccessRead, Width16, addr)
	}
	r := m.find(addr, Width16)
	if r == nil {
		return 0, unmapped(addr, Width16)
	}
	if r.RAM != nil {
		off := addr & r.Mask
		return uint16(r.RAM[off]) | uint16(r.RAM[off+1])<<8, nil
	}
	return r.Handler.Read16(addr & r.Mask)
}

// Write16 writes a little-endian 16-bit halfword.
func (m *Map) Write16(addr uint32, v uint16) error {
	if m.Tap != nil {
		m.Tap(AccessWrite, Width16, addr)
	}
	r := m.find(addr, Width16)
	if r == nil {
		return unmapped(addr, Width16)
	}
	if r.RAM != nil {
		off := addr & r.Mask
		r.RAM[off] = uint8(v)
		r.RAM[off+1] = uint8(v >> 8)
		return nil
	}
	return r.Handler.Write16(addr&r.Mask, v)
}

// Read32 reads a little-endian 32-bit word.
func (m *Map) Read32(addr uint32) (uint32, error) {
	if m.Tap != nil {
		m.Tap(AccessRead, Width32, addr)
	}
	r := m.find(addr, Width32)
	if r == nil {
		return 0, unmapped(addr, Width32)
	}
	if r.RAM != nil {
		off := addr & r.Mask
		return uint32(r.RAM[off]) | uint32(r.RAM[off+1])<<8 |
			uint32(r.RAM[off+2])<<16 | uint32(r.RAM[off+3])<<24, nil
	}
	return r.Handler.Read32(addr & r.Mask)
}

// Write32 writes a little-endian 32-bit word.
func (m *Map) Write32(addr uint32, v uint32) error {
	if m.Tap != nil {
		m.Tap(AccessWrite, Width32, addr)
	}
	r := m.find(addr, Width32)
	if r == nil {
		return unmapped(addr, Width32)
	}
	if r.RAM != nil {
		off := addr & r.Mask
		r.RAM[off] = uint8(v)
		r.RAM[off+1] = uint8(v >> 8)
		r.RAM[off+2] = uint8(v >> 16)
		r.RAM[off+3] = uint8(v >> 24)
		return nil
	}
	return r.Handler.Write32(addr&r.Mask, v)
}

// ReadFloat reads a 32-bit IEEE-754 float.
func (m *Map) ReadFloat(addr uint32) (float32, error) {
	if m.Tap != nil {
		m.Tap(AccessRead, WidthFloat, addr)
	}
	r := m.find(addr, WidthFloat)
	if r == nil {
		return 0, unmapped(addr, WidthFloat)
	}
	if r.RAM != nil {
		bits, err := m.Read32(addr)
		_ = err
		return float32FromBits(bits), nil
	}
	return r.Handler.ReadFloat(addr & r.Mask)
}

// WriteFloat writes a 32-bit IEEE-754 float.
func (m *Map) WriteFloat(addr uint32, v float32) error {
	if m.Tap != nil {
		m.Tap(AccessWrite, WidthFloat, addr)
	}
	r := m.find(addr, WidthFloat)
	if r == nil {
		return unmapped(addr, WidthFloat)
	}
	if r.RAM != nil {
		return m.Write32(addr, float32Bits(v))
	}
	return r.Handler.WriteFloat(addr&r.Mask, v)
}

// ReadDouble reads a 64-bit IEEE-754 double.
func (m *Map) ReadDouble(addr uint32) (float64, error) {
	if m.Tap != nil {
		m.Tap(AccessRead, WidthDouble, addr)
	}
	r := m.find(addr, WidthDouble)
	if r == nil {
		return 0, unmapped(addr, WidthDouble)
	}
	if r.RAM != nil {
		lo, _ := m.Read32(addr)
		hi, _ := m.Read32(addr + 4)
		return float64FromBits(uint64(hi)<<32 | uint64(lo)), nil
	}
	return r.Handler.ReadDouble(addr & r.Mask)
}

// WriteDouble writes a 64-bit IEEE-754 double.
func (m *Map) WriteDouble(addr uint32, v float64) error {
	if m.Tap != nil {
		m.Tap(AccessWrite, WidthDouble, addr)
	}
	r := m.find(addr, WidthDouble)
	if r == nil {
		return unmapped(addr, WidthDouble)
	}
	if r.RAM != nil {
		bits := float64Bits(v)
		if err := m.Write32(addr, uint32(bits)); err != nil {
			return err
		}
		return m.Write32(addr+4, uint32(bits>>32))
	}
	return r.Handler.WriteDouble(addr&r.Mask, v)
}

// Summary renders the region table, sorted by FirstAddr, for debugging --
// the teacher's memorymap.Summary() equivalent.
func (m *Map) Summary() string {
	sorted := make([]Region, len(m.regions))
	copy(sorted, m.regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FirstAddr < sorted[j].FirstAddr })

	var b strings.Builder
	for _, r := range sorted {
		fmt.Fprintf(&b, "%08x -> %08x\t%s\n", r.FirstAddr, r.LastAddr, r.Name)
	}
	return b.String()
}
