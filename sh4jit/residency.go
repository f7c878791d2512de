package sh4jit

// Residency is the state of one guest register's canonical value while a
// block is building, per spec.md §4.6.
type Residency int

const (
	// ResidentSH4 means the register array holds the only copy; no slot
	// has been allocated for it yet.
	ResidentSH4 Residency = iota
	// ResidentSlotAndSH4 means a slot holds a clean copy that matches the
	// register array.
	ResidentSlotAndSH4
	// ResidentSlot means a slot holds the only up-to-date copy (dirty);
	// the register array is stale until drained.
	ResidentSlot
)

// Tracker maps each of the 16 general registers to a residency state and
// the slot backing it, if any. A fresh Tracker assumes every register is
// ResidentSH4 (no slot allocated).
type Tracker struct {
	state    [16]Residency
	slot     [16]Slot
	nextSlot Slot
	insts    *[]Inst
}

// NewTracker creates a Tracker that appends generated load/store
// instructions to insts as registers are touched.
func NewTracker(insts *[]Inst) *Tracker {
	return &Tracker{insts: insts}
}

func (t *Tracker) allocSlot() Slot {
	s := t.nextSlot
	t.nextSlot++
	return s
}

func (t *Tracker) emit(i Inst) {
	*t.insts = append(*t.insts, i)
}

// RegSlot returns a slot holding guest register r's current value, loading
// it from the register array first if it is not already resident in a
// slot, and marks it ResidentSlotAndSH4.
func (t *Tracker) RegSlot(r int) Slot {
	if t.state[r] != ResidentSH4 {
		return t.slot[r]
	}
	s := t.allocSlot()
	t.emit(Inst{Op: OpLoadHostPtr, Dst: s, GuestReg: r})
	t.slot[r] = s
	t.state[r] = ResidentSlotAndSH4
	return s
}

// RegSlotNoLoad allocates a fresh slot for register r without loading its
// current value -- used immediately before a full overwrite -- and marks it
// ResidentSlot (dirty).
func (t *Tracker) RegSlotNoLoad(r int) Slot {
	s := t.allocSlot()
	t.slot[r] = s
	t.state[r] = ResidentSlot
	return s
}

// MarkDirty marks register r's current slot as holding the only up-to-date
// copy, for callers that wrote to RegSlot's returned slot in place.
func (t *Tracker) MarkDirty(r int) {
	if t.state[r] == ResidentSlotAndSH4 {
		t.state[r] = ResidentSlot
	}
}

// Drain stores register r's slot back to the register array if dirty.
func (t *Tracker) Drain(r int) {
	if t.state[r] != ResidentSlot {
		return
	}
	t.emit(Inst{Op: OpStoreHostPtr, Src1: t.slot[r], GuestReg: r})
	t.state[r] = ResidentSlotAndSH4
}

// DrainAll drains every dirty register. Required before any host call that
// can read or write guest registers (set_sr, set_fpscr, all fallbacks) per
// spec.md §4.6.
func (t *Tracker) DrainAll() {
	for r := 0; r < 16; r++ {
		t.Drain(r)
	}
}

// InvalidateAll forgets every slot binding, forcing the next RegSlot call
// per register to reload from the register array.
func (t *Tracker) InvalidateAll() {
	for r := 0; r < 16; r++ {
		t.state[r] = ResidentSH4
	}
}
