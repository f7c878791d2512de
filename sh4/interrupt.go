package sh4

import "sort"

// IRQLine identifies one of the interrupt request lines the SH-4's INTC
// multiplexes onto the CPU core, per spec.md §4.4. There are 28: the external
// IRL0..IRL14 lines, which have no irqTable entry and are never reported by
// Pending, then the on-chip peripheral lines and the PVR2/Maple lines.
type IRQLine int

const (
	IRQIRL0 IRQLine = iota // external IRL pins, priority-encoded
	IRQIRL1
	IRQIRL2
	IRQIRL3
	IRQIRL4
	IRQIRL5
	IRQIRL6
	IRQIRL7
	IRQIRL8
	IRQIRL9
	IRQIRL10
	IRQIRL11
	IRQIRL12
	IRQIRL13
	IRQIRL14
	IRQTMU0
	IRQTMU1
	IRQTMU2
	IRQRTC
	IRQSCI1
	IRQWDT
	IRQREF
	IRQHUDI
	IRQGPIO
	IRQDMAC
	IRQSCIF
	IRQPVR2
	IRQMAPLE
	irqLineCount
)

// irqSource binds a line to the exception code it raises and its priority
// (0 lowest .. 15 highest, as programmed into IPRA-D on real hardware; here
// fixed per line since the board wiring in spec.md is static).
type irqSource struct {
	line     IRQLine
	code     ExceptionCode
	priority uint8
}

var irqTable = [irqLineCount]irqSource{
	IRQTMU0: {IRQTMU0, ExcTMU0, 10},
	IRQTMU1: {IRQTMU1, ExcTMU1, 9},
	IRQTMU2: {IRQTMU2, ExcTMU2, 8},
	IRQRTC:  {IRQRTC, ExcRTC, 7},
	IRQSCI1: {IRQSCI1, ExcSCI1, 6},
	IRQWDT:  {IRQWDT, ExcWDT, 5},
	IRQREF:  {IRQREF, ExcREF, 5},
	IRQHUDI: {IRQHUDI, ExcHUDI, 4},
	IRQGPIO: {IRQGPIO, ExcGPIO, 3},
	IRQDMAC:  {IRQDMAC, ExcDMAC, 2},
	IRQSCIF:  {IRQSCIF, ExcSCIF, 1},
	IRQPVR2:  {IRQPVR2, ExcPVR2RenderDone, 9},
	IRQMAPLE: {IRQMAPLE, ExcMapleDMA, 9},
}

// InterruptController tracks the pending state of every IRQ line and
// recomputes the single highest-priority pending line into a small cache
// whenever the inputs that affect it change: SR.BL, SR.IMASK, or a pending
// bit. spec.md §4.4 requires this cache be invalidated (recomputed) on any
// of those writes rather than rescanned every instruction.
type InterruptController struct {
	pending [irqLineCount]bool
	dirty   bool
	cached  *irqSource // nil if nothing is currently pending-and-unmasked
}

// NewInterruptController returns a controller with no lines pending.
func NewInterruptController() *InterruptController {
	return &InterruptController{dirty: true}
}

// Raise marks an IRQ line pending and invalidates the cache.
func (ic *InterruptController) Raise(line IRQLine) {
	ic.pending[line] = true
	ic.dirty = true
}

// Clear marks an IRQ line no longer pending (level-sensitive lines are
// cleared by the peripheral's status-ack register write; edge-sensitive
// ones are cleared here directly by the caller) and invalidates the cache.
func (ic *InterruptController) Clear(line IRQLine) {
	ic.pending[line] = false
	ic.dirty = true
}

// Invalidate forces a recompute on the next Pending call; callers invoke
// this after any SR.BL or SR.IMASK write per spec.md §4.4.
func (ic *InterruptController) Invalidate() {
	ic.dirty = true
}

// recompute scans all pending lines and caches the one with the highest
// priority (ties broken by lowest IRQLine value, matching the fixed
// external-IRL priority encoding).
func (ic *InterruptController) recompute() {
	ic.dirty = false
	ic.cached = nil
	var candidates []*irqSource
	for i := range irqTable {
		if !ic.pending[i] {
			continue
		}
		src := irqTable[i]
		if src.code == 0 {
			continue // unused table slot (IRL lines not separately modelled)
		}
		candidates = append(candidates, &src)
	}
	if len(candidates) == 0 {
		return
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].priority != candidates[j].priority {
			return candidates[i].priority > candidates[j].priority
		}
		return candidates[i].line < candidates[j].line
	})
	ic.cached = candidates[0]
}

// Pending returns the highest-priority pending IRQ source not masked by
// SR.BL or SR.IMASK, or ok=false if none qualifies. imask is the current
// SR.IMASK nibble; blocked is SR.BL.
func (ic *InterruptController) Pending(imask uint8, blocked bool) (code ExceptionCode, ok bool) {
	if blocked {
		return 0, false
	}
	if ic.dirty {
		ic.recompute()
	}
	if ic.cached == nil {
		return 0, false
	}
	if ic.cached.priority <= imask {
		return 0, false
	}
	return ic.cached.code, true
}

// Line returns the IRQLine last delivered by Pending's chosen candidate;
// used by callers that need to clear the line once its handler completes.
func (ic *InterruptController) Line() (IRQLine, bool) {
	if ic.dirty {
		ic.recompute()
	}
	if ic.cached == nil {
		return 0, false
	}
	return ic.cached.line, true
}
