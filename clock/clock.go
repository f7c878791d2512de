// Package clock implements spec.md's component C1: a priority queue of timed
// events and the countdown mechanism that lets the CPU loop decrement a
// single scalar per cycle instead of recomputing a stamp/target pair every
// time.
//
// The teacher repository (hardware/clocks) only carries the fixed frequency
// constants that derive the VCS's colour clock from real-world crystal
// frequencies; there is no scheduler there to adapt, because the VCS's TIA
// free-runs rather than being driven by discrete timed events. The
// scheduler itself is grounded in spec.md §4.1 and §9's guidance to replace
// the C++ original's intrusive pointer-linked event list with a binary heap
// keyed on `when`, which is the idiomatic Go container/heap shape.
package clock

import "container/heap"

// SchedFrequency is the scheduler's tick frequency: the least common
// multiple of the VCLK (13.5 MHz) and the SH-4 clock (200 MHz).
const SchedFrequency = 5_400_000_000

// SH4ClockScale converts SH-4 cycles to scheduler cycles.
const SH4ClockScale = SchedFrequency / 200_000_000

// Timeslice is the number of scheduler cycles advanced per run_timeslice
// call (spec.md §5: SCHED_FREQUENCY/400).
const Timeslice = SchedFrequency / 400

// Handler is invoked when an Event fires. arg is the caller-supplied
// context pointer carried by the Event.
type Handler func(arg interface{})

// Event is a single scheduled callback. Event structs are caller-owned: the
// scheduler never allocates or frees them, only links and unlinks them, so
// callers may reuse a static Event across many schedule/fire cycles.
type Event struct {
	When    int64
	Handler Handler
	Arg     interface{}

	scheduled bool
	index     int // heap index, maintained by container/heap
}

// Scheduled reports whether the event is currently in the scheduler's queue.
func (e *Event) Scheduled() bool { return e.scheduled }

// eventHeap is a container/heap.Interface over *Event ordered by When.
type eventHeap []*Event

func (h eventHeap) Len() int            { return len(h) }
func (h eventHeap) Less(i, j int) bool  { return h[i].When < h[j].When }
func (h eventHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *eventHeap) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Clock owns the countdown/target/stamp triple and the event queue.
//
// Invariant (spec.md invariant 2): Stamp == Target - Countdown at every
// sampling point. The invariant is restored by recompute whenever the queue
// head changes or an event fires.
type Clock struct {
	countdown int64
	target    int64
	stamp     int64

	queue eventHeap
	halt  bool
}

// New creates a Clock with an empty event queue.
func New() *Clock {
	c := &Clock{}
	heap.Init(&c.queue)
	c.recompute()
	return c
}

// Stamp returns the current cycle stamp.
func (c *Clock) Stamp() int64 { return c.stamp }

// Countdown returns the current countdown value. Hot CPU loops read this and
// lower it via Decrement rather than calling into the scheduler every cycle.
func (c *Clock) Countdown() int64 { return c.countdown }

// Target returns the cycle stamp of the next due event, or Stamp+Countdown
// if the queue is empty (no event pending).
func (c *Clock) Target() int64 { return c.target }

// Decrement subtracts n from the countdown and advances Stamp by n, keeping
// Stamp = Target - Countdown. The precondition that n does not exceed the
// current countdown value is the caller's responsibility (spec.md §4.1):
// violating it moves Stamp past Target, and the due event does not fire
// until the next PopDue.
func (c *Clock) Decrement(n int64) {
	c.countdown -= n
	c.stamp += n
}

// recompute restores Stamp = Target - Countdown by deriving Target from the
// queue head (or leaving it at Stamp+Countdown if the queue is empty) and
// keeping Countdown fixed; called after any schedule/cancel/fire.
func (c *Clock) recompute() {
	if len(c.queue) > 0 {
		c.target = c.queue[0].When
	} else {
		c.target = c.stamp + c.countdown
	}
	c.countdown = c.target - c.stamp
}

// Schedule adds ev to the queue at the given absolute cycle stamp. Scheduling
// an already-scheduled event first cancels it (last writer wins).
func (c *Clock) Schedule(ev *Event, when int64) {
	if ev.scheduled {
		c.Cancel(ev)
	}
	ev.When = when
	ev.scheduled = true
	heap.Push(&c.queue, ev)
	c.recompute()
}

// ScheduleRelative schedules ev to fire after delta cycles from the current
// stamp.
func (c *Clock) ScheduleRelative(ev *Event, delta int64) {
	c.Schedule(ev, c.stamp+delta)
}

// Cancel removes ev from the queue. A no-op if ev is not currently
// scheduled.
func (c *Clock) Cancel(ev *Event) {
	if !ev.scheduled {
		return
	}
	heap.Remove(&c.queue, ev.index)
	ev.scheduled = false
	ev.index = -1
	c.recompute()
}

// Peek returns the earliest scheduled event without removing it.
func (c *Clock) Peek() *Event {
	if len(c.queue) == 0 {
		return nil
	}
	return c.queue[0]
}

// PopDue fires (and removes) every event whose When is <= the current
// Stamp, in When order, then restores the Stamp/Target/Countdown invariant.
// Handlers may reschedule themselves or other events.
func (c *Clock) PopDue() {
	for len(c.queue) > 0 && c.queue[0].When <= c.stamp {
		ev := heap.Pop(&c.queue).(*Event)
		ev.scheduled = false
		ev.index = -1
		if ev.Handler != nil {
			ev.Handler(ev.Arg)
		}
	}
	c.recompute()
}

// Advance moves Stamp forward by n cycles (n must be positive) and restores
// the Stamp/Target/Countdown invariant. This is for an owning CPU loop that
// drives its own instruction-level countdown (see sh4.CPU.RunTimeslice)
// rather than relying on RunTimeslice's standalone event-only advance.
func (c *Clock) Advance(n int64) {
	if n <= 0 {
		return
	}
	c.stamp += n
	c.recompute()
}

// Halt requests that RunTimeslice return early, e.g. because the owning CPU
// hit SLEEP/STANDBY or the harness is shutting down.
func (c *Clock) Halt() { c.halt = true }

// Resume clears a previous Halt request.
func (c *Clock) Resume() { c.halt = false }

// RunTimeslice advances the clock by up to Timeslice scheduler-cycles,
// dispatching due events as it goes, and returns the number of cycles
// actually advanced. It returns early if Halt was called.
func (c *Clock) RunTimeslice() int64 {
	limit := c.stamp + Timeslice
	advanced := int64(0)
	for c.stamp < limit && !c.halt {
		c.PopDue()

		var step int64
		if head := c.Peek(); head != nil {
			step = head.When - c.stamp
		} else {
			step = limit - c.stamp
		}
		if step <= 0 {
			step = 1
		}
		if c.stamp+step > limit {
			step = limit - c.stamp
		}
		c.stamp += step
		advanced += step
		c.recompute()
	}
	c.halt = false
	return advanced
}
