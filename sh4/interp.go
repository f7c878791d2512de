package sh4

import "github.com/washgo/washcore/clock"

// interp.go drives the reference interpreter's timeslice loop: it plays the
// role spec.md §4.1 assigns to "the owning CPU" in run_timeslice's contract,
// interleaving instruction execution with the clock's due-event dispatch
// rather than delegating to Clock.RunTimeslice's standalone advance (which
// exists for headless/peripheral-only testing, see clock_test.go).

// RunTimeslice executes instructions until SCHED_FREQUENCY/400 scheduler
// cycles have elapsed, or the CPU enters Sleep/Standby, or Step returns an
// error (stored and returned to the caller, who typically logs and halts).
// Returns the number of scheduler cycles actually advanced.
func (c *CPU) RunTimeslice() (int64, error) {
	limit := c.Clk.Stamp() + clock.Timeslice
	var advanced int64

	for c.Clk.Stamp() < limit {
		c.Clk.PopDue()
		if c.Clk.Stamp() >= limit {
			break
		}
		if c.State != StateNorm {
			break
		}

		cycles, err := c.Step()
		if err != nil {
			return advanced, err
		}

		delta := int64(cycles) * clock.SH4ClockScale
		if delta <= 0 {
			delta = clock.SH4ClockScale
		}
		if c.Clk.Stamp()+delta > limit {
			delta = limit - c.Clk.Stamp()
		}
		c.Clk.Advance(delta)
		advanced += delta
	}

	c.Clk.PopDue()
	return advanced, nil
}
