// Package threadcheck is a debugging aid for the two-thread ownership model
// described by the core: the emulation thread (CPU, scheduler, memory map,
// interrupt controller, MMU, PVR2 TA, Maple) and the graphics thread (the
// GFX-IL consumer). It records which goroutine first touched a guarded value
// and flags a second goroutine touching it, the way the teacher repository's
// assert.GetGoRoutineID helper is used ad-hoc around the VCS's single-thread
// assumptions.
package threadcheck

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
)

// GoroutineID returns an identifier that is distinct between goroutines and
// stable for the lifetime of a given goroutine. Intended for debugging and
// testing only.
func GoroutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// Owner records the goroutine expected to exclusively access a resource.
type Owner struct {
	id atomic.Uint64
}

// Bind claims ownership for the calling goroutine. Call once, from the
// goroutine that will own the resource (e.g. at emulation-thread startup).
func (o *Owner) Bind() {
	o.id.Store(GoroutineID())
}

// Check panics if the calling goroutine is not the bound owner. A no-op if
// Bind was never called, so it is safe to sprinkle into code paths exercised
// by tests that don't run the real multi-threaded harness.
func (o *Owner) Check() {
	want := o.id.Load()
	if want == 0 {
		return
	}
	if got := GoroutineID(); got != want {
		panic(fmt.Sprintf("threadcheck: accessed from goroutine %d, owned by %d", got, want))
	}
}
