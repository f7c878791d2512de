package pvr2

import (
	"testing"

	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/gfxil"
	"github.com/washgo/washcore/sh4"
)

func buildSubmittedList(cache *Cache, key uint32, groups ...PolyGroup) {
	list := cache.Open(key)
	for _, pg := range groups {
		list.Groups[pg] = Group{
			State:    Submitted,
			Vertices: []gfxil.Vertex{{X: float32(pg)}, {X: 2}, {X: 3}}, // first X tags the group
		}
	}
}

func TestStartRenderEmitsGroupsInFixedOrder(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	queue := gfxil.NewQueue(64)
	sys := NewSystem(clk, intc, queue)

	buildSubmittedList(sys.Cache, 0x1000, GroupPunchThrough, GroupOpaque, GroupTranslucent)

	if err := sys.StartRender(0x1000); err != nil {
		t.Fatalf("StartRender: %v", err)
	}

	var drawOrder []PolyGroup
	for queue.Len() > 0 {
		inst := queue.Pop()
		if inst.Cmd == gfxil.CmdDrawArray {
			drawOrder = append(drawOrder, PolyGroup(inst.Vertices[0].X))
		}
	}
	if len(drawOrder) != 3 {
		t.Fatalf("got %d draws, want 3", len(drawOrder))
	}
	want := []PolyGroup{GroupOpaque, GroupTranslucent, GroupPunchThrough}
	for i := range want {
		if drawOrder[i] != want[i] {
			t.Fatalf("got draw order %v, want %v", drawOrder, want)
		}
	}
}

func TestStartRenderSchedulesCompletionInterrupt(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	queue := gfxil.NewQueue(64)
	sys := NewSystem(clk, intc, queue)

	buildSubmittedList(sys.Cache, 0x2000, GroupOpaque)
	if err := sys.StartRender(0x2000); err != nil {
		t.Fatalf("StartRender: %v", err)
	}

	if _, ok := intc.Pending(0, false); ok {
		t.Fatalf("expected no interrupt pending before the completion event fires")
	}

	clk.Advance(renderLatency)
	clk.PopDue()

	if _, ok := intc.Pending(0, false); !ok {
		t.Fatalf("expected PVR2 render-done interrupt pending after completion latency elapsed")
	}
}

func TestStartRenderSkipsUnsubmittedGroups(t *testing.T) {
	clk := clock.New()
	intc := sh4.NewInterruptController()
	queue := gfxil.NewQueue(64)
	sys := NewSystem(clk, intc, queue)

	sys.Cache.Open(0x3000) // every group left NotOpened
	if err := sys.StartRender(0x3000); err != nil {
		t.Fatalf("StartRender: %v", err)
	}

	draws := 0
	for queue.Len() > 0 {
		if queue.Pop().Cmd == gfxil.CmdDrawArray {
			draws++
		}
	}
	if draws != 0 {
		t.Fatalf("got %d draws for an empty list, want 0", draws)
	}
}
