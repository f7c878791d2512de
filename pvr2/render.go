package pvr2

import (
	"github.com/washgo/washcore/clock"
	"github.com/washgo/washcore/gfxil"
	"github.com/washgo/washcore/sh4"
)

// System owns the tile-accelerator front end, the display-list cache, and
// the STARTRENDER replay path that turns a cached list into GFX-IL for the
// graphics thread, per spec.md §4.8.
type System struct {
	TA    *TA
	Cache *Cache
	Queue *gfxil.Queue

	clk  *clock.Clock
	intc *sh4.InterruptController

	renderDone  clock.Event
	listDone    [groupCount]clock.Event
	FrameWidth  int
	FrameHeight int
}

// NewSystem wires a PVR2 system against the given clock (for scheduling
// completion interrupts) and interrupt controller (for raising them),
// queuing GFX-IL into queue.
func NewSystem(clk *clock.Clock, intc *sh4.InterruptController, queue *gfxil.Queue) *System {
	s := &System{
		Queue:       queue,
		clk:         clk,
		intc:        intc,
		FrameWidth:  640,
		FrameHeight: 480,
	}
	s.renderDone.Handler = s.onRenderDone
	for i := range s.listDone {
		pg := PolyGroup(i)
		s.listDone[i].Handler = func(arg interface{}) { s.onListDone(pg) }
	}
	s.Reset()
	return s
}

// Reset recreates the display-list cache and TA front end, as a SOFTRESET
// register write does on real hardware, and rewires the TA's EndOfList
// callback onto the fresh instance.
func (s *System) Reset() {
	s.Cache = NewCache()
	s.TA = NewTA(s.Cache)
	s.TA.onEndOfList = s.onListSubmitted
}

// renderLatency is the scheduler-cycle delay STARTRENDER's completion
// interrupt fires after, per spec.md §4.8 (render completion timing is
// approximated, not cycle-accurate to real PVR2 tile sort/fill timing).
const renderLatency = 200_000

// listLatency is the per-list EndOfList completion interrupt delay.
const listLatency = 2_000

// StartRender replays the display list whose key matches REGION_BASE, per
// spec.md §4.8 (REGION_BASE, not TA_VERTBUF_POS, is the STARTRENDER lookup
// key, since TA_VERTBUF_POS may already have advanced to the next frame's
// list by the time STARTRENDER fires in pipelined rendering), emitting
// GFX-IL in the fixed group order ReplayOrder, and schedules the
// whole-render completion interrupt on the owning clock. Per-list
// completion interrupts are scheduled separately, at TA ingest's EndOfList
// time (see TA.onEndOfList / System.onListSubmitted) rather than here.
func (s *System) StartRender(regionBase uint32) error {
	list, ok := s.Cache.Lookup(regionBase)
	if !ok {
		list = s.Cache.Open(regionBase)
	}

	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdBindRenderTarget, TargetW: s.FrameWidth, TargetH: s.FrameHeight})
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdClear, ClearColor: [4]float32{0, 0, 0, 1}})
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdBeginRend})

	for _, pg := range ReplayOrder {
		g := &list.Groups[pg]
		if g.State != Submitted || (len(g.Vertices) == 0 && len(g.Quads) == 0) {
			continue
		}
		s.replayGroup(g)
	}

	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdEndRend})
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdGrabFramebuffer})
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdPostFramebuffer})
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdUnbindRenderTarget})

	s.clk.ScheduleRelative(&s.renderDone, renderLatency)
	return nil
}

func (s *System) replayGroup(g *Group) {
	if g.Header.TextureEnable {
		s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdBindTex, ObjID: int(g.Header.TextureAddr)})
	}
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdSetClipRange, Clip: g.Clip})
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdSetRendParam, Param: gfxil.RendParam{
		SrcBlend:    g.Header.SrcBlend,
		DstBlend:    g.Header.DstBlend,
		DepthFunc:   g.Header.DepthFunc,
		PaletteBase: g.Header.PaletteBase,
		PixelFormat: g.Header.PixelFormat,
	}})
	verts := g.Vertices
	if len(g.Quads) > 0 {
		verts = quadsToVertices(g.Quads)
	}
	s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdDrawArray, Vertices: verts})
	if g.Header.TextureEnable {
		s.Queue.Push(gfxil.Inst{Cmd: gfxil.CmdUnbindTex})
	}
}

// quadsToVertices tessellates packed Quad commands into the triangle pairs
// DRAW_ARRAY expects, per spec.md §4.8's Quad command.
func quadsToVertices(quads []Quad) []gfxil.Vertex {
	verts := make([]gfxil.Vertex, 0, len(quads)*6)
	order := [6]int{0, 1, 2, 2, 1, 3}
	for _, q := range quads {
		for _, i := range order {
			verts = append(verts, gfxil.Vertex{
				X: q.Pos[i][0], Y: q.Pos[i][1], Z: q.Pos[i][2],
				U: q.UV[i][0], V: q.UV[i][1],
			})
		}
	}
	return verts
}

func (s *System) onRenderDone(arg interface{}) {
	s.intc.Raise(sh4.IRQPVR2)
}

func (s *System) onListDone(pg PolyGroup) {
	// Real hardware raises a distinct OPAQUE/TRANS/PT-complete interrupt per
	// list; this model routes all of them onto the same PVR2 line since
	// spec.md does not require the guest to distinguish which list
	// finished, only that it is told rendering progressed.
	s.intc.Raise(sh4.IRQPVR2)
}

// onListSubmitted is TA.onEndOfList: it schedules pg's completion interrupt
// at TA ingest time, independent of when (or whether) STARTRENDER later
// replays the list, per spec.md §4.8's Completion interrupts rationale.
func (s *System) onListSubmitted(pg PolyGroup) {
	s.clk.ScheduleRelative(&s.listDone[pg], listLatency)
}
