package gfxil

import "github.com/washgo/washcore/coreerr"

// NullBackend is a reference GFX-IL consumer that performs no rasterisation
// but faithfully tracks object storage (texture/render-target allocations)
// and records every DRAW_ARRAY it receives, in arrival order, in one flat
// log (Draws). It exists for tests and for a headless CLI mode that runs the
// guest without a real graphics backend (spec.md §1 scopes the actual
// rasteriser out of the core).
type NullBackend struct {
	objects map[int][]byte
	boundTex int
	inRend   bool
	Draws    []Inst // every DRAW_ARRAY seen since the last Clear of the log
}

// NewNullBackend returns an empty NullBackend.
func NewNullBackend() *NullBackend {
	return &NullBackend{objects: make(map[int][]byte)}
}

// Consume applies one GFX-IL instruction's effect on object storage and
// render-pass bookkeeping, and errors on protocol violations (a command
// arriving out of the order the producer is required to maintain).
func (n *NullBackend) Consume(i Inst) error {
	switch i.Cmd {
	case CmdInitObj:
		n.objects[i.ObjID] = make([]byte, len(i.Data))
	case CmdWriteObj:
		buf, ok := n.objects[i.ObjID]
		if !ok {
			return coreerr.Protocolf("gfxil", "WRITE_OBJ to unallocated object %d", i.ObjID)
		}
		copy(buf, i.Data)
	case CmdReadObj:
		if _, ok := n.objects[i.ObjID]; !ok {
			return coreerr.Protocolf("gfxil", "READ_OBJ from unallocated object %d", i.ObjID)
		}
	case CmdFreeObj:
		delete(n.objects, i.ObjID)
	case CmdBindTex:
		n.boundTex = i.ObjID
	case CmdUnbindTex:
		n.boundTex = 0
	case CmdBeginRend:
		n.inRend = true
	case CmdEndRend:
		n.inRend = false
	case CmdDrawArray:
		if !n.inRend {
			return coreerr.Protocolf("gfxil", "DRAW_ARRAY outside BEGIN_REND/END_REND")
		}
		n.Draws = append(n.Draws, i)
	}
	return nil
}

// Object returns the backing bytes for an allocated object, for tests.
func (n *NullBackend) Object(id int) ([]byte, bool) {
	b, ok := n.objects[id]
	return b, ok
}

// ClearDraws resets the recorded draw log, keeping object storage intact.
func (n *NullBackend) ClearDraws() { n.Draws = nil }
