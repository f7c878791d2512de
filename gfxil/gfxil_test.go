package gfxil_test

import (
	"testing"

	"github.com/washgo/washcore/gfxil"
	"github.com/washgo/washcore/internal/assert"
)

func TestNullBackendTracksObjectStorage(t *testing.T) {
	nb := gfxil.NewNullBackend()
	assert.Success(t, nb.Consume(gfxil.Inst{Cmd: gfxil.CmdInitObj, ObjID: 1, Data: make([]byte, 4)}))
	assert.Success(t, nb.Consume(gfxil.Inst{Cmd: gfxil.CmdWriteObj, ObjID: 1, Data: []byte{1, 2, 3, 4}}))
	buf, ok := nb.Object(1)
	if !ok {
		t.Fatalf("expected object 1 to exist")
	}
	assert.Equate(t, buf, []byte{1, 2, 3, 4})

	assert.Success(t, nb.Consume(gfxil.Inst{Cmd: gfxil.CmdFreeObj, ObjID: 1}))
	_, ok = nb.Object(1)
	if ok {
		t.Fatalf("expected object 1 to be freed")
	}
}

func TestNullBackendRejectsWriteToUnallocated(t *testing.T) {
	nb := gfxil.NewNullBackend()
	err := nb.Consume(gfxil.Inst{Cmd: gfxil.CmdWriteObj, ObjID: 99})
	if err == nil {
		t.Fatalf("expected an error writing to an unallocated object")
	}
}

func TestNullBackendRejectsDrawOutsideRenderPass(t *testing.T) {
	nb := gfxil.NewNullBackend()
	err := nb.Consume(gfxil.Inst{Cmd: gfxil.CmdDrawArray})
	if err == nil {
		t.Fatalf("expected DRAW_ARRAY outside BEGIN_REND/END_REND to error")
	}
}

func TestNullBackendRecordsDrawsWithinRenderPass(t *testing.T) {
	nb := gfxil.NewNullBackend()
	assert.Success(t, nb.Consume(gfxil.Inst{Cmd: gfxil.CmdBeginRend}))
	assert.Success(t, nb.Consume(gfxil.Inst{Cmd: gfxil.CmdDrawArray, Vertices: make([]gfxil.Vertex, 3)}))
	assert.Success(t, nb.Consume(gfxil.Inst{Cmd: gfxil.CmdEndRend}))
	assert.Equate(t, len(nb.Draws), 1)
	assert.Equate(t, len(nb.Draws[0].Vertices), 3)
}

func TestQueuePushPop(t *testing.T) {
	q := gfxil.NewQueue(2)
	q.Push(gfxil.Inst{Cmd: gfxil.CmdClear})
	q.Push(gfxil.Inst{Cmd: gfxil.CmdBeginRend})
	assert.Equate(t, q.Len(), 2)
	first := q.Pop()
	assert.Equate(t, first.Cmd, gfxil.CmdClear)
}

func TestQueueTryPushFailsWhenFull(t *testing.T) {
	q := gfxil.NewQueue(1)
	if !q.TryPush(gfxil.Inst{Cmd: gfxil.CmdClear}) {
		t.Fatalf("expected first TryPush to succeed")
	}
	if q.TryPush(gfxil.Inst{Cmd: gfxil.CmdClear}) {
		t.Fatalf("expected second TryPush on a full queue of capacity 1 to fail")
	}
}
