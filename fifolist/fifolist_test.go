package fifolist_test

import (
	"testing"

	"github.com/washgo/washcore/fifolist"
	"github.com/washgo/washcore/internal/assert"
)

func TestPushPop(t *testing.T) {
	l := fifolist.New[int](3)
	assert.Equate(t, l.Empty(), true)

	_, ok := l.PushBack(1)
	assert.Equate(t, ok, false)
	l.PushBack(2)
	l.PushBack(3)
	assert.Equate(t, l.Full(), true)

	evicted, ok := l.PushBack(4)
	assert.Equate(t, ok, true)
	assert.Equate(t, evicted, 1)

	v, ok := l.PopFront()
	assert.Equate(t, ok, true)
	assert.Equate(t, v, 2)

	v, ok = l.PopFront()
	assert.Equate(t, v, 3)
	v, ok = l.PopFront()
	assert.Equate(t, v, 4)

	_, ok = l.PopFront()
	assert.Equate(t, ok, false)
}

func TestEachOrder(t *testing.T) {
	l := fifolist.New[string](4)
	l.PushBack("a")
	l.PushBack("b")
	l.PushBack("c")

	var got []string
	l.Each(func(i int, v string) bool {
		got = append(got, v)
		return true
	})
	assert.Equate(t, got, []string{"a", "b", "c"})
}

func TestClear(t *testing.T) {
	l := fifolist.New[int](2)
	l.PushBack(1)
	l.Clear()
	assert.Equate(t, l.Empty(), true)
	assert.Equate(t, l.Cap(), 2)
}
