package collision

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObject struct{ id uint64 }

func (o testObject) ColliderID() uint64 { return o.id }

func TestPoolReusesAndResets(t *testing.T) {
	p := NewPool[Handle](2)
	h := p.Get()
	h.Set(testObject{id: 7}, Record{Normal: cp.Vector{Y: -1}, Tile: 3})
	p.Put(h)
	require.Equal(t, 1, p.Len())

	again := p.Get()
	assert.Same(t, h, again)
	assert.Nil(t, again.Owner())
	assert.Equal(t, Record{}, again.Record())
	assert.Equal(t, 0, p.Len())
}

func TestPoolIsBounded(t *testing.T) {
	p := NewPool[Handle](2)
	for i := 0; i < 5; i++ {
		p.Put(&Handle{})
	}
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 2, p.Cap())

	var nilPool *Pool[Handle, *Handle]
	assert.NotNil(t, nilPool.Get())
	nilPool.Put(&Handle{})
}

func TestDefaultCapacity(t *testing.T) {
	p := NewPool[Handle](0)
	assert.Equal(t, DefaultPoolCapacity, p.Cap())
}

type shapedObject struct {
	testObject
	shapes []Shape
}

func (s shapedObject) ShapeAt(i int) (Shape, bool) {
	if i < 0 || i >= len(s.shapes) {
		return Shape{}, false
	}
	return s.shapes[i], true
}

func TestHandleColliderShape(t *testing.T) {
	collider := shapedObject{testObject: testObject{id: 1}, shapes: []Shape{Box(0, 0, 4, 4), Box(4, 0, 2, 2)}}

	var h Handle
	h.Set(testObject{id: 2}, Record{Collider: collider, ColliderShape: 1})
	shape, ok := h.ColliderShape()
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 2, Y: 2}, shape.Size)

	h.Set(testObject{id: 2}, Record{Collider: testObject{id: 3}})
	_, ok = h.ColliderShape()
	assert.False(t, ok)
}

func TestRecordMotion(t *testing.T) {
	r := Record{Travel: cp.Vector{X: 1, Y: 2}, Remainder: cp.Vector{X: 3, Y: -1}}
	assert.Equal(t, cp.Vector{X: 4, Y: 1}, r.Motion())
}

func TestLayers(t *testing.T) {
	mask := SetBit(0, 3, true)
	assert.True(t, HasBit(mask, 3))
	assert.False(t, HasBit(mask, 2))
	assert.Equal(t, uint32(0), SetBit(mask, 3, false))
	assert.Equal(t, uint32(0), LayerBit(32))
	assert.True(t, Interacts(mask, LayerBit(3)))
	assert.False(t, Interacts(mask, DefaultLayer))
}

func TestDeepest(t *testing.T) {
	assert.Equal(t, -1, Deepest(nil))
	assert.Equal(t, 1, Deepest([]SeparationResult{{Depth: 1}, {Depth: 3}, {Depth: 2}}))
}
