package collision

import "github.com/jakecoffman/cp"

// Handle is the caller-facing view of one collision: the body that moved plus
// the record it produced. Handles are reused; a handle is only valid until the
// owner's next move call.
type Handle struct {
	owner  Object
	record Record
}

// HandlePool is the shared free-list for handles.
var HandlePool = NewPool[Handle](DefaultPoolCapacity)

// Set points h at a new owner and record.
func (h *Handle) Set(owner Object, rec Record) {
	h.owner = owner
	h.record = rec
}

func (h *Handle) Reset() {
	h.owner = nil
	h.record.Reset()
}

func (h *Handle) Owner() Object           { return h.owner }
func (h *Handle) Record() Record          { return h.record }
func (h *Handle) Position() cp.Vector     { return h.record.Position }
func (h *Handle) Normal() cp.Vector       { return h.record.Normal }
func (h *Handle) Travel() cp.Vector       { return h.record.Travel }
func (h *Handle) Remainder() cp.Vector    { return h.record.Remainder }
func (h *Handle) Collider() Object        { return h.record.Collider }
func (h *Handle) ColliderShapeIndex() int { return h.record.ColliderShape }
func (h *Handle) LocalShape() int         { return h.record.LocalShape }
func (h *Handle) ColliderVelocity() cp.Vector {
	return h.record.ColliderVelocity
}

// ColliderShape resolves the collider's shape through ShapeLookup.
func (h *Handle) ColliderShape() (Shape, bool) {
	if h == nil || h.record.Collider == nil {
		return Shape{}, false
	}
	lookup, ok := h.record.Collider.(ShapeLookup)
	if !ok {
		return Shape{}, false
	}
	return lookup.ShapeAt(h.record.ColliderShape)
}

// LocalShapeOf resolves the owner's shape that collided.
func (h *Handle) LocalShapeOf() (Shape, bool) {
	if h == nil || h.owner == nil {
		return Shape{}, false
	}
	c, ok := h.owner.(Collider)
	if !ok {
		return Shape{}, false
	}
	shapes := c.Shapes()
	if h.record.LocalShape < 0 || h.record.LocalShape >= len(shapes) {
		return Shape{}, false
	}
	return shapes[h.record.LocalShape], true
}
