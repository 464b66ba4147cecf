package body

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
)

// Kind selects a body's behavior. Only kinematic bodies resolve motion.
type Kind uint8

const (
	KindStatic Kind = iota
	KindKinematic
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindKinematic:
		return "kinematic"
	}
	return "unknown"
}

const (
	DefaultSafeMargin = 0.08
	DefaultStepDelta  = 1.0 / 60.0
)

// Body is a collider with a position and a set of sub-shapes. Static bodies
// may carry a constant velocity that riders inherit; kinematic bodies move
// through a MotionQuery with the slide resolver.
type Body struct {
	id     uint64
	kind   Kind
	pos    cp.Vector
	shapes []collision.Shape
	layer  uint32
	mask   uint32

	constantVelocity cp.Vector
	linearVelocity   cp.Vector

	query     collision.MotionQuery
	margin    float64
	stepDelta float64

	onFloor       bool
	onCeiling     bool
	onWall        bool
	floorNormal   cp.Vector
	floorVelocity cp.Vector
	floorBody     collision.Object

	colliders    []collision.Record
	handles      []*collision.Handle
	motionHandle *collision.Handle
	separations  [collision.MaxRaySeparations]collision.SeparationResult
}

// New creates a body of the given kind at pos. The body starts on the
// default layer and sees the default layer.
func New(kind Kind, pos cp.Vector, shapes ...collision.Shape) *Body {
	return &Body{
		id:        collision.NewObjectID(),
		kind:      kind,
		pos:       pos,
		shapes:    append([]collision.Shape(nil), shapes...),
		layer:     collision.DefaultLayer,
		mask:      collision.DefaultLayer,
		margin:    DefaultSafeMargin,
		stepDelta: DefaultStepDelta,
	}
}

// NewStatic is New(KindStatic, ...).
func NewStatic(pos cp.Vector, shapes ...collision.Shape) *Body {
	return New(KindStatic, pos, shapes...)
}

// NewKinematic creates a kinematic body that moves through query.
func NewKinematic(pos cp.Vector, query collision.MotionQuery, shapes ...collision.Shape) *Body {
	b := New(KindKinematic, pos, shapes...)
	b.query = query
	return b
}

func (b *Body) ColliderID() uint64 {
	if b == nil {
		return 0
	}
	return b.id
}

func (b *Body) Kind() Kind                { return b.kind }
func (b *Body) Position() cp.Vector       { return b.pos }
func (b *Body) Shapes() []collision.Shape { return b.shapes }
func (b *Body) CollisionLayer() uint32    { return b.layer }
func (b *Body) CollisionMask() uint32     { return b.mask }
func (b *Body) SafeMargin() float64       { return b.margin }
func (b *Body) StepDelta() float64        { return b.stepDelta }

func (b *Body) SetPosition(p cp.Vector) {
	if b == nil {
		return
	}
	b.pos = p
}

// Translate moves the body without collision checks.
func (b *Body) Translate(d cp.Vector) {
	if b == nil {
		return
	}
	b.pos = b.pos.Add(d)
}

func (b *Body) SetShapes(shapes ...collision.Shape) {
	if b == nil {
		return
	}
	b.shapes = append(b.shapes[:0], shapes...)
}

func (b *Body) AddShape(s collision.Shape) int {
	b.shapes = append(b.shapes, s)
	return len(b.shapes) - 1
}

func (b *Body) SetCollisionLayer(layer uint32) {
	if b == nil {
		return
	}
	b.layer = layer
}

func (b *Body) SetCollisionMask(mask uint32) {
	if b == nil {
		return
	}
	b.mask = mask
}

func (b *Body) SetQuery(q collision.MotionQuery) {
	if b == nil {
		return
	}
	b.query = q
}

// SetSafeMargin sets the skin margin passed to motion queries. Negative
// values are clamped to zero.
func (b *Body) SetSafeMargin(margin float64) {
	if b == nil {
		return
	}
	if margin < 0 {
		margin = 0
	}
	b.margin = margin
}

// SetStepDelta sets the time step MoveAndSlide scales velocity by.
func (b *Body) SetStepDelta(delta float64) {
	if b == nil || delta <= 0 {
		return
	}
	b.stepDelta = delta
}

// SetConstantVelocity sets the velocity a static body reports to riders
// without moving it.
func (b *Body) SetConstantVelocity(v cp.Vector) {
	if b == nil {
		return
	}
	b.constantVelocity = v
}

func (b *Body) ConstantVelocity() cp.Vector { return b.constantVelocity }

// SetLinearVelocity records the velocity a kinematic body reports to riders.
// MoveAndSlide overwrites it with its result.
func (b *Body) SetLinearVelocity(v cp.Vector) {
	if b == nil {
		return
	}
	b.linearVelocity = v
}

// LinearVelocity is the velocity riders inherit from this body.
func (b *Body) LinearVelocity() cp.Vector {
	if b == nil {
		return cp.Vector{}
	}
	if b.kind == KindStatic {
		return b.constantVelocity
	}
	return b.linearVelocity
}

// ShapeAt returns sub-shape index translated into world coordinates.
func (b *Body) ShapeAt(index int) (collision.Shape, bool) {
	if b == nil || index < 0 || index >= len(b.shapes) {
		return collision.Shape{}, false
	}
	s := b.shapes[index]
	s.Offset = s.Offset.Add(b.pos)
	return s, true
}

// Bounds returns the world-space box covering every enabled box shape.
func (b *Body) Bounds() (lo, hi cp.Vector, ok bool) {
	if b == nil {
		return
	}
	for _, s := range b.shapes {
		if s.Disabled || s.Kind != collision.ShapeBox {
			continue
		}
		min0 := b.pos.Add(s.Offset)
		max0 := min0.Add(s.Size)
		if !ok {
			lo, hi, ok = min0, max0, true
			continue
		}
		lo = cp.Vector{X: min(lo.X, min0.X), Y: min(lo.Y, min0.Y)}
		hi = cp.Vector{X: max(hi.X, max0.X), Y: max(hi.Y, max0.Y)}
	}
	return
}

// Release returns the body's cached collision handles to the shared pool.
// Handles obtained from the body before the call must not be used after it.
func (b *Body) Release() {
	if b == nil {
		return
	}
	for i, h := range b.handles {
		collision.HandlePool.Put(h)
		b.handles[i] = nil
	}
	b.handles = b.handles[:0]
	if b.motionHandle != nil {
		collision.HandlePool.Put(b.motionHandle)
		b.motionHandle = nil
	}
	b.colliders = b.colliders[:0]
	b.floorBody = nil
}
