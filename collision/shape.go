package collision

import (
	"sync/atomic"

	"github.com/jakecoffman/cp"
)

type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	// ShapeRay is a segment that only separates; swept box tests never see it.
	ShapeRay
)

// Shape is a sub-shape of a collider, expressed relative to its owner's position.
type Shape struct {
	Kind ShapeKind
	// Offset is the top-left corner for boxes and the origin for rays.
	Offset cp.Vector
	// Size is the extent of a box.
	Size cp.Vector
	// Dir and Length describe a ray. Dir is normalized on use.
	Dir    cp.Vector
	Length float64
	// Disabled shapes are skipped by every query.
	Disabled bool
}

func Box(offsetX, offsetY, w, h float64) Shape {
	return Shape{Kind: ShapeBox, Offset: cp.Vector{X: offsetX, Y: offsetY}, Size: cp.Vector{X: w, Y: h}}
}

func Ray(offsetX, offsetY float64, dir cp.Vector, length float64) Shape {
	return Shape{Kind: ShapeRay, Offset: cp.Vector{X: offsetX, Y: offsetY}, Dir: dir, Length: length}
}

// Object identifies anything a query can report as a collider.
type Object interface {
	ColliderID() uint64
}

// Collider is a moving or static participant in motion queries.
type Collider interface {
	Object
	Position() cp.Vector
	Shapes() []Shape
	CollisionLayer() uint32
	CollisionMask() uint32
}

// ShapeLookup is implemented by colliders that can resolve a shape index to its shape.
type ShapeLookup interface {
	ShapeAt(index int) (Shape, bool)
}

// VelocityProvider is implemented by colliders that move on their own.
type VelocityProvider interface {
	LinearVelocity() cp.Vector
}

var nextObjectID atomic.Uint64

// NewObjectID returns a process-unique collider id. Zero is never returned.
func NewObjectID() uint64 {
	return nextObjectID.Add(1)
}
