package world

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
	"github.com/solarlune/resolv"
)

const (
	propTag   = "prop"
	probeTag  = "probe"
	touchSlop = 1e-9
)

// Prop is an axis-aligned solid rectangle such as a crate or a door.
type Prop struct {
	id       uint64
	obj      *resolv.Object
	layer    uint32
	velocity cp.Vector
}

func (p *Prop) ColliderID() uint64 {
	if p == nil {
		return 0
	}
	return p.id
}

func (p *Prop) Layer() uint32 { return p.layer }

func (p *Prop) SetLayer(layer uint32) {
	if p == nil {
		return
	}
	p.layer = layer
}

// Rect returns the prop's top-left corner and size.
func (p *Prop) Rect() (pos, size cp.Vector) {
	return cp.Vector{X: p.obj.X, Y: p.obj.Y}, cp.Vector{X: p.obj.W, Y: p.obj.H}
}

// SetVelocity sets the surface velocity riders inherit, e.g. for a conveyor.
func (p *Prop) SetVelocity(v cp.Vector) {
	if p == nil {
		return
	}
	p.velocity = v
}

func (p *Prop) LinearVelocity() cp.Vector {
	if p == nil {
		return cp.Vector{}
	}
	return p.velocity
}

func (p *Prop) ShapeAt(index int) (collision.Shape, bool) {
	if p == nil || index != 0 {
		return collision.Shape{}, false
	}
	return collision.Box(p.obj.X, p.obj.Y, p.obj.W, p.obj.H), true
}

// PropSpace holds props in a resolv space. resolv's cell lookup is the broad
// phase; the exact contact is an AABB sweep over the candidates it returns.
type PropSpace struct {
	space *resolv.Space
	props []*Prop
	probe *resolv.Object
}

// NewPropSpace creates a space of width x height pixels bucketed into cells.
func NewPropSpace(width, height, cellSize int) *PropSpace {
	if cellSize <= 0 {
		cellSize = common.TileSize
	}
	return &PropSpace{
		space: resolv.NewSpace(width, height, cellSize, cellSize),
		probe: resolv.NewObject(0, 0, 1, 1, probeTag),
	}
}

// Add places a solid w*h prop with its top-left corner at (x, y).
func (s *PropSpace) Add(x, y, w, h float64) *Prop {
	obj := resolv.NewObject(x, y, w, h, propTag)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	prop := &Prop{
		id:    collision.NewObjectID(),
		obj:   obj,
		layer: collision.DefaultLayer,
	}
	obj.Data = prop
	s.space.Add(obj)
	s.props = append(s.props, prop)
	return prop
}

func (s *PropSpace) Remove(p *Prop) bool {
	if s == nil || p == nil {
		return false
	}
	for i, other := range s.props {
		if other == p {
			s.space.Remove(p.obj)
			s.props = append(s.props[:i], s.props[i+1:]...)
			return true
		}
	}
	return false
}

// Move teleports a prop.
func (s *PropSpace) Move(p *Prop, x, y float64) {
	if p == nil {
		return
	}
	p.obj.X = x
	p.obj.Y = y
	p.obj.Update()
}

func (s *PropSpace) Props() []*Prop {
	if s == nil {
		return nil
	}
	return s.props
}

// candidates returns the props whose cells touch the rectangle.
func (s *PropSpace) candidates(x, y, w, h float64) []*Prop {
	s.probe.X = x
	s.probe.Y = y
	s.probe.W = math.Max(w, 1)
	s.probe.H = math.Max(h, 1)
	s.space.Add(s.probe)
	defer s.space.Remove(s.probe)

	check := s.probe.Check(0, 0, propTag)
	if check == nil {
		return nil
	}
	objs := check.ObjectsByTags(propTag)
	out := make([]*Prop, 0, len(objs))
	for _, obj := range objs {
		if p, ok := obj.Data.(*Prop); ok {
			out = append(out, p)
		}
	}
	return out
}

// TestMotion sweeps each enabled box shape of the mover against the props.
func (s *PropSpace) TestMotion(p collision.MotionParams) (collision.Record, bool) {
	if s == nil || p.Mover == nil || len(s.props) == 0 || common.NearZero(p.Motion) {
		return collision.Record{}, false
	}
	mask := p.Mover.CollisionMask()

	var (
		best  collision.Record
		bestT = math.Inf(1)
	)
	for i, shape := range p.Mover.Shapes() {
		if shape.Disabled || shape.Kind != collision.ShapeBox {
			continue
		}
		origin := p.Transform.Add(shape.Offset)
		end := origin.Add(p.Motion)
		minX, minY := math.Min(origin.X, end.X), math.Min(origin.Y, end.Y)
		for _, prop := range s.candidates(minX, minY, shape.Size.X+math.Abs(p.Motion.X), shape.Size.Y+math.Abs(p.Motion.Y)) {
			if !collision.Interacts(mask, prop.layer) {
				continue
			}
			pos, size := prop.Rect()
			t, normal, ok := sweepAABB(origin, shape.Size, p.Motion, pos, size)
			if !ok || t >= bestT {
				continue
			}
			bestT = t
			travel := p.Motion.Mult(t)
			best = collision.Record{
				Position:         contactPoint(origin.Add(travel), shape.Size, normal),
				Normal:           normal,
				Collider:         prop,
				ColliderVelocity: prop.velocity,
				Travel:           travel,
				Remainder:        p.Motion.Sub(travel),
				LocalShape:       i,
			}
		}
	}
	return best, !math.IsInf(bestT, 1)
}

// TestRaySeparation reports ray shapes whose tips are inside a prop.
func (s *PropSpace) TestRaySeparation(p collision.MotionParams, out []collision.SeparationResult) int {
	if s == nil || p.Mover == nil || len(s.props) == 0 {
		return 0
	}
	mask := p.Mover.CollisionMask()
	n := 0
	for i, shape := range p.Mover.Shapes() {
		if n >= len(out) {
			break
		}
		if shape.Disabled || shape.Kind != collision.ShapeRay || shape.Length <= 0 {
			continue
		}
		dir := common.Normalize(shape.Dir)
		origin := p.Transform.Add(shape.Offset)
		ray := dir.Mult(shape.Length)
		end := origin.Add(ray)

		bestT := math.Inf(1)
		var hit collision.SeparationResult
		for _, prop := range s.candidates(math.Min(origin.X, end.X), math.Min(origin.Y, end.Y), math.Abs(ray.X), math.Abs(ray.Y)) {
			if !collision.Interacts(mask, prop.layer) {
				continue
			}
			pos, size := prop.Rect()
			t, normal, ok := sweepAABB(origin, cp.Vector{}, ray, pos, size)
			if !ok || t >= bestT {
				continue
			}
			bestT = t
			depth := shape.Length * (1 - t)
			hit = collision.SeparationResult{
				Depth:            depth,
				Point:            origin.Add(ray.Mult(t)),
				Normal:           normal,
				Collider:         prop,
				ColliderVelocity: prop.velocity,
				LocalShape:       i,
				Recover:          dir.Mult(-depth),
			}
		}
		if !math.IsInf(bestT, 1) && hit.Depth > 0 {
			out[n] = hit
			n++
		}
	}
	return n
}

// sweepAABB returns the fraction of motion at which a box at pos with the
// given size first touches the box (bpos, bsize), and the normal of the face
// it touches. Boxes that already overlap do not block.
func sweepAABB(pos, size, motion, bpos, bsize cp.Vector) (float64, cp.Vector, bool) {
	// Minkowski sum: sweep the point pos against the grown box.
	minX, maxX := bpos.X-size.X, bpos.X+bsize.X
	minY, maxY := bpos.Y-size.Y, bpos.Y+bsize.Y

	txEntry, txExit, okX := slab(pos.X, motion.X, minX, maxX)
	tyEntry, tyExit, okY := slab(pos.Y, motion.Y, minY, maxY)
	if !okX || !okY {
		return 0, cp.Vector{}, false
	}
	entry := math.Max(txEntry, tyEntry)
	exit := math.Min(txExit, tyExit)
	if entry > exit || entry > 1 || exit <= 0 || entry < -touchSlop {
		return 0, cp.Vector{}, false
	}

	var normal cp.Vector
	if txEntry > tyEntry {
		normal.X = -common.Sign(motion.X)
	} else {
		normal.Y = -common.Sign(motion.Y)
	}
	return math.Max(entry, 0), normal, true
}

// slab returns the entry and exit fractions of p+d*t across the open
// interval (lo, hi).
func slab(p, d, lo, hi float64) (float64, float64, bool) {
	if d == 0 {
		if p > lo && p < hi {
			return math.Inf(-1), math.Inf(1), true
		}
		return 0, 0, false
	}
	t0 := (lo - p) / d
	t1 := (hi - p) / d
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}
