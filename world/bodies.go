package world

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/body"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
)

const (
	bisectIterations = 12
	minSweepStep     = 1.0
)

type bodyEntry struct {
	body   *body.Body
	cpBody *cp.Body
	shapes []*cp.Shape
}

type shapeRef struct {
	entry *bodyEntry
	index int
}

// BodySpace indexes static and kinematic bodies in a Chipmunk space so movers
// can collide with them and with each other. Bodies are not simulated; a
// moved body must be passed to Sync.
type BodySpace struct {
	space   *cp.Space
	probe   *cp.Body
	entries map[uint64]*bodyEntry
}

func NewBodySpace() *BodySpace {
	return &BodySpace{
		space:   cp.NewSpace(),
		probe:   cp.NewKinematicBody(),
		entries: make(map[uint64]*bodyEntry),
	}
}

// Add registers b. Adding a registered body re-syncs it.
func (s *BodySpace) Add(b *body.Body) {
	if s == nil || b == nil {
		return
	}
	if e, ok := s.entries[b.ColliderID()]; ok {
		s.detach(e)
		s.attach(e)
		return
	}
	e := &bodyEntry{body: b, cpBody: cp.NewKinematicBody()}
	s.entries[b.ColliderID()] = e
	s.attach(e)
}

func (s *BodySpace) Remove(b *body.Body) bool {
	if s == nil || b == nil {
		return false
	}
	e, ok := s.entries[b.ColliderID()]
	if !ok {
		return false
	}
	s.detach(e)
	delete(s.entries, b.ColliderID())
	return true
}

// Sync moves b's shapes to its current position, layer and shape list.
func (s *BodySpace) Sync(b *body.Body) {
	if s == nil || b == nil {
		return
	}
	e, ok := s.entries[b.ColliderID()]
	if !ok {
		log.Printf("BodySpace: sync of unregistered body %d", b.ColliderID())
		return
	}
	s.detach(e)
	s.attach(e)
}

func (s *BodySpace) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *BodySpace) Contains(b *body.Body) bool {
	if s == nil || b == nil {
		return false
	}
	_, ok := s.entries[b.ColliderID()]
	return ok
}

func (s *BodySpace) attach(e *bodyEntry) {
	e.cpBody.SetPosition(e.body.Position())
	filter := cp.ShapeFilter{
		Group:      uint(e.body.ColliderID()),
		Categories: uint(e.body.CollisionLayer()),
		Mask:       cp.ALL_CATEGORIES,
	}
	for i, sh := range e.body.Shapes() {
		if sh.Disabled || sh.Kind != collision.ShapeBox {
			continue
		}
		shape := cp.NewBox2(e.cpBody, boxBB(sh), 0)
		shape.SetFilter(filter)
		shape.UserData = shapeRef{entry: e, index: i}
		s.space.AddShape(shape)
		e.shapes = append(e.shapes, shape)
	}
}

func (s *BodySpace) detach(e *bodyEntry) {
	for _, shape := range e.shapes {
		s.space.RemoveShape(shape)
	}
	e.shapes = e.shapes[:0]
}

func boxBB(sh collision.Shape) cp.BB {
	return cp.BB{
		L: sh.Offset.X,
		B: sh.Offset.Y,
		R: sh.Offset.X + sh.Size.X,
		T: sh.Offset.Y + sh.Size.Y,
	}
}

type probeShape struct {
	shape *cp.Shape
	local int
}

type bodyContact struct {
	ref    shapeRef
	local  int
	point  cp.Vector
	normal cp.Vector
	depth  float64
}

// TestMotion samples the motion at steps no longer than half the mover's
// smallest box and bisects the first blocked step. Shapes are inflated by the
// margin, so the mover stops that far short of what it hits. Contacts the
// motion does not push into are ignored, which lets a body slide along a
// surface it rests on.
func (s *BodySpace) TestMotion(p collision.MotionParams) (collision.Record, bool) {
	if s == nil || p.Mover == nil || len(s.entries) == 0 || common.NearZero(p.Motion) {
		return collision.Record{}, false
	}
	probes, extent := s.probeShapes(p)
	if len(probes) == 0 {
		return collision.Record{}, false
	}

	step := math.Max(extent/2, minSweepStep)
	n := int(math.Ceil(p.Motion.Length() / step))
	if n < 1 {
		n = 1
	}

	hit, blocked := s.blockedAt(p, probes, 0)
	lo, hi := 0.0, 0.0
	for i := 1; i <= n && !blocked; i++ {
		t := float64(i) / float64(n)
		if hit, blocked = s.blockedAt(p, probes, t); blocked {
			lo, hi = float64(i-1)/float64(n), t
		}
	}
	if !blocked {
		return collision.Record{}, false
	}
	for i := 0; i < bisectIterations && hi-lo > common.Epsilon; i++ {
		mid := (lo + hi) / 2
		if c, ok := s.blockedAt(p, probes, mid); ok {
			hi, hit = mid, c
		} else {
			lo = mid
		}
	}

	travel := p.Motion.Mult(lo)
	other := hit.ref.entry.body
	return collision.Record{
		Position:         hit.point,
		Normal:           hit.normal,
		Collider:         other,
		ColliderShape:    hit.ref.index,
		ColliderVelocity: other.LinearVelocity(),
		Travel:           travel,
		Remainder:        p.Motion.Sub(travel),
		LocalShape:       hit.local,
	}, true
}

func (s *BodySpace) probeShapes(p collision.MotionParams) ([]probeShape, float64) {
	filter := cp.ShapeFilter{
		Group:      uint(p.Mover.ColliderID()),
		Categories: cp.ALL_CATEGORIES,
		Mask:       uint(p.Mover.CollisionMask()),
	}
	var (
		probes []probeShape
		extent = math.Inf(1)
	)
	for i, sh := range p.Mover.Shapes() {
		if sh.Disabled || sh.Kind != collision.ShapeBox {
			continue
		}
		shape := cp.NewBox2(s.probe, boxBB(sh), p.Margin)
		shape.SetFilter(filter)
		probes = append(probes, probeShape{shape: shape, local: i})
		extent = math.Min(extent, math.Min(sh.Size.X, sh.Size.Y))
	}
	return probes, extent
}

// blockedAt places the probe at fraction t of the motion and returns the
// deepest contact the motion pushes into.
func (s *BodySpace) blockedAt(p collision.MotionParams, probes []probeShape, t float64) (bodyContact, bool) {
	s.probe.SetPosition(p.Transform.Add(p.Motion.Mult(t)))
	var (
		best  bodyContact
		found bool
	)
	for _, probe := range probes {
		s.space.ShapeQuery(probe.shape, func(other *cp.Shape, set *cp.ContactPointSet) {
			ref, ok := other.UserData.(shapeRef)
			if !ok || set.Count == 0 {
				return
			}
			// set.Normal points from the probe into the other shape.
			if set.Normal.Dot(p.Motion) <= 0 {
				return
			}
			depth := 0.0
			point := set.Points[0].PointB
			for i := 0; i < set.Count; i++ {
				if d := -set.Points[i].Distance; d > depth {
					depth = d
					point = set.Points[i].PointB
				}
			}
			if found && depth <= best.depth {
				return
			}
			found = true
			best = bodyContact{
				ref:    ref,
				local:  probe.local,
				point:  point,
				normal: common.Normalize(set.Normal.Neg()),
				depth:  depth,
			}
		})
	}
	return best, found
}

// TestRaySeparation casts each enabled ray shape of the mover against the
// registered bodies.
func (s *BodySpace) TestRaySeparation(p collision.MotionParams, out []collision.SeparationResult) int {
	if s == nil || p.Mover == nil || len(s.entries) == 0 {
		return 0
	}
	filter := cp.ShapeFilter{
		Group:      uint(p.Mover.ColliderID()),
		Categories: cp.ALL_CATEGORIES,
		Mask:       uint(p.Mover.CollisionMask()),
	}
	n := 0
	for i, sh := range p.Mover.Shapes() {
		if n >= len(out) {
			break
		}
		if sh.Disabled || sh.Kind != collision.ShapeRay || sh.Length <= 0 {
			continue
		}
		dir := common.Normalize(sh.Dir)
		start := p.Transform.Add(sh.Offset)
		end := start.Add(dir.Mult(sh.Length))
		info := s.space.SegmentQueryFirst(start, end, 0, filter)
		if info.Shape == nil {
			continue
		}
		ref, ok := info.Shape.UserData.(shapeRef)
		if !ok {
			continue
		}
		depth := sh.Length * (1 - info.Alpha)
		if depth <= 0 {
			continue
		}
		out[n] = collision.SeparationResult{
			Depth:            depth,
			Point:            info.Point,
			Normal:           info.Normal,
			Collider:         ref.entry.body,
			ColliderShape:    ref.index,
			ColliderVelocity: ref.entry.body.LinearVelocity(),
			LocalShape:       i,
			Recover:          dir.Mult(-depth),
		}
		n++
	}
	return n
}

// Draw renders the indexed shapes with a Chipmunk debug drawer.
func (s *BodySpace) Draw(drawer cp.Drawer) {
	if s == nil || drawer == nil {
		return
	}
	cp.DrawSpace(s.space, drawer)
}
