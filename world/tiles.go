package world

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
	"github.com/milk9111/tileslide/tilemap"
)

// TileBackend answers motion queries against a tile map. Box sub-shapes are
// swept with Map.Trace and ray sub-shapes are separated with Map.CastRay.
type TileBackend struct {
	m *tilemap.Map
}

func NewTileBackend(m *tilemap.Map) *TileBackend {
	return &TileBackend{m: m}
}

func (t *TileBackend) Map() *tilemap.Map {
	if t == nil {
		return nil
	}
	return t.m
}

// SetMap swaps the map, e.g. after a hot reload.
func (t *TileBackend) SetMap(m *tilemap.Map) {
	if t == nil {
		return
	}
	t.m = m
}

func (t *TileBackend) sees(mover collision.Collider) bool {
	return t != nil && t.m != nil && mover != nil && collision.Interacts(mover.CollisionMask(), t.m.Layer())
}

// TestMotion traces every enabled box shape of the mover and reports the
// contact with the shortest travel.
func (t *TileBackend) TestMotion(p collision.MotionParams) (collision.Record, bool) {
	if !t.sees(p.Mover) || common.NearZero(p.Motion) {
		return collision.Record{}, false
	}

	var (
		best    collision.Record
		bestLen float64
		found   bool
	)
	for i, s := range p.Mover.Shapes() {
		if s.Disabled || s.Kind != collision.ShapeBox {
			continue
		}
		origin := p.Transform.Add(s.Offset)
		res := t.m.Trace(origin.X, origin.Y, p.Motion.X, p.Motion.Y, s.Size.X, s.Size.Y)
		if !res.Collided() {
			continue
		}
		l := res.Travel.LengthSq()
		if found && l >= bestLen {
			continue
		}
		found = true
		bestLen = l
		best = collision.Record{
			Position:      contactPoint(origin.Add(res.Travel), s.Size, res.Normal),
			Normal:        res.Normal,
			Collider:      t.m,
			ColliderShape: res.Cell,
			Travel:        res.Travel,
			Remainder:     res.Remainder,
			LocalShape:    i,
			Slope:         res.Slope,
			Tile:          t.m.TileAtIndex(res.Cell),
		}
	}
	return best, found
}

// TestRaySeparation casts each enabled ray shape of the mover into the map.
// A ray whose tip is inside a solid surface reports the depth of the tip and
// a recovery that pulls the body back along the ray.
func (t *TileBackend) TestRaySeparation(p collision.MotionParams, out []collision.SeparationResult) int {
	if !t.sees(p.Mover) {
		return 0
	}
	n := 0
	for i, s := range p.Mover.Shapes() {
		if n >= len(out) {
			break
		}
		if s.Disabled || s.Kind != collision.ShapeRay || s.Length <= 0 {
			continue
		}
		dir := common.Normalize(s.Dir)
		origin := p.Transform.Add(s.Offset)
		hit, ok := t.m.CastRay(origin, dir, s.Length)
		if !ok {
			continue
		}
		depth := s.Length - hit.Distance
		if depth <= 0 {
			continue
		}
		out[n] = collision.SeparationResult{
			Depth:         depth,
			Point:         hit.Point,
			Normal:        hit.Normal,
			Collider:      t.m,
			ColliderShape: hit.Cell,
			LocalShape:    i,
			Recover:       dir.Mult(-depth),
		}
		n++
	}
	return n
}

// contactPoint is the middle of the box face (or corner) facing away from
// normal, for a box whose top-left corner is at pos.
func contactPoint(pos, size, normal cp.Vector) cp.Vector {
	half := size.Mult(0.5)
	center := pos.Add(half)
	return cp.Vector{
		X: center.X - common.Sign(normal.X)*half.X,
		Y: center.Y - common.Sign(normal.Y)*half.Y,
	}
}
