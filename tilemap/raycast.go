package tilemap

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/common"
)

// RayHit is the first solid surface along a ray.
type RayHit struct {
	Distance float64
	Point    cp.Vector
	Normal   cp.Vector
	Tile     int
	Cell     int
}

// CastRay walks the cells under the segment origin+dir*[0,length] and
// returns the first full tile face or slope line it enters. One-way lines
// are only hit from their front side.
func (m *Map) CastRay(origin, dir cp.Vector, length float64) (RayHit, bool) {
	d := common.Normalize(dir)
	if m == nil || length <= 0 || common.NearZero(d) || !finite(origin.X, origin.Y, length) {
		return RayHit{}, false
	}
	ts := m.tileSize
	cx, cy := m.CellAt(origin)

	stepX, tMaxX, tDeltaX := rayAxis(origin.X, d.X, cx, ts)
	stepY, tMaxY, tDeltaY := rayAxis(origin.Y, d.Y, cy, ts)

	t := 0.0
	enter := d.Neg()
	for t <= length {
		exit := math.Min(math.Min(tMaxX, tMaxY), length)
		tile := m.Tile(cx, cy)
		switch {
		case tile == TileEmpty || tile < 0:
		case m.isFull(tile):
			return m.rayHit(origin, d, t, enter, tile, cx, cy), true
		case m.isSlope(tile):
			if hit, ok := m.raySlope(origin, d, t, exit, enter, tile, cx, cy); ok {
				return hit, true
			}
		}

		if tMaxX < tMaxY {
			t = tMaxX
			tMaxX += tDeltaX
			cx += stepX
			enter = cp.Vector{X: -float64(stepX)}
		} else {
			t = tMaxY
			tMaxY += tDeltaY
			cy += stepY
			enter = cp.Vector{Y: -float64(stepY)}
		}
		if math.IsInf(t, 1) {
			break
		}
	}
	return RayHit{}, false
}

func (m *Map) rayHit(origin, d cp.Vector, t float64, normal cp.Vector, tile, cx, cy int) RayHit {
	return RayHit{
		Distance: t,
		Point:    origin.Add(d.Mult(t)),
		Normal:   normal,
		Tile:     tile,
		Cell:     m.CellIndex(cx, cy),
	}
}

// raySlope intersects the ray span [t0, t1] inside cell (cx, cy) with the
// tile's line.
func (m *Map) raySlope(origin, d cp.Vector, t0, t1 float64, enter cp.Vector, tile, cx, cy int) (RayHit, bool) {
	def, ok := m.catalog.Lookup(tile)
	if !ok {
		return RayHit{}, false
	}
	ts := m.tileSize
	lx := (float64(cx) + def.X1) * ts
	ly := (float64(cy) + def.Y1) * ts
	lvx := (def.X2 - def.X1) * ts
	lvy := (def.Y2 - def.Y1) * ts
	length := math.Hypot(lvx, lvy)
	if length <= common.Epsilon {
		return RayHit{}, false
	}

	// positive when the point is behind the line
	behind := func(t float64) float64 {
		p := origin.Add(d.Mult(t))
		return lvx*(p.Y-ly) - lvy*(p.X-lx)
	}
	f0 := behind(t0)
	f1 := behind(t1)
	if f0 > 0 {
		if def.Solid {
			return m.rayHit(origin, d, t0, enter, tile, cx, cy), true
		}
		return RayHit{}, false
	}
	if f1 <= 0 {
		return RayHit{}, false
	}
	t := t0 + (t1-t0)*f0/(f0-f1)
	normal := cp.Vector{X: lvy / length, Y: -lvx / length}
	return m.rayHit(origin, d, t, normal, tile, cx, cy), true
}

// rayAxis sets up the DDA stepping values for one axis.
func rayAxis(o, d float64, cell int, ts float64) (step int, tMax, tDelta float64) {
	switch {
	case d > 0:
		return 1, (float64(cell+1)*ts - o) / d, ts / d
	case d < 0:
		return -1, (float64(cell)*ts - o) / d, -ts / d
	}
	return 0, math.Inf(1), math.Inf(1)
}
