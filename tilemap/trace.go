package tilemap

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
)

// onewayTolerance is how far, in pixels, a box may already sit behind a
// one-way line and still be caught by it.
const onewayTolerance = 0.5

// lineTolerance is the distance behind a line, in pixels, that still counts
// as on it.
const lineTolerance = 1e-7

// TraceResult is the outcome of sweeping a box through the grid.
type TraceResult struct {
	// Pos is the top-left corner after the sweep, including any slope slide.
	Pos        cp.Vector
	CollisionX bool
	CollisionY bool
	Slope      *collision.Slope
	// TileX and TileY hold the tile values that stopped each axis.
	TileX int
	TileY int
	// Cell is the linear index of the cell that produced the last contact.
	Cell int
	// Travel is the safe part of the motion and Remainder the rest.
	Travel    cp.Vector
	Remainder cp.Vector
	// Normal faces away from the contact; zero when nothing was hit.
	Normal cp.Vector

	contact cp.Vector
	first   axis
}

type axis uint8

const (
	axisNone axis = iota
	axisX
	axisY
)

// Collided reports whether any axis or slope stopped the sweep.
func (r TraceResult) Collided() bool {
	return r.CollisionX || r.CollisionY || r.Slope != nil
}

// Trace sweeps a w*h box whose top-left corner is at (x, y) by (vx, vy).
// The motion is split into sub-steps shorter than one tile so no tile
// boundary is skipped.
func (m *Map) Trace(x, y, vx, vy, w, h float64) TraceResult {
	origin := cp.Vector{X: x, Y: y}
	motion := cp.Vector{X: vx, Y: vy}
	res := TraceResult{Pos: origin, Cell: -1}
	if m == nil || (vx == 0 && vy == 0) || !finite(x, y, vx, vy, w, h) {
		if m == nil {
			res.Pos = origin.Add(motion)
			res.Travel = motion
		}
		return res
	}

	steps := int(math.Ceil((math.Max(math.Abs(vx), math.Abs(vy)) + 0.1) / m.tileSize))
	if steps < 1 {
		steps = 1
	}
	sx := vx / float64(steps)
	sy := vy / float64(steps)
	rvx, rvy := vx, vy
	for i := 0; i < steps && (sx != 0 || sy != 0); i++ {
		m.traceStep(&res, x, y, sx, sy, w, h, rvx, rvy, i)
		x, y = res.Pos.X, res.Pos.Y
		if res.Slope != nil {
			break
		}
		rvx -= sx
		rvy -= sy
		if res.CollisionX {
			sx, rvx = 0, 0
		}
		if res.CollisionY {
			sy, rvy = 0, 0
		}
	}

	switch {
	case res.Slope != nil:
		res.Travel = res.contact.Sub(origin)
		res.Normal = cp.Vector{X: res.Slope.NX, Y: res.Slope.NY}
	case res.CollisionX || res.CollisionY:
		// When both axes stop, the normal belongs to the one that stopped
		// first; the remainder still carries the other axis.
		res.Travel = res.Pos.Sub(origin)
		if res.first == axisY {
			res.Normal.Y = -common.Sign(vy)
		} else {
			res.Normal.X = -common.Sign(vx)
		}
	default:
		res.Pos = origin.Add(motion)
		res.Travel = motion
	}
	res.Normal = common.Normalize(res.Normal)
	res.Remainder = motion.Sub(res.Travel)
	return res
}

// traceStep moves the box by (vx, vy), resolving the horizontal axis first and
// then the vertical axis from the updated position. rvx and rvy are the
// remaining motion used for slope tests.
func (m *Map) traceStep(res *TraceResult, x, y, vx, vy, w, h, rvx, rvy float64, step int) {
	res.Pos.X += vx
	res.Pos.Y += vy
	ts := m.tileSize

	// A diagonal mover resting flush on a full tile keeps its y, so a slope
	// ahead cannot drag the box into the floor it stands on.
	if vx != 0 && vy != 0 {
		if t, cell, ok := m.restingOn(x, y, vy, w, h); ok {
			res.setCollisionY(t, cell)
			res.Pos.Y = y
			vy, rvy = 0, 0
		}
	}

	if vx != 0 {
		pxOffsetX := 0.0
		if vx > 0 {
			pxOffsetX = w
		}
		tileOffsetX := 0.0
		if vx < 0 {
			tileOffsetX = ts
		}
		firstTileY := max(floorDiv(y, ts), 0)
		lastTileY := min(ceilDiv(y+h, ts), m.height)
		tileX := floorDiv(res.Pos.X+pxOffsetX, ts)

		// The tile the box rests against only matters on the first step, and
		// only for lines.
		prevTileX := floorDiv(x+pxOffsetX, ts)
		if step > 0 || tileX == prevTileX || prevTileX < 0 || prevTileX >= m.width {
			prevTileX = -1
		}

		if tileX >= 0 && tileX < m.width {
			for tileY := firstTileY; tileY < lastTileY; tileY++ {
				if prevTileX != -1 {
					t := m.data[tileY][prevTileX]
					if m.isSlope(t) && m.checkTileDef(res, t, x, y, rvx, rvy, w, h, prevTileX, tileY) {
						res.Cell = m.CellIndex(prevTileX, tileY)
						if res.Slope == nil {
							res.setCollisionX(t, res.Cell)
							res.Pos.X = x
							rvx = 0
						}
						break
					}
				}
				t := m.data[tileY][tileX]
				if m.isFull(t) || (m.isSlope(t) && m.checkTileDef(res, t, x, y, rvx, rvy, w, h, tileX, tileY)) {
					res.Cell = m.CellIndex(tileX, tileY)
					if m.isSlope(t) && res.Slope != nil {
						break
					}
					res.setCollisionX(t, res.Cell)
					x = float64(tileX)*ts - pxOffsetX + tileOffsetX
					res.Pos.X = x
					rvx = 0
					break
				}
			}
		}
		if res.Slope != nil {
			return
		}
	}

	if vy != 0 {
		pxOffsetY := 0.0
		if vy > 0 {
			pxOffsetY = h
		}
		tileOffsetY := 0.0
		if vy < 0 {
			tileOffsetY = ts
		}
		firstTileX := max(floorDiv(res.Pos.X, ts), 0)
		lastTileX := min(ceilDiv(res.Pos.X+w, ts), m.width)
		tileY := floorDiv(res.Pos.Y+pxOffsetY, ts)

		prevTileY := floorDiv(y+pxOffsetY, ts)
		if step > 0 || tileY == prevTileY || prevTileY < 0 || prevTileY >= m.height {
			prevTileY = -1
		}

		if tileY >= 0 && tileY < m.height {
			for tileX := firstTileX; tileX < lastTileX; tileX++ {
				if prevTileY != -1 {
					t := m.data[prevTileY][tileX]
					if m.isSlope(t) && m.checkTileDef(res, t, x, y, rvx, rvy, w, h, tileX, prevTileY) {
						res.Cell = m.CellIndex(tileX, prevTileY)
						if res.Slope == nil {
							res.setCollisionY(t, res.Cell)
							res.Pos.Y = y
						}
						break
					}
				}
				t := m.data[tileY][tileX]
				if m.isFull(t) || (m.isSlope(t) && m.checkTileDef(res, t, x, y, rvx, rvy, w, h, tileX, tileY)) {
					res.Cell = m.CellIndex(tileX, tileY)
					if m.isSlope(t) && res.Slope != nil {
						break
					}
					res.setCollisionY(t, res.Cell)
					res.Pos.Y = float64(tileY)*ts - pxOffsetY + tileOffsetY
					break
				}
			}
		}
	}
}

// restingOn reports the full tile the box edge facing vy sits flush against,
// over the columns under [x, x+w).
func (m *Map) restingOn(x, y, vy, w, h float64) (int, int, bool) {
	ts := m.tileSize
	edge := y
	if vy > 0 {
		edge = y + h
	}
	row := math.Round(edge / ts)
	if math.Abs(edge-row*ts) > common.CMPEpsilon {
		return 0, 0, false
	}
	tileY := int(row)
	if vy < 0 {
		tileY--
	}
	if tileY < 0 || tileY >= m.height {
		return 0, 0, false
	}
	firstTileX := max(floorDiv(x, ts), 0)
	lastTileX := min(ceilDiv(x+w, ts), m.width)
	for tileX := firstTileX; tileX < lastTileX; tileX++ {
		if t := m.data[tileY][tileX]; m.isFull(t) {
			return t, m.CellIndex(tileX, tileY), true
		}
	}
	return 0, 0, false
}

func (r *TraceResult) setCollisionX(tile, cell int) {
	r.CollisionX = true
	r.TileX = tile
	r.Cell = cell
	if r.first == axisNone {
		r.first = axisX
	}
}

func (r *TraceResult) setCollisionY(tile, cell int) {
	r.CollisionY = true
	r.TileY = tile
	r.Cell = cell
	if r.first == axisNone {
		r.first = axisY
	}
}

// checkTileDef tests the box against the line of slope tile t at cell
// (tileX, tileY). It returns true for a hit; when the hit is a slide rather
// than a full stop, res.Slope, res.Pos and the contact point are filled in.
func (m *Map) checkTileDef(res *TraceResult, t int, x, y, vx, vy, w, h float64, tileX, tileY int) bool {
	def, ok := m.catalog.Lookup(t)
	if !ok {
		return false
	}
	ts := m.tileSize
	lx := (float64(tileX) + def.X1) * ts
	ly := (float64(tileY) + def.Y1) * ts
	lvx := (def.X2 - def.X1) * ts
	lvy := (def.Y2 - def.Y1) * ts

	// corner of the box nearest the line, relative to the line start
	tx := x + vx - lx
	if lvy < 0 {
		tx += w
	}
	ty := y + vy - ly
	if lvx > 0 {
		ty += h
	}

	length := math.Hypot(lvx, lvy)
	if length <= common.Epsilon {
		return false
	}
	// A corner riding exactly on the line is not behind it.
	if lvx*ty-lvy*tx <= lineTolerance*length {
		return false
	}
	// moving away from the line only collides with solid fill
	if vx*-lvy+vy*lvx < 0 {
		return def.Solid
	}
	nx := lvy / length
	ny := -lvx / length

	proj := tx*nx + ty*ny
	px := nx * proj
	py := ny * proj

	if px*px+py*py >= vx*vx+vy*vy {
		// Deeper than this motion: a full stop for solid tiles. One-way
		// lines only stop a box that started in front of them.
		return def.Solid || lvx*(ty-vy)-lvy*(tx-vx) < onewayTolerance
	}

	res.Pos = cp.Vector{X: x + vx - px, Y: y + vy - py}
	res.contact = slopeContact(x, y, vx, vy, nx, ny, math.Abs(proj))
	res.Slope = &collision.Slope{X: lvx, Y: lvy, NX: nx, NY: ny}
	return true
}

// slopeContact walks back along the direction of travel until the corner is
// on the line. Backing off along the travel direction instead of the normal
// keeps travel parallel to the motion.
func slopeContact(x, y, vx, vy, nx, ny, depth float64) cp.Vector {
	start := cp.Vector{X: x, Y: y}
	motion := cp.Vector{X: vx, Y: vy}
	dist := motion.Length()
	if dist <= common.Epsilon {
		return start
	}
	dir := motion.Mult(1 / dist)
	back := dist
	if cosA := math.Abs(dir.X*nx + dir.Y*ny); cosA > common.Epsilon {
		back = math.Min(depth/cosA, dist)
	}
	return start.Add(dir.Mult(dist - back))
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
