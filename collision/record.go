package collision

import "github.com/jakecoffman/cp"

// Slope describes the tile line a trace slid along.
type Slope struct {
	// X, Y is the raw line vector (end minus start) in world units.
	X, Y float64
	// NX, NY is the unit normal pointing out of the solid side.
	NX, NY float64
}

// Record is the result of one motion query. It is a value type and is never
// retained by the query that produced it.
type Record struct {
	Position         cp.Vector
	Normal           cp.Vector
	Collider         Object
	ColliderShape    int
	ColliderVelocity cp.Vector
	Travel           cp.Vector
	Remainder        cp.Vector
	LocalShape       int
	Slope            *Slope
	// Tile is the tile value that stopped the motion, when the collider is a tile map.
	Tile int
}

// Reset clears r back to its zero value.
func (r *Record) Reset() {
	*r = Record{}
}

// Motion returns the motion vector the record was produced for.
func (r Record) Motion() cp.Vector {
	return r.Travel.Add(r.Remainder)
}
