package collision

import "github.com/jakecoffman/cp"

// MaxRaySeparations bounds how many ray hits a separation query reports.
const MaxRaySeparations = 8

// MotionParams describes one swept query.
type MotionParams struct {
	Mover     Collider
	Transform cp.Vector
	Motion    cp.Vector
	// InfiniteInertia makes the mover ignore pushable bodies. Backends without
	// dynamic bodies accept and ignore it.
	InfiniteInertia      bool
	Margin               float64
	ExcludeRaycastShapes bool
}

// MotionQuery sweeps a collider through the world. When it reports no
// collision the whole motion is safe; otherwise rec.Travel is the safe prefix
// and rec.Remainder the rest, with Travel+Remainder equal to the motion.
type MotionQuery interface {
	TestMotion(p MotionParams) (rec Record, collided bool)
}

// SeparationResult is one ray sub-shape that currently overlaps the world.
type SeparationResult struct {
	Depth            float64
	Point            cp.Vector
	Normal           cp.Vector
	Collider         Object
	ColliderShape    int
	ColliderVelocity cp.Vector
	LocalShape       int
	// Recover is the translation that pulls this ray out of the overlap.
	Recover cp.Vector
}

// RaySeparator is implemented by worlds that can resolve ray-shaped sub-shapes.
// It fills out with at most len(out) results and returns the count.
type RaySeparator interface {
	TestRaySeparation(p MotionParams, out []SeparationResult) int
}

// Deepest returns the index of the deepest result, or -1 when results is empty.
func Deepest(results []SeparationResult) int {
	deepest := -1
	for i := range results {
		if deepest == -1 || results[i].Depth > results[deepest].Depth {
			deepest = i
		}
	}
	return deepest
}
