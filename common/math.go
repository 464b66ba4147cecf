package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// TileSize is the default cell size in pixels for maps that do not specify one.
	TileSize = 32

	// FloorAngleThreshold is the slack added to a floor angle comparison.
	FloorAngleThreshold = 0.01

	// Epsilon is the tolerance used to treat a length or denominator as zero.
	Epsilon = 1e-9

	// CMPEpsilon is the tolerance used when comparing positions.
	CMPEpsilon = 1e-5
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// NearZero reports whether v is shorter than Epsilon.
func NearZero(v cp.Vector) bool {
	return v.LengthSq() <= Epsilon*Epsilon
}

// Normalize returns v scaled to unit length, or the zero vector when v is degenerate.
func Normalize(v cp.Vector) cp.Vector {
	l := v.Length()
	if l <= Epsilon {
		return cp.Vector{}
	}
	return v.Mult(1 / l)
}

// Slide removes the component of v along the unit normal n.
func Slide(v, n cp.Vector) cp.Vector {
	return v.Sub(n.Mult(v.Dot(n)))
}

// AngleBetween returns the angle in radians between two unit vectors.
func AngleBetween(a, b cp.Vector) float64 {
	d := a.Dot(b)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d)
}

func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
