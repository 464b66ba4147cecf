package world

import (
	"github.com/milk9111/tileslide/collision"
)

// World merges several backends into one MotionQuery. A motion query
// reports the contact with the shortest travel across all backends; ray
// separation collects hits from every backend that supports it.
type World struct {
	backends []collision.MotionQuery
}

func New(backends ...collision.MotionQuery) *World {
	w := &World{}
	for _, b := range backends {
		w.Add(b)
	}
	return w
}

// Add appends a backend. Nil backends are ignored.
func (w *World) Add(b collision.MotionQuery) {
	if w == nil || b == nil {
		return
	}
	w.backends = append(w.backends, b)
}

func (w *World) Backends() []collision.MotionQuery {
	if w == nil {
		return nil
	}
	return w.backends
}

func (w *World) TestMotion(p collision.MotionParams) (collision.Record, bool) {
	if w == nil {
		return collision.Record{}, false
	}
	var (
		best    collision.Record
		bestLen float64
		found   bool
	)
	for _, b := range w.backends {
		rec, ok := b.TestMotion(p)
		if !ok {
			continue
		}
		l := rec.Travel.LengthSq()
		if found && l >= bestLen {
			continue
		}
		best, bestLen, found = rec, l, true
	}
	return best, found
}

// TestRaySeparation fills out with hits from every backend, up to len(out).
func (w *World) TestRaySeparation(p collision.MotionParams, out []collision.SeparationResult) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, b := range w.backends {
		if n >= len(out) {
			break
		}
		sep, ok := b.(collision.RaySeparator)
		if !ok {
			continue
		}
		n += min(sep.TestRaySeparation(p, out[n:]), len(out)-n)
	}
	return n
}
