package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/body"
	"github.com/milk9111/tileslide/ecs"
	"github.com/milk9111/tileslide/ecs/component"
)

// KinematicSystem applies gravity to every KinematicBody, moves it with
// MoveAndSlideWithSnap and copies the result into its Transform. Changes in
// floor, wall and ceiling contact are pushed to the world's event queue.
type KinematicSystem struct {
	delta float64
}

func NewKinematicSystem(delta float64) *KinematicSystem {
	if delta <= 0 {
		delta = body.DefaultStepDelta
	}
	return &KinematicSystem{delta: delta}
}

func (ks *KinematicSystem) Update(w *ecs.World) {
	if ks == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.KinematicBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, kb *component.KinematicBody, t *component.Transform) {
		b := kb.Body
		if b == nil {
			return
		}
		b.SetStepDelta(ks.delta)

		wasOnFloor := b.IsOnFloor()
		wasOnWall := b.IsOnWall()
		wasOnCeiling := b.IsOnCeiling()

		kb.Velocity.Y += kb.Gravity * ks.delta

		snap := kb.Snap
		if kb.Jumping {
			snap.X, snap.Y = 0, 0
		}
		kb.Velocity = b.MoveAndSlideWithSnap(kb.Velocity, snap, kb.Up, kb.StopOnSlope, kb.MaxSlides, kb.FloorMaxAngle, kb.InfiniteInertia)
		if b.IsOnFloor() {
			kb.Jumping = false
		}

		pos := b.Position()
		t.X, t.Y = pos.X, pos.Y

		events := w.Events()
		switch {
		case b.IsOnFloor() && !wasOnFloor:
			events.Push(ecs.ContactEvent{Entity: e, Kind: ecs.ContactLanded, Normal: b.FloorNormal(), Collider: b.FloorBody()})
		case !b.IsOnFloor() && wasOnFloor:
			events.Push(ecs.ContactEvent{Entity: e, Kind: ecs.ContactLeftFloor})
		}
		if b.IsOnWall() && !wasOnWall {
			events.Push(ecs.ContactEvent{Entity: e, Kind: ecs.ContactHitWall, Normal: slideNormal(b, func(n cp.Vector) float64 { return -math.Abs(n.Dot(kb.Up)) })})
		}
		if b.IsOnCeiling() && !wasOnCeiling {
			events.Push(ecs.ContactEvent{Entity: e, Kind: ecs.ContactHitCeiling, Normal: slideNormal(b, func(n cp.Vector) float64 { return -n.Dot(kb.Up) })})
		}
	})
}

// slideNormal returns the normal of this step's slide collision that scores
// highest under score.
func slideNormal(b *body.Body, score func(cp.Vector) float64) cp.Vector {
	var (
		best  cp.Vector
		bestS = math.Inf(-1)
	)
	for i := 0; i < b.SlideCount(); i++ {
		h := b.SlideCollision(i)
		if h == nil {
			continue
		}
		if s := score(h.Normal()); s > bestS {
			best, bestS = h.Normal(), s
		}
	}
	return best
}
