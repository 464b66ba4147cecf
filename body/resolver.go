package body

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
)

// stopOnSlopeTravel is the travel below which a body standing still on a
// slope is pinned in place.
const stopOnSlopeTravel = 1.0

// MoveAndCollide moves the body by motion, stopping at the first contact.
// The returned handle is reused by the next MoveAndCollide call on this body.
// With testOnly the body is not moved.
func (b *Body) MoveAndCollide(motion cp.Vector, infiniteInertia, excludeRaycastShapes, testOnly bool) (*collision.Handle, bool) {
	if b == nil {
		return nil, false
	}
	rec, ok := b.move(motion, infiniteInertia, excludeRaycastShapes, testOnly)
	if !ok {
		return nil, false
	}
	if b.motionHandle == nil {
		b.motionHandle = collision.HandlePool.Get()
	}
	b.motionHandle.Set(b, rec)
	return b.motionHandle, true
}

func (b *Body) move(motion cp.Vector, infiniteInertia, excludeRaycastShapes, testOnly bool) (collision.Record, bool) {
	if b.kind != KindKinematic || common.NearZero(motion) {
		return collision.Record{}, false
	}

	var (
		rec      collision.Record
		collided bool
	)
	if b.query != nil && len(b.shapes) > 0 {
		rec, collided = b.query.TestMotion(collision.MotionParams{
			Mover:                b,
			Transform:            b.pos,
			Motion:               motion,
			InfiniteInertia:      infiniteInertia,
			Margin:               b.margin,
			ExcludeRaycastShapes: excludeRaycastShapes,
		})
	}

	if !testOnly {
		if collided {
			b.pos = b.pos.Add(rec.Travel)
		} else {
			b.pos = b.pos.Add(motion)
		}
	}
	return rec, collided
}

// MoveAndSlide moves the body along velocity for one step, sliding along
// whatever it hits, and returns the velocity left after sliding. up selects
// which contacts count as floor and ceiling; a zero up makes every contact a
// wall. floorMaxAngle is in radians.
func (b *Body) MoveAndSlide(velocity, up cp.Vector, stopOnSlope bool, maxSlides int, floorMaxAngle float64, infiniteInertia bool) cp.Vector {
	if b == nil || b.kind != KindKinematic {
		return velocity
	}
	up = common.Normalize(up)

	bodyVelocity := velocity
	bodyVelocityNormal := common.Normalize(velocity)

	currentFloorVelocity := b.floorVelocity
	if b.onFloor && b.floorBody != nil {
		if vp, ok := b.floorBody.(collision.VelocityProvider); ok {
			currentFloorVelocity = vp.LinearVelocity()
		}
	}

	motion := currentFloorVelocity.Add(bodyVelocity).Mult(b.stepDelta)

	b.onFloor = false
	b.onCeiling = false
	b.onWall = false
	b.colliders = b.colliders[:0]
	b.floorNormal = cp.Vector{}
	b.floorVelocity = cp.Vector{}
	b.floorBody = nil

	noUp := common.NearZero(up)
	for ; maxSlides > 0; maxSlides-- {
		found := false
		for pass := 0; pass < 2; pass++ {
			var (
				rec      collision.Record
				collided bool
			)
			if pass == 0 {
				rec, collided = b.move(motion, infiniteInertia, true, false)
				if !collided {
					motion = cp.Vector{}
				}
			} else {
				rec, collided = b.SeparateRaycastShapes(infiniteInertia)
				if collided {
					rec.Remainder = motion
					rec.Travel = cp.Vector{}
				}
			}
			if !collided {
				continue
			}

			found = true
			b.colliders = append(b.colliders, rec)
			motion = rec.Remainder

			switch {
			case noUp:
				b.onWall = true
			case common.AngleBetween(rec.Normal, up) <= floorMaxAngle+common.FloorAngleThreshold:
				b.onFloor = true
				b.floorNormal = rec.Normal
				b.floorBody = rec.Collider
				b.floorVelocity = rec.ColliderVelocity

				if stopOnSlope && bodyVelocityNormal.Add(up).Length() < 0.01 && rec.Travel.Length() < stopOnSlopeTravel {
					b.pos = b.pos.Sub(common.Slide(rec.Travel, up))
					b.linearVelocity = cp.Vector{}
					return cp.Vector{}
				}
			case common.AngleBetween(rec.Normal, up.Neg()) <= floorMaxAngle+common.FloorAngleThreshold:
				b.onCeiling = true
			default:
				b.onWall = true
			}

			motion = common.Slide(motion, rec.Normal)
			bodyVelocity = common.Slide(bodyVelocity, rec.Normal)
		}

		if !found || common.NearZero(motion) {
			break
		}
	}

	b.linearVelocity = bodyVelocity
	return bodyVelocity
}

// MoveAndSlideWithSnap runs MoveAndSlide and then, if the body started on a
// floor, pulls it along snap so it stays attached when walking off a ledge
// or down a slope.
func (b *Body) MoveAndSlideWithSnap(velocity, snap, up cp.Vector, stopOnSlope bool, maxSlides int, floorMaxAngle float64, infiniteInertia bool) cp.Vector {
	if b == nil {
		return velocity
	}
	up = common.Normalize(up)
	wasOnFloor := b.onFloor
	ret := b.MoveAndSlide(velocity, up, stopOnSlope, maxSlides, floorMaxAngle, infiniteInertia)
	if !wasOnFloor || common.NearZero(snap) {
		return ret
	}

	rec, ok := b.move(snap, infiniteInertia, false, true)
	if !ok {
		return ret
	}
	if !common.NearZero(up) {
		if common.AngleBetween(rec.Normal, up) > floorMaxAngle+common.FloorAngleThreshold {
			return ret
		}
		b.onFloor = true
		b.floorNormal = rec.Normal
		b.floorBody = rec.Collider
		b.floorVelocity = rec.ColliderVelocity
		if stopOnSlope {
			rec.Travel = up.Mult(up.Dot(rec.Travel))
		}
	}
	b.pos = b.pos.Add(rec.Travel)
	return ret
}

// SeparateRaycastShapes pushes the body's ray shapes out of whatever they
// overlap. The recovery of the deepest hit is applied immediately and
// reported as the record's travel.
func (b *Body) SeparateRaycastShapes(infiniteInertia bool) (collision.Record, bool) {
	if b == nil || b.kind != KindKinematic || !b.hasRays() {
		return collision.Record{}, false
	}
	sep, ok := b.query.(collision.RaySeparator)
	if !ok {
		return collision.Record{}, false
	}

	results := b.separations[:]
	n := sep.TestRaySeparation(collision.MotionParams{
		Mover:           b,
		Transform:       b.pos,
		InfiniteInertia: infiniteInertia,
		Margin:          b.margin,
	}, results)
	if n > len(results) {
		n = len(results)
	}
	deepest := collision.Deepest(results[:n])
	if deepest == -1 {
		return collision.Record{}, false
	}

	hit := results[deepest]
	b.pos = b.pos.Add(hit.Recover)
	return collision.Record{
		Position:         hit.Point,
		Normal:           hit.Normal,
		Collider:         hit.Collider,
		ColliderShape:    hit.ColliderShape,
		ColliderVelocity: hit.ColliderVelocity,
		Travel:           hit.Recover,
		LocalShape:       hit.LocalShape,
	}, true
}

func (b *Body) hasRays() bool {
	for _, s := range b.shapes {
		if s.Kind == collision.ShapeRay && !s.Disabled {
			return true
		}
	}
	return false
}

func (b *Body) IsOnFloor() bool   { return b.onFloor }
func (b *Body) IsOnWall() bool    { return b.onWall }
func (b *Body) IsOnCeiling() bool { return b.onCeiling }

func (b *Body) FloorNormal() cp.Vector   { return b.floorNormal }
func (b *Body) FloorVelocity() cp.Vector { return b.floorVelocity }

// FloorBody is the collider the body stood on after the last slide, if any.
func (b *Body) FloorBody() collision.Object { return b.floorBody }

// SlideCount is the number of contacts from the last MoveAndSlide.
func (b *Body) SlideCount() int {
	if b == nil {
		return 0
	}
	return len(b.colliders)
}

// SlideCollision returns contact i of the last MoveAndSlide, or nil when i is
// out of range. The handle is owned by the body and reused on later calls.
func (b *Body) SlideCollision(i int) *collision.Handle {
	if b == nil || i < 0 || i >= len(b.colliders) {
		return nil
	}
	for len(b.handles) <= i {
		b.handles = append(b.handles, nil)
	}
	if b.handles[i] == nil {
		b.handles[i] = collision.HandlePool.Get()
	}
	b.handles[i].Set(b, b.colliders[i])
	return b.handles[i]
}
