package body

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/collision"
	"github.com/milk9111/tileslide/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vecDelta = 1e-9

var up = cp.Vector{Y: -1}

type scriptedHit struct {
	miss     bool
	fraction float64
	normal   cp.Vector
	collider collision.Object
	velocity cp.Vector
}

// scriptedQuery answers motion queries from a fixed list; once the list is
// empty every query misses.
type scriptedQuery struct {
	hits     []scriptedHit
	params   []collision.MotionParams
	rays     []collision.SeparationResult
	rayCalls int
}

func (q *scriptedQuery) TestMotion(p collision.MotionParams) (collision.Record, bool) {
	q.params = append(q.params, p)
	if len(q.hits) == 0 {
		return collision.Record{}, false
	}
	h := q.hits[0]
	q.hits = q.hits[1:]
	if h.miss {
		return collision.Record{}, false
	}
	travel := p.Motion.Mult(h.fraction)
	return collision.Record{
		Position:         p.Transform.Add(travel),
		Normal:           h.normal,
		Collider:         h.collider,
		ColliderVelocity: h.velocity,
		Travel:           travel,
		Remainder:        p.Motion.Sub(travel),
	}, true
}

func (q *scriptedQuery) TestRaySeparation(p collision.MotionParams, out []collision.SeparationResult) int {
	q.rayCalls++
	n := copy(out, q.rays)
	q.rays = nil
	return n
}

type plainObject struct{}

func (plainObject) ColliderID() uint64 { return 99 }

func newPlayer(q collision.MotionQuery) *Body {
	return NewKinematic(cp.Vector{X: 10, Y: 20}, q, collision.Box(0, 0, 16, 16))
}

func assertVec(t *testing.T, want, got cp.Vector, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, vecDelta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, vecDelta, msgAndArgs...)
}

func normalAt(angle float64) cp.Vector {
	return cp.Vector{X: math.Sin(angle), Y: -math.Cos(angle)}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "static", KindStatic.String())
	assert.Equal(t, "kinematic", KindKinematic.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestNewDefaults(t *testing.T) {
	b := NewStatic(cp.Vector{X: 1, Y: 2}, collision.Box(0, 0, 4, 4))
	assert.Equal(t, KindStatic, b.Kind())
	assert.Equal(t, collision.DefaultLayer, b.CollisionLayer())
	assert.Equal(t, collision.DefaultLayer, b.CollisionMask())
	assert.Equal(t, DefaultSafeMargin, b.SafeMargin())
	assert.Equal(t, DefaultStepDelta, b.StepDelta())
	assert.NotZero(t, b.ColliderID())

	b.SetSafeMargin(-1)
	assert.Zero(t, b.SafeMargin())
	b.SetStepDelta(0)
	assert.Equal(t, DefaultStepDelta, b.StepDelta())
}

func TestShapeAtIsWorldSpace(t *testing.T) {
	b := NewStatic(cp.Vector{X: 100, Y: 50}, collision.Box(2, 3, 4, 5))
	s, ok := b.ShapeAt(0)
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 102, Y: 53}, s.Offset)
	_, ok = b.ShapeAt(1)
	assert.False(t, ok)

	lo, hi, ok := b.Bounds()
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 102, Y: 53}, lo)
	assert.Equal(t, cp.Vector{X: 106, Y: 58}, hi)
}

func TestLinearVelocityByKind(t *testing.T) {
	s := NewStatic(cp.Vector{})
	s.SetConstantVelocity(cp.Vector{X: 3})
	s.SetLinearVelocity(cp.Vector{X: 9})
	assert.Equal(t, cp.Vector{X: 3}, s.LinearVelocity())

	k := NewKinematic(cp.Vector{}, nil)
	k.SetLinearVelocity(cp.Vector{Y: 4})
	assert.Equal(t, cp.Vector{Y: 4}, k.LinearVelocity())
}

func TestMoveAndCollideWithoutContact(t *testing.T) {
	q := &scriptedQuery{}
	b := newPlayer(q)
	h, ok := b.MoveAndCollide(cp.Vector{X: 3, Y: 4}, true, true, false)
	assert.False(t, ok)
	assert.Nil(t, h)
	assert.Equal(t, cp.Vector{X: 13, Y: 24}, b.Position())

	require.Len(t, q.params, 1)
	p := q.params[0]
	assert.Same(t, b, p.Mover)
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, p.Transform)
	assert.Equal(t, DefaultSafeMargin, p.Margin)
	assert.True(t, p.ExcludeRaycastShapes)
}

func TestMoveAndCollideStopsAtContact(t *testing.T) {
	wall := plainObject{}
	q := &scriptedQuery{hits: []scriptedHit{
		{fraction: 0.5, normal: cp.Vector{X: -1}, collider: wall},
		{fraction: 0, normal: cp.Vector{X: -1}, collider: wall},
	}}
	b := newPlayer(q)

	h, ok := b.MoveAndCollide(cp.Vector{X: 8}, true, true, false)
	require.True(t, ok)
	assert.Equal(t, cp.Vector{X: 14, Y: 20}, b.Position())
	assert.Same(t, b, h.Owner())
	assert.Equal(t, wall, h.Collider())
	assert.Equal(t, cp.Vector{X: 4}, h.Travel())
	assert.Equal(t, cp.Vector{X: 4}, h.Remainder())
	assert.Equal(t, cp.Vector{X: -1}, h.Normal())

	again, ok := b.MoveAndCollide(cp.Vector{X: 8}, true, true, false)
	require.True(t, ok)
	assert.Same(t, h, again)
	assert.Equal(t, cp.Vector{}, again.Travel())
}

func TestMoveAndCollideTestOnly(t *testing.T) {
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.25, normal: up}}}
	b := newPlayer(q)
	h, ok := b.MoveAndCollide(cp.Vector{Y: 8}, true, false, true)
	require.True(t, ok)
	assert.Equal(t, cp.Vector{Y: 2}, h.Travel())
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, b.Position())

	_, ok = b.MoveAndCollide(cp.Vector{Y: 8}, true, false, true)
	assert.False(t, ok)
	assert.Equal(t, cp.Vector{X: 10, Y: 20}, b.Position())
}

func TestMoveShortCircuits(t *testing.T) {
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 0, normal: up}}}

	b := newPlayer(q)
	_, ok := b.MoveAndCollide(cp.Vector{}, true, true, false)
	assert.False(t, ok)

	bare := NewKinematic(cp.Vector{}, q)
	_, ok = bare.MoveAndCollide(cp.Vector{X: 5}, true, true, false)
	assert.False(t, ok)
	assert.Equal(t, cp.Vector{X: 5}, bare.Position())

	static := NewStatic(cp.Vector{}, collision.Box(0, 0, 4, 4))
	static.SetQuery(q)
	_, ok = static.MoveAndCollide(cp.Vector{X: 5}, true, true, false)
	assert.False(t, ok)
	assert.Equal(t, cp.Vector{}, static.Position())
	assert.Equal(t, cp.Vector{X: 7}, static.MoveAndSlide(cp.Vector{X: 7}, up, false, 4, math.Pi/4, true))

	assert.Empty(t, q.params)

	var nilBody *Body
	_, ok = nilBody.MoveAndCollide(cp.Vector{X: 1}, true, true, false)
	assert.False(t, ok)
	assert.Nil(t, nilBody.SlideCollision(0))
	assert.Zero(t, nilBody.SlideCount())
}

func TestMoveAndSlideLandsOnFloor(t *testing.T) {
	ground := plainObject{}
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.4, normal: up, collider: ground}}}
	b := newPlayer(q)

	v := b.MoveAndSlide(cp.Vector{Y: 600}, up, false, 4, math.Pi/4, true)
	assertVec(t, cp.Vector{}, v)
	assert.True(t, b.IsOnFloor())
	assert.False(t, b.IsOnWall())
	assert.False(t, b.IsOnCeiling())
	assert.Equal(t, up, b.FloorNormal())
	assert.Equal(t, ground, b.FloorBody())
	assertVec(t, cp.Vector{X: 10, Y: 24}, b.Position())
	assert.Len(t, q.params, 1)

	require.Equal(t, 1, b.SlideCount())
	h := b.SlideCollision(0)
	require.NotNil(t, h)
	assert.Equal(t, up, h.Normal())
	assertVec(t, cp.Vector{Y: 4}, h.Travel())
	assertVec(t, cp.Vector{Y: 6}, h.Remainder())
	assert.Nil(t, b.SlideCollision(1))
	assert.Nil(t, b.SlideCollision(-1))
}

func TestMoveAndSlideAlongWall(t *testing.T) {
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.5, normal: cp.Vector{X: -1}}}}
	b := newPlayer(q)

	v := b.MoveAndSlide(cp.Vector{X: 600, Y: 600}, up, false, 4, math.Pi/4, true)
	assertVec(t, cp.Vector{Y: 600}, v)
	assert.True(t, b.IsOnWall())
	assert.False(t, b.IsOnFloor())
	assertVec(t, cp.Vector{X: 15, Y: 30}, b.Position())
	require.Len(t, q.params, 2)
	assertVec(t, cp.Vector{Y: 5}, q.params[1].Motion)
	assert.Equal(t, 1, b.SlideCount())
	assertVec(t, cp.Vector{Y: 600}, b.LinearVelocity())
}

func TestMoveAndSlideCeiling(t *testing.T) {
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.5, normal: cp.Vector{Y: 1}}}}
	b := newPlayer(q)
	b.MoveAndSlide(cp.Vector{Y: -600}, up, false, 4, math.Pi/4, true)
	assert.True(t, b.IsOnCeiling())
	assert.False(t, b.IsOnFloor())
	assert.False(t, b.IsOnWall())
}

func TestMoveAndSlideFloorBoundary(t *testing.T) {
	maxAngle := math.Pi / 4
	tests := []struct {
		name      string
		normal    cp.Vector
		up        cp.Vector
		wantFloor bool
		wantWall  bool
	}{
		{name: "flat", normal: up, up: up, wantFloor: true},
		{name: "at max angle", normal: normalAt(maxAngle), up: up, wantFloor: true},
		{name: "inside threshold", normal: normalAt(maxAngle + common.FloorAngleThreshold - 1e-4), up: up, wantFloor: true},
		{name: "past threshold", normal: normalAt(maxAngle + common.FloorAngleThreshold + 1e-4), up: up, wantWall: true},
		{name: "no up direction", normal: up, up: cp.Vector{}, wantWall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.5, normal: tt.normal}}}
			b := newPlayer(q)
			b.MoveAndSlide(cp.Vector{X: 30, Y: 60}, tt.up, false, 4, maxAngle, true)
			assert.Equal(t, tt.wantFloor, b.IsOnFloor())
			assert.Equal(t, tt.wantWall, b.IsOnWall())
			assert.False(t, b.IsOnCeiling())
		})
	}
}

func TestSlideRemovesNormalComponent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		v := cp.Vector{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		angle := rng.Float64() * 2 * math.Pi
		n := cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}

		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.3, normal: n}}}
		b := newPlayer(q)
		out := b.MoveAndSlide(v, up, false, 1, math.Pi/4, true)

		assert.InDelta(t, 0, out.Dot(n), 1e-9, "case %d", i)
		assert.LessOrEqual(t, out.Length(), v.Length()+1e-9, "case %d", i)
	}
}

func TestMoveAndSlideStopOnSlope(t *testing.T) {
	slope := normalAt(math.Pi / 6)

	t.Run("pinned", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.05, normal: slope}}}
		b := newPlayer(q)
		v := b.MoveAndSlide(cp.Vector{Y: 600}, up, true, 4, math.Pi/4, true)
		assert.Equal(t, cp.Vector{}, v)
		assert.True(t, b.IsOnFloor())
		assertVec(t, cp.Vector{X: 10, Y: 20.5}, b.Position())
		assert.Len(t, q.params, 1)
		assert.Equal(t, 1, b.SlideCount())
	})

	t.Run("slides without it", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.05, normal: slope}}}
		b := newPlayer(q)
		v := b.MoveAndSlide(cp.Vector{Y: 600}, up, false, 4, math.Pi/4, true)
		assert.Greater(t, v.X, 0.0)
		assert.Greater(t, b.Position().X, 10.0)
	})

	t.Run("walking is not pinned", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.05, normal: slope}}}
		b := newPlayer(q)
		v := b.MoveAndSlide(cp.Vector{X: 120, Y: 600}, up, true, 4, math.Pi/4, true)
		assert.NotEqual(t, cp.Vector{}, v)
	})
}

func TestMoveAndSlideScaledUp(t *testing.T) {
	scaled := cp.Vector{Y: -0.5}

	t.Run("lands on floor", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.4, normal: up}}}
		b := newPlayer(q)
		b.MoveAndSlide(cp.Vector{Y: 600}, scaled, false, 4, math.Pi/4, true)
		assert.True(t, b.IsOnFloor())
		assert.False(t, b.IsOnWall())
		assert.Equal(t, up, b.FloorNormal())
		assertVec(t, cp.Vector{X: 10, Y: 24}, b.Position())
	})

	t.Run("hits ceiling", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.4, normal: up.Neg()}}}
		b := newPlayer(q)
		b.MoveAndSlide(cp.Vector{Y: -600}, cp.Vector{Y: -3}, false, 4, math.Pi/4, true)
		assert.True(t, b.IsOnCeiling())
		assert.False(t, b.IsOnWall())
	})

	t.Run("pinned on slope", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.05, normal: normalAt(math.Pi / 6)}}}
		b := newPlayer(q)
		v := b.MoveAndSlide(cp.Vector{Y: 600}, scaled, true, 4, math.Pi/4, true)
		assert.Equal(t, cp.Vector{}, v)
		assertVec(t, cp.Vector{X: 10, Y: 20.5}, b.Position())
	})

	t.Run("snap stays vertical", func(t *testing.T) {
		slope := normalAt(math.Pi / 6)
		q := &scriptedQuery{hits: []scriptedHit{{fraction: 1, normal: up}, {miss: true}, {fraction: 0.5, normal: slope}}}
		b := newPlayer(q)
		b.MoveAndSlide(cp.Vector{Y: 60}, scaled, false, 4, math.Pi/4, true)
		require.True(t, b.IsOnFloor())
		start := b.Position()

		b.MoveAndSlideWithSnap(cp.Vector{X: 60}, cp.Vector{X: 2, Y: 8}, scaled, true, 4, math.Pi/4, true)
		assert.True(t, b.IsOnFloor())
		assert.Equal(t, slope, b.FloorNormal())
		assertVec(t, start.Add(cp.Vector{X: 1, Y: 4}), b.Position())
	})
}

func TestMoveAndSlideBoundedBySlides(t *testing.T) {
	wall := scriptedHit{fraction: 0, normal: cp.Vector{X: -1}}
	q := &scriptedQuery{hits: []scriptedHit{wall, wall, wall, wall, wall, wall}}
	b := newPlayer(q)
	b.MoveAndSlide(cp.Vector{X: 600, Y: 600}, up, false, 4, math.Pi/4, true)
	assert.Len(t, q.params, 4)
	assert.Equal(t, 4, b.SlideCount())

	// handles grow to cover every contact
	for i := 0; i < b.SlideCount(); i++ {
		require.NotNil(t, b.SlideCollision(i))
	}
	assert.NotSame(t, b.SlideCollision(0), b.SlideCollision(3))
}

func TestMoveAndSlideInheritsFloorVelocity(t *testing.T) {
	platform := NewStatic(cp.Vector{}, collision.Box(0, 0, 64, 8))
	platform.SetConstantVelocity(cp.Vector{X: 120})

	q := &scriptedQuery{hits: []scriptedHit{{fraction: 1, normal: up, collider: platform, velocity: cp.Vector{X: 120}}}}
	b := newPlayer(q)
	b.MoveAndSlide(cp.Vector{Y: 60}, up, false, 4, math.Pi/4, true)
	require.True(t, b.IsOnFloor())
	assert.Equal(t, cp.Vector{X: 120}, b.FloorVelocity())

	// the live velocity wins over the cached one
	platform.SetConstantVelocity(cp.Vector{X: 60})
	b.MoveAndSlide(cp.Vector{}, up, false, 4, math.Pi/4, true)
	require.Len(t, q.params, 2)
	assertVec(t, cp.Vector{X: 1}, q.params[1].Motion)
	assert.False(t, b.IsOnFloor())
	assert.Equal(t, cp.Vector{}, b.FloorVelocity())
}

func TestMoveAndSlideCachedFloorVelocity(t *testing.T) {
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 1, normal: up, collider: plainObject{}, velocity: cp.Vector{X: 30}}}}
	b := newPlayer(q)
	b.MoveAndSlide(cp.Vector{Y: 60}, up, false, 4, math.Pi/4, true)
	b.MoveAndSlide(cp.Vector{}, up, false, 4, math.Pi/4, true)
	require.Len(t, q.params, 2)
	assertVec(t, cp.Vector{X: 0.5}, q.params[1].Motion)
}

func TestMoveAndSlideWithSnap(t *testing.T) {
	floorHit := scriptedHit{fraction: 1, normal: up}

	t.Run("pulls down to the floor", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{floorHit, {miss: true}, {fraction: 0.25, normal: up}}}
		b := newPlayer(q)
		b.MoveAndSlide(cp.Vector{Y: 60}, up, false, 4, math.Pi/4, true)
		require.True(t, b.IsOnFloor())
		start := b.Position()

		b.MoveAndSlideWithSnap(cp.Vector{X: 60}, cp.Vector{Y: 8}, up, false, 4, math.Pi/4, true)
		require.Len(t, q.params, 3)
		assert.False(t, q.params[2].ExcludeRaycastShapes)
		assert.True(t, b.IsOnFloor())
		assertVec(t, start.Add(cp.Vector{X: 1, Y: 2}), b.Position())
	})

	t.Run("stop on slope keeps snap vertical", func(t *testing.T) {
		slope := normalAt(math.Pi / 6)
		q := &scriptedQuery{hits: []scriptedHit{floorHit, {miss: true}, {fraction: 0.5, normal: slope}}}
		b := newPlayer(q)
		b.MoveAndSlide(cp.Vector{Y: 60}, up, false, 4, math.Pi/4, true)
		start := b.Position()

		b.MoveAndSlideWithSnap(cp.Vector{X: 60}, cp.Vector{X: 2, Y: 8}, up, true, 4, math.Pi/4, true)
		assertVec(t, start.Add(cp.Vector{X: 1, Y: 4}), b.Position())
		assert.Equal(t, slope, b.FloorNormal())
	})

	t.Run("ignores walls", func(t *testing.T) {
		q := &scriptedQuery{hits: []scriptedHit{floorHit, {miss: true}, {fraction: 0.5, normal: cp.Vector{X: -1}}}}
		b := newPlayer(q)
		b.MoveAndSlide(cp.Vector{Y: 60}, up, false, 4, math.Pi/4, true)
		start := b.Position()

		b.MoveAndSlideWithSnap(cp.Vector{X: 60}, cp.Vector{Y: 8}, up, false, 4, math.Pi/4, true)
		assert.False(t, b.IsOnFloor())
		assertVec(t, start.Add(cp.Vector{X: 1}), b.Position())
	})

	t.Run("airborne bodies do not snap", func(t *testing.T) {
		q := &scriptedQuery{}
		b := newPlayer(q)
		b.MoveAndSlideWithSnap(cp.Vector{X: 60}, cp.Vector{Y: 8}, up, false, 4, math.Pi/4, true)
		assert.Len(t, q.params, 1)
	})
}

func TestSeparateRaycastShapes(t *testing.T) {
	ground := plainObject{}
	q := &scriptedQuery{rays: []collision.SeparationResult{
		{Depth: 2, Normal: up, Recover: cp.Vector{Y: -2}, Collider: ground, LocalShape: 1},
		{Depth: 5, Normal: up, Recover: cp.Vector{Y: -5}, Collider: ground, LocalShape: 2},
	}}
	b := NewKinematic(cp.Vector{X: 0, Y: 100}, q,
		collision.Box(0, 0, 16, 16),
		collision.Ray(4, 16, cp.Vector{Y: 1}, 8),
		collision.Ray(12, 16, cp.Vector{Y: 1}, 8),
	)

	rec, ok := b.SeparateRaycastShapes(true)
	require.True(t, ok)
	assert.Equal(t, 2, rec.LocalShape)
	assert.Equal(t, cp.Vector{Y: -5}, rec.Travel)
	assert.Equal(t, cp.Vector{}, rec.Remainder)
	assert.Equal(t, cp.Vector{X: 0, Y: 95}, b.Position())

	_, ok = b.SeparateRaycastShapes(true)
	assert.False(t, ok)

	noRays := newPlayer(q)
	_, ok = noRays.SeparateRaycastShapes(true)
	assert.False(t, ok)
	assert.Equal(t, 2, q.rayCalls)
}

func TestMoveAndSlideUsesRaySeparation(t *testing.T) {
	q := &scriptedQuery{rays: []collision.SeparationResult{
		{Depth: 3, Normal: up, Recover: cp.Vector{Y: -3}},
	}}
	b := NewKinematic(cp.Vector{X: 0, Y: 100}, q,
		collision.Box(0, 0, 16, 16),
		collision.Ray(8, 16, cp.Vector{Y: 1}, 8),
	)

	b.MoveAndSlide(cp.Vector{X: 60}, up, false, 4, math.Pi/4, true)
	assert.True(t, b.IsOnFloor())
	require.Equal(t, 1, b.SlideCount())
	h := b.SlideCollision(0)
	assert.Equal(t, cp.Vector{}, h.Travel())
	assertVec(t, cp.Vector{X: 1, Y: 97}, b.Position())
}

func TestReleaseReturnsHandles(t *testing.T) {
	q := &scriptedQuery{hits: []scriptedHit{{fraction: 0.5, normal: up}}}
	b := newPlayer(q)
	b.MoveAndSlide(cp.Vector{Y: 60}, up, false, 4, math.Pi/4, true)
	h := b.SlideCollision(0)
	require.NotNil(t, h)

	before := collision.HandlePool.Len()
	b.Release()
	assert.Equal(t, before+1, collision.HandlePool.Len())
	assert.Nil(t, h.Owner())
	assert.Zero(t, b.SlideCount())
}
