package system

import (
	"log"

	"github.com/milk9111/tileslide/body"
	"github.com/milk9111/tileslide/ecs"
	"github.com/milk9111/tileslide/ecs/component"
	"github.com/milk9111/tileslide/levels"
	"github.com/milk9111/tileslide/world"
)

// PlatformSystem moves Platform bodies by their velocity, reports that
// velocity to riders and re-syncs the bodies in the body space. It must run
// before KinematicSystem so riders see this step's platform velocity.
type PlatformSystem struct {
	delta  float64
	bodies *world.BodySpace
	load   ScriptLoader

	scripts map[ecs.Entity]*platformScript
	failed  map[ecs.Entity]string
}

// NewPlatformSystem creates the system. A nil load reads scripts from the
// levels package.
func NewPlatformSystem(delta float64, bodies *world.BodySpace, load ScriptLoader) *PlatformSystem {
	if delta <= 0 {
		delta = body.DefaultStepDelta
	}
	if load == nil {
		load = levels.LoadScript
	}
	return &PlatformSystem{
		delta:   delta,
		bodies:  bodies,
		load:    load,
		scripts: make(map[ecs.Entity]*platformScript),
		failed:  make(map[ecs.Entity]string),
	}
}

func (ps *PlatformSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.PlatformComponent.Kind(), func(e ecs.Entity, p *component.Platform) {
		b := p.Body
		if b == nil {
			return
		}

		v := p.Velocity
		if p.Script != "" {
			if rt := ps.script(e, p.Script); rt != nil {
				sv, err := rt.velocity(p.Elapsed)
				if err != nil {
					log.Printf("PlatformSystem: entity %s: %v", e, err)
					ps.drop(e, p.Script)
				} else {
					v = sv
				}
			}
		}
		p.Elapsed += ps.delta

		b.Translate(v.Mult(ps.delta))
		if b.Kind() == body.KindStatic {
			b.SetConstantVelocity(v)
		} else {
			b.SetLinearVelocity(v)
		}
		if ps.bodies != nil && ps.bodies.Contains(b) {
			ps.bodies.Sync(b)
		}

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			pos := b.Position()
			t.X, t.Y = pos.X, pos.Y
		}
	})
}

// Forget drops the cached script of e, e.g. after the script file changed.
func (ps *PlatformSystem) Forget(e ecs.Entity) {
	if ps == nil {
		return
	}
	delete(ps.scripts, e)
	delete(ps.failed, e)
}

func (ps *PlatformSystem) script(e ecs.Entity, name string) *platformScript {
	if rt, ok := ps.scripts[e]; ok && rt.name == name {
		return rt
	}
	if ps.failed[e] == name {
		return nil
	}
	src, err := ps.load(name)
	if err != nil {
		log.Printf("PlatformSystem: entity %s: load script %s: %v", e, name, err)
		ps.failed[e] = name
		return nil
	}
	rt, err := compilePlatformScript(name, src)
	if err != nil {
		log.Printf("PlatformSystem: entity %s: %v", e, err)
		ps.failed[e] = name
		return nil
	}
	ps.scripts[e] = rt
	delete(ps.failed, e)
	return rt
}

func (ps *PlatformSystem) drop(e ecs.Entity, name string) {
	delete(ps.scripts, e)
	ps.failed[e] = name
}
