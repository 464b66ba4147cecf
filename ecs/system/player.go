package system

import (
	"github.com/milk9111/tileslide/common"
	"github.com/milk9111/tileslide/ecs"
	"github.com/milk9111/tileslide/ecs/component"
)

// PlayerControllerSystem turns Input into KinematicBody velocity. It must run
// before KinematicSystem.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (pc *PlayerControllerSystem) Update(w *ecs.World) {
	if pc == nil || w == nil {
		return
	}
	ecs.ForEach3(w, component.InputComponent.Kind(), component.PlayerComponent.Kind(), component.KinematicBodyComponent.Kind(), func(_ ecs.Entity, in *component.Input, p *component.Player, kb *component.KinematicBody) {
		if kb.Body == nil {
			return
		}
		up := common.Normalize(kb.Up)
		side := up.Perp()
		if common.NearZero(up) {
			side.X, side.Y = 1, 0
		}
		// keep the vertical part, replace the horizontal part
		vertical := up.Mult(kb.Velocity.Dot(up))
		kb.Velocity = vertical.Add(side.Mult(in.MoveX * p.MoveSpeed))

		onFloor := kb.Body.IsOnFloor()
		switch {
		case onFloor:
			p.CoyoteLeft = p.CoyoteFrames
		case p.CoyoteLeft > 0:
			p.CoyoteLeft--
		}

		if in.JumpPressed && (onFloor || p.CoyoteLeft > 0) && !common.NearZero(up) {
			kb.Velocity = side.Mult(kb.Velocity.Dot(side)).Add(up.Mult(p.JumpSpeed))
			kb.Jumping = true
			p.CoyoteLeft = 0
			return
		}

		// releasing jump early cuts the rise short
		if !in.Jump && kb.Jumping {
			if rise, limit := kb.Velocity.Dot(up), p.JumpSpeed/2; rise > limit {
				kb.Velocity = kb.Velocity.Sub(up.Mult(rise - limit))
			}
		}
	})
}
