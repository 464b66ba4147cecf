package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/body"
)

// KinematicBody drives a body through MoveAndSlideWithSnap every step.
type KinematicBody struct {
	Body     *body.Body
	Velocity cp.Vector
	// Gravity is added to Velocity.Y every step, in pixels per second squared.
	Gravity float64
	// Snap keeps the body glued to the floor; it is skipped on the step a
	// jump starts.
	Snap            cp.Vector
	Up              cp.Vector
	MaxSlides       int
	FloorMaxAngle   float64
	StopOnSlope     bool
	InfiniteInertia bool
	// Jumping suppresses Snap until the body lands again.
	Jumping bool
}

var KinematicBodyComponent = NewComponent[KinematicBody]()
