package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileslide/body"
)

// Platform is a body moved by PlatformSystem. Velocity is used as is unless
// Script names a tengo script that defines velocity(t).
type Platform struct {
	Body     *body.Body
	Velocity cp.Vector
	Script   string
	// Elapsed is the time in seconds passed to the script.
	Elapsed float64
}

var PlatformComponent = NewComponent[Platform]()
