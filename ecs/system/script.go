package system

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
)

var ErrNoScript = errors.New("system: nil script runtime")

var ErrBadVelocity = errors.New("system: script velocity must be a two element array of numbers")

// ScriptLoader returns the source of a named script.
type ScriptLoader func(name string) ([]byte, error)

// A platform script defines velocity(t), where t is the seconds since the
// platform started moving, and returns [x, y] in pixels per second.
const platformDispatchScript = `
__out := velocity(__t)
`

type platformScript struct {
	name     string
	compiled *tengo.Compiled
}

func compilePlatformScript(name string, src []byte) (*platformScript, error) {
	full := make([]byte, 0, len(src)+len(platformDispatchScript)+1)
	full = append(full, src...)
	full = append(full, '\n')
	full = append(full, platformDispatchScript...)

	script := tengo.NewScript(full)
	if err := script.Add("__t", 0.0); err != nil {
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("system: compile script %s: %w", name, err)
	}
	return &platformScript{name: name, compiled: compiled}, nil
}

func (ps *platformScript) velocity(t float64) (cp.Vector, error) {
	if ps == nil || ps.compiled == nil {
		return cp.Vector{}, ErrNoScript
	}
	if err := ps.compiled.Set("__t", t); err != nil {
		return cp.Vector{}, err
	}
	if err := ps.compiled.Run(); err != nil {
		return cp.Vector{}, fmt.Errorf("system: run script %s: %w", ps.name, err)
	}

	var elems []tengo.Object
	switch out := ps.compiled.Get("__out").Object().(type) {
	case *tengo.Array:
		elems = out.Value
	case *tengo.ImmutableArray:
		elems = out.Value
	}
	if len(elems) != 2 {
		return cp.Vector{}, fmt.Errorf("%w: script %s", ErrBadVelocity, ps.name)
	}
	x, okX := tengo.ToFloat64(elems[0])
	y, okY := tengo.ToFloat64(elems[1])
	if !okX || !okY {
		return cp.Vector{}, fmt.Errorf("%w: script %s", ErrBadVelocity, ps.name)
	}
	return cp.Vector{X: x, Y: y}, nil
}
