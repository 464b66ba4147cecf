package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tileslide/ecs/component"
)

// Input polls the keyboard and the first gamepad once per frame.
type Input struct {
	Quit        bool
	Reset       bool
	ToggleDebug bool
}

func NewInput() *Input {
	return &Input{}
}

// Update returns this frame's movement input and refreshes the demo keys.
func (i *Input) Update() component.Input {
	i.Quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	i.Reset = inpututil.IsKeyJustPressed(ebiten.KeyR)
	i.ToggleDebug = inpututil.IsKeyJustPressed(ebiten.KeyF3)

	var in component.Input
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		in.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		in.MoveX += 1
	}
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)

	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 {
			in.MoveX = -1
		} else if leftX > 0.3 {
			in.MoveX = 1
		}
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	}
	return in
}
