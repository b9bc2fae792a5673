package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds this frame's demo commands from keyboard and the first gamepad.
type Input struct {
	// CycleMode is true on the frame C or the gamepad A button is pressed.
	CycleMode bool
	// CycleTarget moves player 1 to the next kart (Tab / right trigger).
	CycleTarget bool
	// CopyPose copies player 1's camera pose (P / X button).
	CopyPose bool
	// Pause toggles the pause menu (Esc / Start).
	Pause bool
	// ToggleMap shows or hides the physics minimap (M / Back).
	ToggleMap bool
}

func NewInput() *Input {
	return &Input{}
}

// Update polls devices. All fields are single-frame just-pressed signals.
func (i *Input) Update() {
	var gpMode, gpTarget, gpCopy, gpPause, gpMap bool
	if ids := ebiten.AppendGamepadIDs(nil); len(ids) > 0 {
		gid := ids[0]
		gpMode = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		gpTarget = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonFrontBottomRight)
		gpCopy = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightLeft)
		gpPause = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
		gpMap = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterLeft)
	}

	i.CycleMode = inpututil.IsKeyJustPressed(ebiten.KeyC) || gpMode
	i.CycleTarget = inpututil.IsKeyJustPressed(ebiten.KeyTab) || gpTarget
	i.CopyPose = inpututil.IsKeyJustPressed(ebiten.KeyP) || gpCopy
	i.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || gpPause
	i.ToggleMap = inpututil.IsKeyJustPressed(ebiten.KeyM) || gpMap
}
