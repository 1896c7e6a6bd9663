package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/pursuit/ecs/system"
)

// stickDeadzone ignores small analog stick drift.
const stickDeadzone = 0.3

// KeyboardInput reads WASD/arrows (or the first gamepad's left stick) for
// movement and C/Tab (or the gamepad's bottom face button) for switching.
type KeyboardInput struct{}

func (k *KeyboardInput) Poll(tick uint64, elapsed float64) system.InputFrame {
	var move cp.Vector
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		move.X += 1
	}
	// World Y points up.
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyUp) {
		move.Y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyDown) {
		move.Y -= 1
	}
	switchPressed := inpututil.IsKeyJustPressed(ebiten.KeyC) || inpututil.IsKeyJustPressed(ebiten.KeyTab)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if x*x+y*y > stickDeadzone*stickDeadzone {
			move = cp.Vector{X: x, Y: -y}
		}
		switchPressed = switchPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
	}

	return system.InputFrame{Move: move, SwitchRequested: switchPressed}
}
