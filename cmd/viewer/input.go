package main

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
)

var movementKeys = map[uint32]camera.Movement{
	common.KeyW:           camera.MoveForward,
	common.KeyS:           camera.MoveBackward,
	common.KeyA:           camera.MoveLeft,
	common.KeyD:           camera.MoveRight,
	common.KeySpace:       camera.MoveUp,
	common.KeyLeftControl: camera.MoveDown,
}

// flyInput turns window input into fly camera motion. Keys are held between key events and
// applied on each tick; cursor motion turns the camera only while looking is enabled.
type flyInput struct {
	cam  camera.Camera
	held map[uint32]bool

	looking    bool
	firstMouse bool
	lastX      float32
	lastY      float32
}

func newFlyInput(cam camera.Camera) *flyInput {
	return &flyInput{
		cam:        cam,
		held:       make(map[uint32]bool),
		firstMouse: true,
	}
}

func (in *flyInput) keyDown(keyCode uint32) {
	in.held[keyCode] = true
}

func (in *flyInput) keyUp(keyCode uint32) {
	delete(in.held, keyCode)
}

// setLooking enables mouse look. The next cursor event only re-anchors so the view does not jump.
func (in *flyInput) setLooking(looking bool) {
	in.looking = looking
	in.firstMouse = true
}

func (in *flyInput) mouseMove(x, y float32) {
	if in.firstMouse {
		in.lastX, in.lastY = x, y
		in.firstMouse = false
		return
	}
	// Screen y grows downward.
	dx, dy := x-in.lastX, in.lastY-y
	in.lastX, in.lastY = x, y
	if in.looking {
		in.cam.Controller().Look(dx, dy)
	}
}

func (in *flyInput) scroll(delta float32) {
	in.cam.Zoom(delta)
}

func (in *flyInput) tick(dt float32) {
	for key := range in.held {
		if dir, ok := movementKeys[key]; ok {
			in.cam.Controller().Move(dir, dt)
		}
	}
	in.cam.Update()
}
