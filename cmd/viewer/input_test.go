package main

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestHeldKeysMoveOnTick(t *testing.T) {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithSpeed(1))))
	in := newFlyInput(cam)

	in.keyDown(common.KeySpace)
	in.keyDown(common.KeyL)
	in.tick(2)
	assert.InDelta(t, 2, cam.Controller().Position().Y(), 1e-6)

	in.keyUp(common.KeySpace)
	in.tick(2)
	assert.InDelta(t, 2, cam.Controller().Position().Y(), 1e-6)

	want := mgl32.LookAtV(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 2, 0}.Add(cam.Controller().Front()), cam.Controller().Up())
	assert.True(t, want.ApproxEqualThreshold(cam.ViewMatrix(), 1e-5))
}

func TestMouseLookOnlyWhileLooking(t *testing.T) {
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithSensitivity(1))))
	in := newFlyInput(cam)

	in.mouseMove(100, 100)
	in.mouseMove(110, 90)
	assert.Equal(t, camera.DefaultYaw, cam.Controller().Yaw())

	in.setLooking(true)
	in.mouseMove(500, 500)
	assert.Equal(t, camera.DefaultYaw, cam.Controller().Yaw())

	in.mouseMove(510, 495)
	assert.Equal(t, camera.DefaultYaw+10, cam.Controller().Yaw())
	assert.Equal(t, float32(5), cam.Controller().Pitch())
}

func TestScrollZooms(t *testing.T) {
	cam := camera.NewCamera()
	in := newFlyInput(cam)
	in.scroll(5)
	assert.Equal(t, float32(40), cam.Fov())
}
