package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Controller defaults.
const (
	DefaultYaw         float32 = -90
	DefaultPitch       float32 = 0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1

	maxPitch float32 = 89
)

var worldUp = mgl32.Vec3{0, 1, 0}

type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	front    mgl32.Vec3
	right    mgl32.Vec3
	up       mgl32.Vec3

	yaw   float32
	pitch float32

	speed       float32
	sensitivity float32
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a fly controller at the origin looking down negative Z.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:          &sync.Mutex{},
		yaw:         DefaultYaw,
		pitch:       DefaultPitch,
		speed:       DefaultSpeed,
		sensitivity: DefaultSensitivity,
	}
	for _, option := range options {
		option(cc)
	}
	cc.pitch = mgl32.Clamp(cc.pitch, -maxPitch, maxPitch)
	cc.updateVectors()
	return cc
}

// updateVectors derives the local axes from yaw and pitch. Caller must hold the mutex.
func (cc *cameraControllerImpl) updateVectors() {
	yaw := mgl32.DegToRad(cc.yaw)
	pitch := mgl32.DegToRad(cc.pitch)
	cc.front = mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Normalize()
	cc.right = cc.front.Cross(worldUp).Normalize()
	cc.up = cc.right.Cross(cc.front).Normalize()
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(position mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = position
}

func (cc *cameraControllerImpl) Front() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.front
}

func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.right
}

func (cc *cameraControllerImpl) Up() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.up
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetOrientation(yaw, pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
	cc.pitch = mgl32.Clamp(pitch, -maxPitch, maxPitch)
	cc.updateVectors()
}

func (cc *cameraControllerImpl) Move(direction Movement, dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	step := cc.speed * dt
	switch direction {
	case MoveForward:
		cc.position = cc.position.Add(cc.front.Mul(step))
	case MoveBackward:
		cc.position = cc.position.Sub(cc.front.Mul(step))
	case MoveLeft:
		cc.position = cc.position.Sub(cc.right.Mul(step))
	case MoveRight:
		cc.position = cc.position.Add(cc.right.Mul(step))
	case MoveUp:
		cc.position = cc.position.Add(worldUp.Mul(step))
	case MoveDown:
		cc.position = cc.position.Sub(worldUp.Mul(step))
	}
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw += dx * cc.sensitivity
	cc.pitch = mgl32.Clamp(cc.pitch+dy*cc.sensitivity, -maxPitch, maxPitch)
	cc.updateVectors()
}

func (cc *cameraControllerImpl) Speed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.speed
}

func (cc *cameraControllerImpl) Sensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.sensitivity
}
