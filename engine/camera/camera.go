package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names written by SendToShader.
const (
	UniformView       = "view"
	UniformProjection = "projection"
	UniformViewPos    = "viewPos"
)

// Field of view limits in degrees, also the range Zoom moves within.
const (
	MinFov     float32 = 1
	MaxFov     float32 = 45
	DefaultFov float32 = 45
)

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       mgl32.Mat4
	projectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera defines the interface for the camera system.
// The camera holds perspective settings and computes view/projection matrices
// from an attached CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the view matrix computed by the last Update.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current perspective projection.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the attached controller
	Controller() CameraController

	// Update reads position and orientation from the controller and recomputes the view matrix.
	// Should be called once per frame, after input has been applied.
	Update()

	// SetFov sets the field of view in degrees, clamped to [MinFov, MaxFov].
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// Zoom narrows the field of view by delta degrees, widening for negative delta.
	// The result is clamped to [MinFov, MaxFov].
	//
	// Parameters:
	//   - delta: scroll offset in degrees
	Zoom(delta float32)

	// SetAspect sets the aspect ratio (width / height) and recomputes the projection.
	// A non-positive aspect is ignored, which happens while a window is minimized.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SendToShader writes view, projection and viewPos into s.
	//
	// Parameters:
	//   - s: the active shader
	SendToShader(s shader.Shader)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 45 degree field of view, square aspect and a [0.1, 100]
// clip range. A default fly controller is attached unless WithController supplies one.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		fov:    DefaultFov,
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.fov = mgl32.Clamp(c.fov, MinFov, MaxFov)
	c.updateProjection()
	c.updateView()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateView()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = mgl32.Clamp(fov, MinFov, MaxFov)
	c.updateProjection()
}

func (c *cameraImpl) Zoom(delta float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = mgl32.Clamp(c.fov-delta, MinFov, MaxFov)
	c.updateProjection()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) SendToShader(s shader.Shader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.SetMat4(UniformView, c.viewMatrix)
	s.SetMat4(UniformProjection, c.projectionMatrix)
	s.SetVec3(UniformViewPos, c.controller.Position())
}

// updateView recomputes the view matrix from the controller. Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	eye := c.controller.Position()
	c.viewMatrix = mgl32.LookAtV(eye, eye.Add(c.controller.Front()), c.controller.Up())
}

// updateProjection recomputes the projection matrix. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
}
