package camera

import "github.com/go-gl/mathgl/mgl32"

// Movement is a direction the fly controller can travel along its local axes.
type Movement int

const (
	// MoveForward travels along the view direction.
	MoveForward Movement = iota
	// MoveBackward travels against the view direction.
	MoveBackward
	// MoveLeft strafes against the right axis.
	MoveLeft
	// MoveRight strafes along the right axis.
	MoveRight
	// MoveUp rises along the world up axis.
	MoveUp
	// MoveDown sinks along the world up axis.
	MoveDown
)

// CameraController owns the camera's position and orientation. Orientation is a yaw and pitch in
// degrees; yaw -90 with pitch 0 looks down negative Z. The Camera reads from the controller to
// build its view matrix.
type CameraController interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// SetPosition places the eye.
	//
	// Parameters:
	//   - position: world-space coordinates
	SetPosition(position mgl32.Vec3)

	// Front returns the unit view direction.
	//
	// Returns:
	//   - mgl32.Vec3: the view direction
	Front() mgl32.Vec3

	// Right returns the unit right axis, perpendicular to Front and the world up.
	//
	// Returns:
	//   - mgl32.Vec3: the right axis
	Right() mgl32.Vec3

	// Up returns the unit camera up axis.
	//
	// Returns:
	//   - mgl32.Vec3: the camera up axis
	Up() mgl32.Vec3

	// Yaw returns the heading in degrees.
	Yaw() float32

	// Pitch returns the elevation in degrees.
	Pitch() float32

	// SetOrientation sets yaw and pitch in degrees. Pitch is clamped to ±89.
	//
	// Parameters:
	//   - yaw: heading in degrees
	//   - pitch: elevation in degrees
	SetOrientation(yaw, pitch float32)

	// Move travels in a direction for dt seconds at the controller's speed.
	//
	// Parameters:
	//   - direction: the direction of travel
	//   - dt: elapsed time in seconds
	Move(direction Movement, dt float32)

	// Look turns the view by a cursor offset in pixels, scaled by the mouse sensitivity.
	// Positive dy looks up.
	//
	// Parameters:
	//   - dx: horizontal cursor offset
	//   - dy: vertical cursor offset
	Look(dx, dy float32)

	// Speed returns the travel speed in units per second.
	Speed() float32

	// Sensitivity returns the degrees turned per pixel of cursor movement.
	Sensitivity() float32
}
