// Package transform holds the placement of an entity in world space.
package transform

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position and a per-axis scale. It has no rotation term.
//
// Transform is a value type: callers replace it rather than mutating a shared instance.
type Transform struct {
	// Position is the world-space translation.
	Position mgl32.Vec3
	// Scale is applied along each local axis before translation.
	Scale mgl32.Vec3
}

// New returns a Transform at the given position with the given scale.
//
// Parameters:
//   - position: world-space translation
//   - scale: per-axis scale factors
//
// Returns:
//   - Transform: the constructed transform
func New(position, scale mgl32.Vec3) Transform {
	return Transform{Position: position, Scale: scale}
}

// Identity returns a Transform at the origin with unit scale.
//
// Returns:
//   - Transform: the identity transform
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// ModelMatrix returns Translate(Position) × Scale(Scale). Under the column-vector convention the scale
// is applied to the geometry first and the result is then moved to Position.
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func (t Transform) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// Apply transforms a point by the model matrix.
//
// Parameters:
//   - p: the object-space point
//
// Returns:
//   - mgl32.Vec3: the world-space point
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return t.ModelMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

// WithPosition returns a copy of t moved to position.
func (t Transform) WithPosition(position mgl32.Vec3) Transform {
	t.Position = position
	return t
}

// WithScale returns a copy of t with the given scale.
func (t Transform) WithScale(scale mgl32.Vec3) Transform {
	t.Scale = scale
	return t
}
