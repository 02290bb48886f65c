package entity

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// EntityBuilderOption is a functional option for configuring an Entity during construction.
type EntityBuilderOption func(*base)

// WithName is an option builder that sets the debug name of the entity.
//
// Parameters:
//   - name: the entity name
//
// Returns:
//   - EntityBuilderOption: functional option to set the name
func WithName(name string) EntityBuilderOption {
	return func(b *base) {
		b.name = name
	}
}

// WithTransform is an option builder that sets the full world transform.
//
// Parameters:
//   - t: the transform
//
// Returns:
//   - EntityBuilderOption: functional option to set the transform
func WithTransform(t transform.Transform) EntityBuilderOption {
	return func(b *base) {
		b.transform = t
	}
}

// WithPosition is an option builder that sets the world position, keeping the current scale.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - EntityBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) EntityBuilderOption {
	return func(b *base) {
		b.transform.Position = mgl32.Vec3{x, y, z}
	}
}

// WithScale is an option builder that sets the per-axis scale, keeping the current position.
//
// Parameters:
//   - sx, sy, sz: scale components
//
// Returns:
//   - EntityBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) EntityBuilderOption {
	return func(b *base) {
		b.transform.Scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithColor is an option builder that makes a mesh entity draw as a flat color.
// Model entities ignore it.
//
// Parameters:
//   - color: the RGB color
//
// Returns:
//   - EntityBuilderOption: functional option to set the override color
func WithColor(color mgl32.Vec3) EntityBuilderOption {
	return func(b *base) {
		b.color = color
		b.hasColor = true
	}
}
