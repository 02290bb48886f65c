package light

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a light descriptor during construction.
// Options that do not apply to a light type are ignored, so a point light disregards WithDirection.
type LightBuilderOption func(*params)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(p *params) {
		p.position = mgl32.Vec3{x, y, z}
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - x: the x direction component
//   - y: the y direction component
//   - z: the z direction component
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(p *params) {
		p.direction = normalize3(x, y, z)
	}
}

// WithAmbient is an option builder that sets the ambient color term.
//
// Parameters:
//   - r, g, b: the color components
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option
func WithAmbient(r, g, b float32) LightBuilderOption {
	return func(p *params) {
		p.ambient = mgl32.Vec3{r, g, b}
	}
}

// WithDiffuse is an option builder that sets the diffuse color term. It is also the color
// of the light's proxy cube.
//
// Parameters:
//   - r, g, b: the color components
//
// Returns:
//   - LightBuilderOption: a function that applies the diffuse option
func WithDiffuse(r, g, b float32) LightBuilderOption {
	return func(p *params) {
		p.diffuse = mgl32.Vec3{r, g, b}
	}
}

// WithSpecular is an option builder that sets the specular color term.
//
// Parameters:
//   - r, g, b: the color components
//
// Returns:
//   - LightBuilderOption: a function that applies the specular option
func WithSpecular(r, g, b float32) LightBuilderOption {
	return func(p *params) {
		p.specular = mgl32.Vec3{r, g, b}
	}
}

// WithAttenuation is an option builder that sets the constant, linear and quadratic
// attenuation coefficients of a point or spot light.
//
// Parameters:
//   - constant: the constant term
//   - linear: the linear term
//   - quadratic: the quadratic term
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(p *params) {
		p.constant = constant
		p.linear = linear
		p.quadratic = quadratic
	}
}

// WithScale is an option builder that sets the edge length of the proxy cube.
//
// Parameters:
//   - scale: the uniform cube scale
//
// Returns:
//   - LightBuilderOption: a function that applies the scale option
func WithScale(scale float32) LightBuilderOption {
	return func(p *params) {
		p.scale = scale
	}
}

// WithCutOffDegrees is an option builder that sets the spot cone from half-angles in degrees.
// The stored values are their cosines.
//
// Parameters:
//   - innerDeg: inner cone half-angle in degrees
//   - outerDeg: outer cone half-angle in degrees
//
// Returns:
//   - LightBuilderOption: a function that applies the cone option
func WithCutOffDegrees(innerDeg, outerDeg float32) LightBuilderOption {
	return func(p *params) {
		p.cutOff = cosDeg(innerDeg)
		p.outerCutOff = cosDeg(outerDeg)
	}
}

// normalize3 normalizes a 3-component vector. Returns a zero vector if the input
// has zero length.
func normalize3(x, y, z float32) mgl32.Vec3 {
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return mgl32.Vec3{}
	}
	inv := 1 / length
	return mgl32.Vec3{x * inv, y * inv, z * inv}
}

// cosDeg converts an angle in degrees to the cosine of that angle in radians.
func cosDeg(deg float32) float32 {
	return math32.Cos(mgl32.DegToRad(deg))
}
