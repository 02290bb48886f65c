package light

import "github.com/go-gl/mathgl/mgl32"

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position
	// and attenuates with distance.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// It attenuates with distance and fades between the inner and outer cone cosines.
	LightTypeSpot
)

// String returns the uniform array stem of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "dirLights"
	case LightTypePoint:
		return "pointLights"
	case LightTypeSpot:
		return "spotLights"
	default:
		return "unknown"
	}
}

// Default descriptor values applied by the constructors.
const (
	DefaultConstant  float32 = 1.0
	DefaultLinear    float32 = 0.09
	DefaultQuadratic float32 = 0.032
	DefaultScale     float32 = 1.0

	// DefaultCutOffDegrees and DefaultOuterCutOffDegrees are the spot cone half-angles.
	DefaultCutOffDegrees      float32 = 12.5
	DefaultOuterCutOffDegrees float32 = 18.0
)

var (
	defaultAmbient  = mgl32.Vec3{0.05, 0.05, 0.05}
	defaultDiffuse  = mgl32.Vec3{0.8, 0.8, 0.8}
	defaultSpecular = mgl32.Vec3{1, 1, 1}
)

// DirectionalLight lights every fragment from one direction with no falloff.
type DirectionalLight struct {
	Direction mgl32.Vec3

	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3
}

// PointLight emits from Position with attenuation 1 / (Constant + Linear*d + Quadratic*d²).
// Scale is the edge length of the proxy cube drawn for the light.
type PointLight struct {
	Position mgl32.Vec3

	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3

	Constant  float32
	Linear    float32
	Quadratic float32

	Scale float32
}

// SpotLight is a PointLight restricted to a cone around Direction. CutOff and OuterCutOff are the
// cosines of the inner and outer half-angles, so CutOff > OuterCutOff.
type SpotLight struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3

	Ambient  mgl32.Vec3
	Diffuse  mgl32.Vec3
	Specular mgl32.Vec3

	CutOff      float32
	OuterCutOff float32

	Constant  float32
	Linear    float32
	Quadratic float32

	Scale float32
}

// params collects every option value; each constructor reads the fields its light type has.
type params struct {
	position  mgl32.Vec3
	direction mgl32.Vec3
	ambient   mgl32.Vec3
	diffuse   mgl32.Vec3
	specular  mgl32.Vec3

	constant, linear, quadratic float32
	cutOff, outerCutOff         float32
	scale                       float32
}

func newParams(direction mgl32.Vec3, opts []LightBuilderOption) *params {
	p := &params{
		direction:   direction,
		ambient:     defaultAmbient,
		diffuse:     defaultDiffuse,
		specular:    defaultSpecular,
		constant:    DefaultConstant,
		linear:      DefaultLinear,
		quadratic:   DefaultQuadratic,
		cutOff:      cosDeg(DefaultCutOffDegrees),
		outerCutOff: cosDeg(DefaultOuterCutOffDegrees),
		scale:       DefaultScale,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDirectionalLight creates a DirectionalLight pointing down -Y unless WithDirection is given.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - DirectionalLight: the descriptor
func NewDirectionalLight(opts ...LightBuilderOption) DirectionalLight {
	p := newParams(mgl32.Vec3{0, -1, 0}, opts)
	return DirectionalLight{
		Direction: p.direction,
		Ambient:   p.ambient,
		Diffuse:   p.diffuse,
		Specular:  p.specular,
	}
}

// NewPointLight creates a PointLight at the origin with the default attenuation and scale.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - PointLight: the descriptor
func NewPointLight(opts ...LightBuilderOption) PointLight {
	p := newParams(mgl32.Vec3{0, -1, 0}, opts)
	return PointLight{
		Position:  p.position,
		Ambient:   p.ambient,
		Diffuse:   p.diffuse,
		Specular:  p.specular,
		Constant:  p.constant,
		Linear:    p.linear,
		Quadratic: p.quadratic,
		Scale:     p.scale,
	}
}

// NewSpotLight creates a SpotLight at the origin pointing down -Z, with a 12.5° inner and 18°
// outer cone and the default attenuation and scale.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - SpotLight: the descriptor
func NewSpotLight(opts ...LightBuilderOption) SpotLight {
	p := newParams(mgl32.Vec3{0, 0, -1}, opts)
	return SpotLight{
		Position:    p.position,
		Direction:   p.direction,
		Ambient:     p.ambient,
		Diffuse:     p.diffuse,
		Specular:    p.specular,
		CutOff:      p.cutOff,
		OuterCutOff: p.outerCutOff,
		Constant:    p.constant,
		Linear:      p.linear,
		Quadratic:   p.quadratic,
		Scale:       p.scale,
	}
}
