package light

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLightCount is the number of lights a LightManager holds across all three kinds.
// The bundled fragment shader sizes its light arrays with it.
const MaxLightCount = 16

// Uniform names of the light counts.
const (
	UniformNumDirLights   = "numDirLights"
	UniformNumPointLights = "numPointLights"
	UniformNumSpotLights  = "numSpotLights"
)

// lightManager is the implementation of the LightManager interface.
type lightManager struct {
	dirLights   []DirectionalLight
	pointLights []PointLight
	spotLights  []SpotLight
	count       int

	proxy  model.Mesh
	logger *slog.Logger
}

// LightManager collects the lights of a scene and writes them to a shader.
//
// Directional, point and spot lights share one capacity of MaxLightCount. Lights are append-only
// and keep their insertion order, which is also their index in the shader arrays.
//
// A LightManager has no internal locking; it is used from the thread that owns the GL context.
type LightManager interface {
	// AddDirLight appends a directional light if capacity remains.
	//
	// Parameters:
	//   - l: the light descriptor, copied
	//
	// Returns:
	//   - bool: false if the manager is full, in which case nothing changes
	AddDirLight(l DirectionalLight) bool

	// AddPointLight appends a point light if capacity remains.
	//
	// Parameters:
	//   - l: the light descriptor, copied
	//
	// Returns:
	//   - bool: false if the manager is full, in which case nothing changes
	AddPointLight(l PointLight) bool

	// AddSpotLight appends a spot light if capacity remains.
	//
	// Parameters:
	//   - l: the light descriptor, copied
	//
	// Returns:
	//   - bool: false if the manager is full, in which case nothing changes
	AddSpotLight(l SpotLight) bool

	// Count returns the number of lights of all kinds.
	Count() int

	// DirLightCount returns the number of directional lights.
	DirLightCount() int

	// PointLightCount returns the number of point lights.
	PointLightCount() int

	// SpotLightCount returns the number of spot lights.
	SpotLightCount() int

	// DirLights returns a copy of the directional lights in insertion order.
	DirLights() []DirectionalLight

	// PointLights returns a copy of the point lights in insertion order.
	PointLights() []PointLight

	// SpotLights returns a copy of the spot lights in insertion order.
	SpotLights() []SpotLight

	// SendLightsToShader writes the three counts and every light field. Light i of each kind goes
	// to <kind>[i].<field>, for example pointLights[1].position.
	//
	// Parameters:
	//   - s: the shader to write to
	SendLightsToShader(s shader.Shader)

	// DrawLightSources draws the proxy cube once per point and spot light, translated to the light
	// position, scaled by its Scale and colored with its diffuse term. Directional lights have no
	// proxy.
	//
	// Parameters:
	//   - s: the shader currently in use
	DrawLightSources(s shader.Shader)

	// Release gives back the proxy mesh reference.
	Release()
}

var _ LightManager = &lightManager{}

// NewLightManager creates an empty LightManager and uploads the unit cube used as the light proxy,
// unless WithProxyMesh supplies one.
//
// Parameters:
//   - r: the renderer the proxy cube is uploaded on
//   - options: functional options for the manager
//
// Returns:
//   - LightManager: the manager
//   - error: error if the proxy cube cannot be uploaded
func NewLightManager(r renderer.Renderer, options ...LightManagerBuilderOption) (LightManager, error) {
	if r == nil {
		panic("light: NewLightManager requires a non-nil Renderer")
	}
	lm := &lightManager{logger: slog.Default()}
	for _, option := range options {
		option(lm)
	}

	if lm.proxy == nil {
		g := model.BoxGeometry()
		cube, err := model.NewMesh(r, g.Vertices, g.Indices, model.WithMeshName("light proxy"))
		if err != nil {
			return nil, fmt.Errorf("failed to create light proxy: %w", err)
		}
		lm.proxy = cube
	}
	return lm, nil
}

// reserve claims one slot of the shared capacity.
func (lm *lightManager) reserve(kind LightType) bool {
	if lm.count+1 > MaxLightCount {
		lm.logger.Debug("light rejected: capacity reached", "kind", kind.String(), "count", lm.count, "max", MaxLightCount)
		return false
	}
	lm.count++
	return true
}

func (lm *lightManager) AddDirLight(l DirectionalLight) bool {
	if !lm.reserve(LightTypeDirectional) {
		return false
	}
	lm.dirLights = append(lm.dirLights, l)
	return true
}

func (lm *lightManager) AddPointLight(l PointLight) bool {
	if !lm.reserve(LightTypePoint) {
		return false
	}
	lm.pointLights = append(lm.pointLights, l)
	return true
}

func (lm *lightManager) AddSpotLight(l SpotLight) bool {
	if !lm.reserve(LightTypeSpot) {
		return false
	}
	lm.spotLights = append(lm.spotLights, l)
	return true
}

func (lm *lightManager) Count() int {
	return lm.count
}

func (lm *lightManager) DirLightCount() int {
	return len(lm.dirLights)
}

func (lm *lightManager) PointLightCount() int {
	return len(lm.pointLights)
}

func (lm *lightManager) SpotLightCount() int {
	return len(lm.spotLights)
}

func (lm *lightManager) DirLights() []DirectionalLight {
	return append([]DirectionalLight(nil), lm.dirLights...)
}

func (lm *lightManager) PointLights() []PointLight {
	return append([]PointLight(nil), lm.pointLights...)
}

func (lm *lightManager) SpotLights() []SpotLight {
	return append([]SpotLight(nil), lm.spotLights...)
}

func (lm *lightManager) SendLightsToShader(s shader.Shader) {
	s.SetInt(UniformNumDirLights, int32(len(lm.dirLights)))
	for i, l := range lm.dirLights {
		prefix := uniformPrefix(LightTypeDirectional, i)
		s.SetVec3(prefix+"direction", l.Direction)
		s.SetVec3(prefix+"ambient", l.Ambient)
		s.SetVec3(prefix+"diffuse", l.Diffuse)
		s.SetVec3(prefix+"specular", l.Specular)
	}

	s.SetInt(UniformNumPointLights, int32(len(lm.pointLights)))
	for i, l := range lm.pointLights {
		prefix := uniformPrefix(LightTypePoint, i)
		s.SetVec3(prefix+"position", l.Position)
		s.SetVec3(prefix+"ambient", l.Ambient)
		s.SetVec3(prefix+"diffuse", l.Diffuse)
		s.SetVec3(prefix+"specular", l.Specular)
		s.SetFloat(prefix+"constant", l.Constant)
		s.SetFloat(prefix+"linear", l.Linear)
		s.SetFloat(prefix+"quadratic", l.Quadratic)
	}

	s.SetInt(UniformNumSpotLights, int32(len(lm.spotLights)))
	for i, l := range lm.spotLights {
		prefix := uniformPrefix(LightTypeSpot, i)
		s.SetVec3(prefix+"position", l.Position)
		s.SetVec3(prefix+"direction", l.Direction)
		s.SetVec3(prefix+"ambient", l.Ambient)
		s.SetVec3(prefix+"diffuse", l.Diffuse)
		s.SetVec3(prefix+"specular", l.Specular)
		s.SetFloat(prefix+"cutOff", l.CutOff)
		s.SetFloat(prefix+"outerCutOff", l.OuterCutOff)
		s.SetFloat(prefix+"constant", l.Constant)
		s.SetFloat(prefix+"linear", l.Linear)
		s.SetFloat(prefix+"quadratic", l.Quadratic)
	}
}

func (lm *lightManager) DrawLightSources(s shader.Shader) {
	for _, l := range lm.pointLights {
		lm.drawProxy(s, l.Position, l.Scale, l.Diffuse)
	}
	for _, l := range lm.spotLights {
		lm.drawProxy(s, l.Position, l.Scale, l.Diffuse)
	}
}

func (lm *lightManager) drawProxy(s shader.Shader, position mgl32.Vec3, scale float32, color mgl32.Vec3) {
	m := mgl32.Translate3D(position.X(), position.Y(), position.Z()).Mul4(mgl32.Scale3D(scale, scale, scale))
	s.SetMat4("model", m)
	lm.proxy.DrawColor(s, color)
}

func (lm *lightManager) Release() {
	if lm.proxy != nil {
		lm.proxy.Release()
		lm.proxy = nil
	}
}

// uniformPrefix returns "<kind>[i]." for light i.
func uniformPrefix(kind LightType, i int) string {
	return kind.String() + "[" + strconv.Itoa(i) + "]."
}
