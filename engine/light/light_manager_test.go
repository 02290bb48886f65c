package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, options ...LightManagerBuilderOption) (renderer.Renderer, LightManager) {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	require.NoError(t, err)
	lm, err := NewLightManager(r, options...)
	require.NoError(t, err)
	return r, lm
}

func TestDescriptorDefaults(t *testing.T) {
	p := NewPointLight()
	assert.Equal(t, float32(1.0), p.Constant)
	assert.Equal(t, float32(0.09), p.Linear)
	assert.Equal(t, float32(0.032), p.Quadratic)
	assert.Equal(t, float32(1.0), p.Scale)

	s := NewSpotLight(WithPosition(1, 2, 3))
	assert.InDelta(t, math32.Cos(12.5*math32.Pi/180), s.CutOff, 1e-6)
	assert.InDelta(t, math32.Cos(18*math32.Pi/180), s.OuterCutOff, 1e-6)
	assert.Greater(t, s.CutOff, s.OuterCutOff)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, s.Position)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, s.Direction)

	d := NewDirectionalLight(WithDirection(0, -2, 0), WithDiffuse(0.5, 0.5, 0.6))
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, d.Direction)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.6}, d.Diffuse)
}

func TestCapacityIsShared(t *testing.T) {
	_, lm := newManager(t)
	for i := 0; i < 6; i++ {
		require.True(t, lm.AddDirLight(NewDirectionalLight()))
	}
	for i := 0; i < 5; i++ {
		require.True(t, lm.AddPointLight(NewPointLight()))
	}
	for i := 0; i < 5; i++ {
		require.True(t, lm.AddSpotLight(NewSpotLight()))
	}
	require.Equal(t, MaxLightCount, lm.Count())

	assert.False(t, lm.AddDirLight(NewDirectionalLight()))
	assert.False(t, lm.AddPointLight(NewPointLight()))
	assert.False(t, lm.AddSpotLight(NewSpotLight()))

	assert.Equal(t, MaxLightCount, lm.Count())
	assert.Equal(t, 6, lm.DirLightCount())
	assert.Equal(t, 5, lm.PointLightCount())
	assert.Equal(t, 5, lm.SpotLightCount())
}

func TestSendLightsUsesInsertionIndex(t *testing.T) {
	_, lm := newManager(t)
	p0 := NewPointLight(WithPosition(1, 0, 0))
	p1 := NewPointLight(WithPosition(0, 5, 0), WithAttenuation(1, 0.5, 0.25))
	require.True(t, lm.AddPointLight(p0))
	require.True(t, lm.AddPointLight(p1))
	require.True(t, lm.AddSpotLight(NewSpotLight(WithCutOffDegrees(10, 20))))

	rec := shader.NewRecorder()
	lm.SendLightsToShader(rec)

	value := func(name string) any {
		v, ok := rec.Value(name)
		require.True(t, ok, name)
		return v
	}
	assert.Equal(t, int32(0), value(UniformNumDirLights))
	assert.Equal(t, int32(2), value(UniformNumPointLights))
	assert.Equal(t, int32(1), value(UniformNumSpotLights))
	assert.Equal(t, p0.Position, value("pointLights[0].position"))
	assert.Equal(t, p1.Position, value("pointLights[1].position"))
	assert.Equal(t, float32(0.5), value("pointLights[1].linear"))
	assert.Equal(t, float32(0.25), value("pointLights[1].quadratic"))
	assert.InDelta(t, math32.Cos(10*math32.Pi/180), value("spotLights[0].cutOff"), 1e-6)
	assert.Equal(t, 0, rec.Count("dirLights[0].direction"))

	// 3 counts + 7 fields per point light + 10 per spot light.
	assert.Len(t, rec.Writes(), 3+2*7+10)
}

func TestDrawLightSourcesSkipsDirectional(t *testing.T) {
	r, lm := newManager(t)
	require.True(t, lm.AddDirLight(NewDirectionalLight()))
	require.True(t, lm.AddPointLight(NewPointLight(WithPosition(1, 2, 3), WithScale(0.2), WithDiffuse(1, 0, 0))))
	require.True(t, lm.AddSpotLight(NewSpotLight(WithDiffuse(0, 1, 0))))

	rec := shader.NewRecorder()
	lm.DrawLightSources(rec)

	assert.Equal(t, 2, r.Stats().DrawCalls)
	models := rec.Values("model")
	require.Len(t, models, 2)
	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
	assert.Equal(t, want, models[0])
	assert.Equal(t, []any{true, true}, rec.Values(model.UniformUseColor))
	assert.Equal(t, []any{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}}, rec.Values(model.UniformColor))
}

func TestProxyMeshLifecycle(t *testing.T) {
	r, lm := newManager(t)
	assert.Equal(t, 1, r.Stats().LiveMeshes())
	lm.Release()
	lm.Release()
	assert.Equal(t, 0, r.Stats().LiveMeshes())
}

func TestWithProxyMesh(t *testing.T) {
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	require.NoError(t, err)
	g := model.SphereGeometry(8, 4)
	sphere, err := model.NewMesh(r, g.Vertices, g.Indices)
	require.NoError(t, err)

	lm, err := NewLightManager(r, WithProxyMesh(sphere))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Stats().MeshUploads)
	assert.Equal(t, int32(2), sphere.RefCount())

	lm.Release()
	assert.Equal(t, int32(1), sphere.RefCount())
}
