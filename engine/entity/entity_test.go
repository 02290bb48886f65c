package entity

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCube(t *testing.T) (renderer.Renderer, model.Mesh) {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	require.NoError(t, err)
	g := model.BoxGeometry()
	m, err := model.NewMesh(r, g.Vertices, g.Indices)
	require.NoError(t, err)
	return r, m
}

func TestColoredMeshEntityDraw(t *testing.T) {
	r, cube := newCube(t)
	e := NewMeshEntity(cube, WithPosition(2, 0, 0), WithColor(mgl32.Vec3{1, 0.5, 0}))

	rec := shader.NewRecorder()
	e.Draw(rec)

	writes := rec.Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, UniformModel, writes[0].Name)
	assert.Equal(t, mgl32.Translate3D(2, 0, 0), writes[0].Value)
	assert.Equal(t, shader.UniformWrite{Name: model.UniformUseColor, Value: true}, writes[1])
	assert.Equal(t, shader.UniformWrite{Name: model.UniformColor, Value: mgl32.Vec3{1, 0.5, 0}}, writes[2])
	assert.Equal(t, 1, r.Stats().DrawCalls)
}

func TestTexturedMeshEntityDraw(t *testing.T) {
	_, cube := newCube(t)
	e := NewMeshEntity(cube)

	rec := shader.NewRecorder()
	e.Draw(rec)

	v, ok := rec.Value(model.UniformUseColor)
	require.True(t, ok)
	assert.Equal(t, false, v)
	assert.Equal(t, 0, rec.Count(model.UniformColor))
	_, hasColor := e.Color()
	assert.False(t, hasColor)
}

func TestModelEntityIgnoresColor(t *testing.T) {
	r, cube := newCube(t)
	m, err := model.NewModel(r, model.WithName("cube"), model.WithMeshes(cube))
	require.NoError(t, err)

	e := NewModelEntity(m, WithColor(mgl32.Vec3{1, 0, 0}), WithScale(2, 2, 2))
	rec := shader.NewRecorder()
	e.Draw(rec)

	assert.Equal(t, []any{false}, rec.Values(model.UniformUseColor))
	assert.Equal(t, []any{mgl32.Scale3D(2, 2, 2)}, rec.Values(UniformModel))
	assert.Equal(t, 1, r.Stats().DrawCalls)
}

func TestDisabledEntityDrawsNothing(t *testing.T) {
	r, cube := newCube(t)
	e := NewMeshEntity(cube)
	e.SetEnabled(false)

	rec := shader.NewRecorder()
	e.Draw(rec)
	assert.Empty(t, rec.Writes())
	assert.Equal(t, 0, r.Stats().DrawCalls)

	e.SetEnabled(true)
	e.Draw(rec)
	assert.Equal(t, 1, r.Stats().DrawCalls)
}

func TestEntityHoldsPayloadReference(t *testing.T) {
	r, cube := newCube(t)
	e := NewMeshEntity(cube)
	assert.Equal(t, int32(2), cube.RefCount())

	cube.Release()
	assert.Equal(t, 1, r.Stats().LiveMeshes())

	e.Release()
	e.Release()
	assert.Equal(t, 0, r.Stats().LiveMeshes())

	rec := shader.NewRecorder()
	e.Draw(rec)
	assert.Empty(t, rec.Writes())
}

func TestEntityIDsAndTransform(t *testing.T) {
	_, cube := newCube(t)
	a := NewMeshEntity(cube, WithName("a"))
	b := NewMeshEntity(cube, WithTransform(transform.New(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{1, 1, 1})))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "a", a.Name())
	assert.Equal(t, transform.Identity(), a.Transform())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, b.Transform().Position)

	a.SetTransform(b.Transform())
	assert.Equal(t, b.Transform(), a.Transform())
}

func TestNilPayloadPanics(t *testing.T) {
	assert.Panics(t, func() { NewMeshEntity(nil) })
	assert.Panics(t, func() { NewModelEntity(nil) })
}
