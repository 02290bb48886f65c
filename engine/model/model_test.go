package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadless(t *testing.T) renderer.Renderer {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	require.NoError(t, err)
	return r
}

func uploadTexture(t *testing.T, r renderer.Renderer, kind common.TextureType) common.Texture {
	t.Helper()
	id, err := r.UploadTexture(make([]byte, 4), 1, 1)
	require.NoError(t, err)
	return common.Texture{ID: id, Type: kind}
}

func TestMeshDrawNumbersTexturesPerType(t *testing.T) {
	r := newHeadless(t)
	d1 := uploadTexture(t, r, common.TextureTypeDiffuse)
	d2 := uploadTexture(t, r, common.TextureTypeDiffuse)
	s1 := uploadTexture(t, r, common.TextureTypeSpecular)

	g := BoxGeometry()
	m, err := NewMesh(r, g.Vertices, g.Indices, WithTextures(d1, s1, d2))
	require.NoError(t, err)

	rec := shader.NewRecorder()
	m.Draw(rec)

	assert.Equal(t, []shader.UniformWrite{
		{Name: UniformUseColor, Value: false},
		{Name: "material.texture_diffuse1", Value: int32(0)},
		{Name: "material.texture_specular1", Value: int32(1)},
		{Name: "material.texture_diffuse2", Value: int32(2)},
	}, rec.Writes())
	assert.Equal(t, 3, r.Stats().TextureBinds)
	assert.Equal(t, 1, r.Stats().DrawCalls)
}

func TestMeshDrawColor(t *testing.T) {
	r := newHeadless(t)
	g := PlaneGeometry()
	m, err := NewMesh(r, g.Vertices, g.Indices)
	require.NoError(t, err)

	rec := shader.NewRecorder()
	m.DrawColor(rec, mgl32.Vec3{1, 0, 0})

	assert.Equal(t, []shader.UniformWrite{
		{Name: UniformUseColor, Value: true},
		{Name: UniformColor, Value: mgl32.Vec3{1, 0, 0}},
	}, rec.Writes())
	assert.Equal(t, 0, r.Stats().TextureBinds)
}

func TestMeshRefCounting(t *testing.T) {
	r := newHeadless(t)
	g := BoxGeometry()
	m, err := NewMesh(r, g.Vertices, g.Indices, WithMeshName("box"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), m.RefCount())

	m.Retain()
	assert.Equal(t, int32(2), m.RefCount())

	m.Release()
	assert.Equal(t, 1, r.Stats().LiveMeshes())
	assert.True(t, m.Handle().Valid())

	m.Release()
	assert.Equal(t, 0, r.Stats().LiveMeshes())
	assert.False(t, m.Handle().Valid())

	assert.Panics(t, func() { m.Release() })
	assert.Panics(t, func() { m.Retain() })
}

func TestNewMeshRejectsEmpty(t *testing.T) {
	r := newHeadless(t)
	_, err := NewMesh(r, nil, nil, WithMeshName("empty"))
	assert.ErrorIs(t, err, renderer.ErrEmptyMesh)
	assert.Equal(t, 0, r.Stats().MeshUploads)
}

func TestNewModelWithoutMeshesReleasesTextures(t *testing.T) {
	r := newHeadless(t)
	tex := uploadTexture(t, r, common.TextureTypeDiffuse)

	_, err := NewModel(r, WithPath("empty.obj"), WithOwnedTextures(tex))
	assert.ErrorIs(t, err, ErrNoMeshes)
	assert.Equal(t, 0, r.Stats().LiveTextures())
}

func TestModelReleaseFreesMeshesAndTextures(t *testing.T) {
	r := newHeadless(t)
	tex := uploadTexture(t, r, common.TextureTypeDiffuse)
	g := BoxGeometry()
	a, err := NewMesh(r, g.Vertices, g.Indices, WithTextures(tex))
	require.NoError(t, err)
	b, err := NewMesh(r, g.Vertices, g.Indices, WithTextures(tex))
	require.NoError(t, err)

	m, err := NewModel(r, WithName("pair"), WithMeshes(a, b), WithOwnedTextures(tex))
	require.NoError(t, err)
	assert.Len(t, m.Meshes(), 2)

	rec := shader.NewRecorder()
	m.Draw(rec)
	assert.Equal(t, 2, r.Stats().DrawCalls)
	assert.Equal(t, []any{int32(0), int32(0)}, rec.Values("material.texture_diffuse1"))

	m.Retain()
	m.Release()
	assert.Equal(t, 2, r.Stats().LiveMeshes())

	m.Release()
	assert.Equal(t, 0, r.Stats().LiveMeshes())
	assert.Equal(t, 0, r.Stats().LiveTextures())
}

func TestFromDataSharesTextures(t *testing.T) {
	r := newHeadless(t)
	tex := &common.ImportedTexture{
		Type:   common.TextureTypeDiffuse,
		Path:   "wood.png",
		Width:  1,
		Height: 1,
		Pixels: []byte{255, 255, 255, 255},
	}
	g := BoxGeometry()
	data := &loader.ModelData{
		Name: "crates",
		Path: "crates.obj",
		Meshes: []loader.MeshData{
			{Name: "a", Vertices: g.Vertices, Indices: g.Indices, Textures: []*common.ImportedTexture{tex}},
			{Name: "b", Vertices: g.Vertices, Indices: g.Indices, Textures: []*common.ImportedTexture{tex}},
		},
	}

	m, err := FromData(r, data)
	require.NoError(t, err)
	assert.Equal(t, "crates", m.Name())
	assert.Equal(t, "crates.obj", m.Path())
	assert.Equal(t, 1, r.Stats().TextureUploads)
	require.Len(t, m.Textures(), 1)

	id := m.Textures()[0].ID
	for _, mesh := range m.Meshes() {
		require.Len(t, mesh.Textures(), 1)
		assert.Equal(t, id, mesh.Textures()[0].ID)
		assert.Equal(t, "wood.png", mesh.Textures()[0].Path)
	}

	m.Release()
	assert.Equal(t, 0, r.Stats().LiveMeshes())
	assert.Equal(t, 0, r.Stats().LiveTextures())
}

func TestFromDataCleansUpOnFailure(t *testing.T) {
	r := newHeadless(t)
	tex := &common.ImportedTexture{Type: common.TextureTypeDiffuse, Width: 1, Height: 1, Pixels: []byte{1, 2, 3, 4}}
	g := BoxGeometry()
	data := &loader.ModelData{
		Path: "broken.obj",
		Meshes: []loader.MeshData{
			{Name: "ok", Vertices: g.Vertices, Indices: g.Indices, Textures: []*common.ImportedTexture{tex}},
			{Name: "empty"},
		},
	}

	_, err := FromData(r, data)
	assert.ErrorIs(t, err, renderer.ErrEmptyMesh)
	assert.Equal(t, 0, r.Stats().LiveMeshes())
	assert.Equal(t, 0, r.Stats().LiveTextures())
}

func TestFromDataRejectsNoMeshes(t *testing.T) {
	_, err := FromData(newHeadless(t), &loader.ModelData{Path: "none.obj"})
	assert.ErrorIs(t, err, ErrNoMeshes)
}
