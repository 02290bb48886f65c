package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/entity"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func newScene(t *testing.T, options ...SceneBuilderOption) (renderer.Renderer, Scene) {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeHeadless)
	require.NoError(t, err)
	s := NewScene(r, append([]SceneBuilderOption{WithLoadWorkers(2)}, options...)...)
	t.Cleanup(s.Close)
	return r, s
}

func writeOBJ(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMeshCacheIdentity(t *testing.T) {
	r, s := newScene(t)

	a, err := s.GetOrCreateMesh(model.MeshKeyBox)
	require.NoError(t, err)
	b, err := s.GetOrCreateMesh(model.MeshKeyBox)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Stats().MeshUploads)
	assert.Equal(t, []string{"box"}, s.MeshKeys())
}

func TestUnknownMeshKey(t *testing.T) {
	_, s := newScene(t)
	_, err := s.GetOrCreateMesh("teapot")
	assert.ErrorIs(t, err, ErrUnknownMesh)
	assert.Empty(t, s.MeshKeys())
}

func TestFailingMeshFactoryLeavesNoEntry(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, s := newScene(t, WithMeshFactory("flaky", func(r renderer.Renderer) (model.Mesh, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return model.GeometryFactory("flaky", model.PlaneGeometry)(r)
	}))

	_, err := s.GetOrCreateMesh("flaky")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.MeshKeys())

	m, err := s.GetOrCreateMesh("flaky")
	require.NoError(t, err)
	assert.Equal(t, "flaky", m.Name())
}

func TestModelCacheEndToEnd(t *testing.T) {
	r, s := newScene(t)
	path := writeOBJ(t, t.TempDir(), "a.obj", triangleOBJ)

	m1, err := s.GetOrCreateModel(path)
	require.NoError(t, err)
	m2, err := s.GetOrCreateModel(path)
	require.NoError(t, err)
	require.Same(t, m1, m2)
	assert.Equal(t, 1, r.Stats().MeshUploads)

	s.AddEntity(entity.NewModelEntity(m1, entity.WithPosition(1, 0, 0)))
	s.AddEntity(entity.NewModelEntity(m1, entity.WithPosition(-1, 0, 0)))

	rec := shader.NewRecorder()
	s.Draw(rec)

	assert.Equal(t, 2, r.Stats().DrawCalls)
	writes := rec.Writes()
	require.Len(t, writes, 4)
	assert.Equal(t, shader.UniformWrite{Name: entity.UniformModel, Value: mgl32.Translate3D(1, 0, 0)}, writes[0])
	assert.Equal(t, model.UniformUseColor, writes[1].Name)
	assert.Equal(t, shader.UniformWrite{Name: entity.UniformModel, Value: mgl32.Translate3D(-1, 0, 0)}, writes[2])
	assert.Equal(t, model.UniformUseColor, writes[3].Name)
}

func TestFailedModelLoadCanBeRetried(t *testing.T) {
	_, s := newScene(t)
	dir := t.TempDir()
	path := writeOBJ(t, dir, "a.obj", "v 0 0 0\nf 1 2 3\n")

	_, err := s.GetOrCreateModel(path)
	require.Error(t, err)
	assert.Empty(t, s.ModelKeys())

	writeOBJ(t, dir, "a.obj", triangleOBJ)
	m, err := s.GetOrCreateModel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, s.ModelKeys())
	assert.Len(t, m.Meshes(), 1)
}

func TestDrawPolymorphism(t *testing.T) {
	r, s := newScene(t)
	box, err := s.GetOrCreateMesh(model.MeshKeyBox)
	require.NoError(t, err)
	m, err := s.GetOrCreateModel(writeOBJ(t, t.TempDir(), "a.obj", triangleOBJ))
	require.NoError(t, err)

	s.AddEntity(entity.NewMeshEntity(box, entity.WithColor(mgl32.Vec3{1, 1, 1})))
	s.AddEntity(entity.NewModelEntity(m))
	require.Len(t, s.Entities(), 2)

	rec := shader.NewRecorder()
	s.Draw(rec)

	assert.Equal(t, 2, r.Stats().DrawCalls)
	assert.Equal(t, []any{true, false}, rec.Values(model.UniformUseColor))
	assert.Equal(t, 1, rec.Count(model.UniformColor))
}

func TestPreload(t *testing.T) {
	_, s := newScene(t)
	dir := t.TempDir()
	good := []string{
		writeOBJ(t, dir, "a.obj", triangleOBJ),
		writeOBJ(t, dir, "b.obj", triangleOBJ),
		writeOBJ(t, dir, "c.obj", triangleOBJ),
	}
	bad := filepath.Join(dir, "missing.obj")

	err := s.Preload(context.Background(), append(good, bad, good[0])...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.obj")
	assert.Equal(t, good, s.ModelKeys())

	cached, err := s.GetOrCreateModel(good[1])
	require.NoError(t, err)
	require.NoError(t, s.Preload(context.Background(), good...))
	again, err := s.GetOrCreateModel(good[1])
	require.NoError(t, err)
	assert.Same(t, cached, again)
}

func TestPreloadCanceled(t *testing.T) {
	_, s := newScene(t)
	path := writeOBJ(t, t.TempDir(), "a.obj", triangleOBJ)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Preload(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.ModelKeys())
}

func TestCloseReleasesEverything(t *testing.T) {
	r, s := newScene(t)
	box, err := s.GetOrCreateMesh(model.MeshKeyBox)
	require.NoError(t, err)
	m, err := s.GetOrCreateModel(writeOBJ(t, t.TempDir(), "a.obj", triangleOBJ))
	require.NoError(t, err)
	s.AddEntity(entity.NewMeshEntity(box))
	s.AddEntity(entity.NewModelEntity(m))
	assert.Equal(t, int32(2), box.RefCount())

	s.Close()
	s.Close()
	assert.Equal(t, 0, r.Stats().LiveMeshes())
	assert.Empty(t, s.Entities())
	assert.Empty(t, s.MeshKeys())
}

func TestAddNilEntityPanics(t *testing.T) {
	_, s := newScene(t)
	assert.Panics(t, func() { s.AddEntity(nil) })
	assert.Panics(t, func() { NewScene(nil) })
}
