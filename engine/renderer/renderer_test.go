package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadless(t *testing.T) Renderer {
	t.Helper()
	r, err := NewRenderer(BackendTypeHeadless)
	require.NoError(t, err)
	return r
}

func triangle() ([]common.Vertex, []uint32) {
	return []common.Vertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}, []uint32{0, 1, 2}
}

func TestUploadAndReleaseMesh(t *testing.T) {
	r := newHeadless(t)
	v, i := triangle()

	h, err := r.UploadMesh(v, i)
	require.NoError(t, err)
	assert.True(t, h.Valid())
	assert.Equal(t, int32(3), h.IndexCount)
	assert.Equal(t, 1, r.Stats().LiveMeshes())

	r.DrawMesh(h)
	assert.Equal(t, 1, r.Stats().DrawCalls)

	r.ReleaseMesh(h)
	assert.Equal(t, 0, r.Stats().LiveMeshes())
}

func TestUploadMeshRejectsEmpty(t *testing.T) {
	r := newHeadless(t)
	_, err := r.UploadMesh(nil, []uint32{0})
	assert.ErrorIs(t, err, ErrEmptyMesh)
	assert.Equal(t, 0, r.Stats().MeshUploads)
}

func TestUploadMeshRejectsOutOfRangeIndex(t *testing.T) {
	r := newHeadless(t)
	v, _ := triangle()
	_, err := r.UploadMesh(v, []uint32{0, 1, 3})
	assert.Error(t, err)
	assert.Equal(t, 0, r.Stats().MeshUploads)
}

func TestInvalidHandleIsIgnored(t *testing.T) {
	r := newHeadless(t)
	r.DrawMesh(MeshHandle{})
	r.ReleaseMesh(MeshHandle{})
	assert.Equal(t, Stats{}, r.Stats())
}

func TestUploadTextureValidatesSize(t *testing.T) {
	r := newHeadless(t)

	_, err := r.UploadTexture(make([]byte, 3), 1, 1)
	assert.Error(t, err)

	_, err = r.UploadTexture(nil, 0, 4)
	assert.Error(t, err)

	id, err := r.UploadTexture(make([]byte, 2*2*4), 2, 2)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, r.Stats().LiveTextures())

	r.ReleaseTexture(id)
	r.ReleaseTexture(0)
	assert.Equal(t, 0, r.Stats().LiveTextures())
}

func TestUnknownBackend(t *testing.T) {
	_, err := NewRenderer(RendererBackendType(42))
	assert.Error(t, err)
	assert.Equal(t, "unknown", RendererBackendType(42).String())
	assert.Equal(t, "headless", BackendTypeHeadless.String())
}
