package loader

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writePNG writes a 1x2 image: red on top, blue at the bottom.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

const quadOBJ = `# unit quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func TestOBJFanTriangulatesAndGeneratesNormals(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quad.obj", quadOBJ)

	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, data.Meshes, 1)

	m := data.Meshes[0]
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Z(), 1e-6)
	}
	assert.Equal(t, mgl32.Vec2{1, 1}, m.Vertices[2].TexCoords)
	assert.Equal(t, path, data.Path)
	assert.Equal(t, path, data.Name)
}

func TestOBJNegativeIndicesAndExplicitNormals(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 -1
f -3//-1 -2//-1 -1//-1
`
	data, err := NewLoader().LoadReader("tri", strings.NewReader(src), BackendTypeOBJ, t.TempDir())
	require.NoError(t, err)
	require.Len(t, data.Meshes, 1)

	m := data.Meshes[0]
	assert.Equal(t, "tri", data.Name)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	for _, v := range m.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 0, -1}, v.Normal)
	}
}

func TestOBJRejectsMissingVertex(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nf 1 2 3\n"
	_, err := NewLoader().LoadReader("bad", strings.NewReader(src), BackendTypeOBJ, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestOBJMaterialsSplitMeshesAndShareTextures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "wood.png")
	writePNG(t, dir, "wood_spec.png")
	writeFile(t, dir, "box.mtl", `newmtl first
map_Kd wood.png
map_Ks wood_spec.png
newmtl second
map_Kd -bm 1.0 wood.png
`)
	path := writeFile(t, dir, "box.obj", `mtllib box.mtl
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
usemtl first
f 1 2 3
usemtl second
f 2 4 3
`)

	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, data.Meshes, 2)

	first, second := data.Meshes[0], data.Meshes[1]
	require.Len(t, first.Textures, 2)
	require.Len(t, second.Textures, 1)
	assert.Equal(t, common.TextureTypeDiffuse, first.Textures[0].Type)
	assert.Equal(t, common.TextureTypeSpecular, first.Textures[1].Type)
	assert.Same(t, first.Textures[0], second.Textures[0])
	assert.Len(t, data.UniqueTextures(), 2)

	// Decoded pixels are flipped so the bottom row comes first.
	diffuse := first.Textures[0]
	require.True(t, diffuse.Decoded())
	assert.Equal(t, 1, diffuse.Width)
	assert.Equal(t, 2, diffuse.Height)
	assert.Equal(t, []byte{0, 0, 255, 255, 255, 0, 0, 255}, diffuse.Pixels)
}

func TestOBJMissingTextureFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.mtl", "newmtl m\nmap_Kd missing.png\n")
	path := writeFile(t, dir, "m.obj", "mtllib m.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl m\nf 1 2 3\n")

	_, err := NewLoader().Load(path)
	assert.Error(t, err)

	data, err := NewLoader(WithTextureDecoding(false)).Load(path)
	require.NoError(t, err)
	require.Len(t, data.Meshes[0].Textures, 1)
	assert.False(t, data.Meshes[0].Textures[0].Decoded())
	assert.Equal(t, filepath.Join(dir, "missing.png"), data.Meshes[0].Textures[0].Path)
}

func TestOBJMissingMaterialLibraryFailsLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.obj", "mtllib nope.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	_, err := NewLoader().Load(path)
	assert.Error(t, err)
}

func TestOBJWithoutFacesFailsLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty.obj", "v 0 0 0\n")
	_, err := NewLoader().Load(path)
	assert.Error(t, err)
}
