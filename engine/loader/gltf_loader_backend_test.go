package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBuffer packs three float32 VEC3 positions followed by three uint16 indices.
func triangleBuffer() []byte {
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		_ = binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		_ = binary.Write(&buf, binary.LittleEndian, i)
	}
	buf.Write([]byte{0, 0})
	return buf.Bytes()
}

// triangleDocument returns a one-node document translated by (1, 0, 0). uri is the buffer URI,
// empty for GLB.
func triangleDocument(uri string, extra map[string]any) map[string]any {
	buffer := map[string]any{"byteLength": 44}
	if uri != "" {
		buffer["uri"] = uri
	}
	doc := map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"name": "tri", "nodes": []int{0}}},
		"nodes":  []any{map[string]any{"mesh": 0, "translation": []float32{1, 0, 0}}},
		"meshes": []any{map[string]any{
			"name": "triangle",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
			}},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

func dataURI(b []byte) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

func buildGLB(t *testing.T, doc map[string]any, bin []byte) []byte {
	t.Helper()
	js, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := uint32(gltfGLBHeaderSize + 8 + len(js) + 8 + len(bin))
	for _, v := range []uint32{gltfGLBMagic, gltfGLBVersion, total, uint32(len(js)), gltfGLBChunkJSON} {
		_ = binary.Write(&out, binary.LittleEndian, v)
	}
	out.Write(js)
	for _, v := range []uint32{uint32(len(bin)), gltfGLBChunkBIN} {
		_ = binary.Write(&out, binary.LittleEndian, v)
	}
	out.Write(bin)
	return out.Bytes()
}

func assertTranslatedTriangle(t *testing.T, data *ModelData) {
	t.Helper()
	require.Len(t, data.Meshes, 1)
	m := data.Meshes[0]
	assert.Equal(t, "triangle", m.Name)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	require.Len(t, m.Vertices, 3)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, m.Vertices[0].Position)
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, m.Vertices[1].Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 0}, m.Vertices[2].Position)
	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal.Z(), 1e-6)
	}
}

func TestGLTFDataURIBufferWithNodeTransform(t *testing.T) {
	dir := t.TempDir()
	js, err := json.Marshal(triangleDocument(dataURI(triangleBuffer()), nil))
	require.NoError(t, err)
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, js, 0o644))

	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tri", data.Name)
	assertTranslatedTriangle(t, data)
}

func TestGLTFExternalBuffer(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri data.bin"), triangleBuffer(), 0o644))
	js, err := json.Marshal(triangleDocument("tri%20data.bin", nil))
	require.NoError(t, err)
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, js, 0o644))

	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	assertTranslatedTriangle(t, data)
}

func TestGLBFromReader(t *testing.T) {
	glb := buildGLB(t, triangleDocument("", nil), triangleBuffer())

	data, err := NewLoader().LoadReader("tri.glb", bytes.NewReader(glb), BackendTypeGLTF, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "tri.glb", data.Name)
	assertTranslatedTriangle(t, data)
}

func TestGLTFMaterialTextures(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "albedo.png")
	writePNG(t, dir, "spec.png")

	doc := triangleDocument(dataURI(triangleBuffer()), map[string]any{
		"materials": []any{map[string]any{
			"pbrMetallicRoughness": map[string]any{"baseColorTexture": map[string]any{"index": 0}},
			"extensions": map[string]any{
				"KHR_materials_specular": map[string]any{"specularColorTexture": map[string]any{"index": 1}},
			},
		}},
		"textures": []any{map[string]any{"source": 0}, map[string]any{"source": 1}},
		"images":   []any{map[string]any{"uri": "albedo.png"}, map[string]any{"uri": "spec.png"}},
	})
	doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)["material"] = 0

	js, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, js, 0o644))

	data, err := NewLoader().Load(path)
	require.NoError(t, err)
	textures := data.Meshes[0].Textures
	require.Len(t, textures, 2)
	assert.Equal(t, common.TextureTypeDiffuse, textures[0].Type)
	assert.Equal(t, filepath.Join(dir, "albedo.png"), textures[0].Path)
	assert.Equal(t, common.TextureTypeSpecular, textures[1].Type)
	assert.True(t, textures[0].Decoded())
	assert.True(t, textures[1].Decoded())
}

func TestGLTFRejectsOutOfBoundsAccessor(t *testing.T) {
	doc := triangleDocument(dataURI(triangleBuffer()), nil)
	doc["accessors"].([]any)[0].(map[string]any)["count"] = 4
	js, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = NewLoader().LoadReader("bad", bytes.NewReader(js), BackendTypeGLTF, t.TempDir())
	assert.ErrorIs(t, err, errAccessorBounds)
}

func TestGLTFRejectsWrongVersion(t *testing.T) {
	doc := triangleDocument(dataURI(triangleBuffer()), nil)
	doc["asset"] = map[string]any{"version": "1.0"}
	js, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = NewLoader().LoadReader("old", bytes.NewReader(js), BackendTypeGLTF, t.TempDir())
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestLoaderRejectsUnknownExtension(t *testing.T) {
	l := NewLoader()
	_, err := l.Load("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, l.Supports("model.fbx"))
	assert.True(t, l.Supports("MODEL.OBJ"))
	assert.Equal(t, []string{".glb", ".gltf", ".obj"}, l.Extensions())
}

func TestLoaderCustomExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "tri.mesh", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")

	l := NewLoader(WithExtension(".MESH", BackendTypeOBJ))
	data, err := l.Load(path)
	require.NoError(t, err)
	assert.Len(t, data.Meshes, 1)
}
