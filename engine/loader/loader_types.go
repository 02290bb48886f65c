package loader

import "github.com/Carmen-Shannon/oxy-gl/common"

// ModelData is the CPU-side result of decoding a model file: geometry and decoded textures, ready
// for GPU upload. It holds no GPU state and may be produced on any goroutine.
type ModelData struct {
	// Name is the model name taken from the file, or the path when the file has none.
	Name string

	// Path is the file the data was decoded from, empty for reader-based loads.
	Path string

	// Meshes are the constituent meshes in draw order.
	Meshes []MeshData
}

// MeshData is one triangle-list mesh of a ModelData.
type MeshData struct {
	// Name identifies the mesh within its file.
	Name string

	// Vertices is the vertex list.
	Vertices []common.Vertex

	// Indices is the triangle list.
	Indices []uint32

	// Textures are the textures bound on the textured draw path, in binding order.
	// Meshes that reference the same image share the same *ImportedTexture.
	Textures []*common.ImportedTexture
}

// UniqueTextures returns every distinct texture referenced by the model's meshes, in first-use order.
//
// Returns:
//   - []*common.ImportedTexture: the distinct textures
func (d *ModelData) UniqueTextures() []*common.ImportedTexture {
	seen := make(map[*common.ImportedTexture]struct{})
	var out []*common.ImportedTexture
	for _, m := range d.Meshes {
		for _, t := range m.Textures {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// VertexCount returns the total number of vertices across all meshes.
func (d *ModelData) VertexCount() int {
	n := 0
	for _, m := range d.Meshes {
		n += len(m.Vertices)
	}
	return n
}

// textureSet dedupes textures by source key within one load, mirroring how a model file may reference
// the same image from several materials.
type textureSet map[string]*common.ImportedTexture

// get returns the texture registered under key, creating it with fn on first use.
func (s textureSet) get(key string, fn func() *common.ImportedTexture) *common.ImportedTexture {
	if t, ok := s[key]; ok {
		return t
	}
	t := fn()
	s[key] = t
	return t
}
