package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// gltfMeshInstance is one drawable primitive baked into model space, with the material
// index it references or -1.
type gltfMeshInstance struct {
	mesh     MeshData
	material int
}

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts glTF mesh primitives into MeshData. Vertices are transformed by the
// world matrix of the node that instantiates the mesh, because a Model draws all its meshes with
// the single model matrix of its entity.
type gltfMeshExtractor interface {
	// ExtractMesh extracts every triangle primitive of a mesh, transformed by world.
	// Point and line primitives are skipped.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//   - world: the world matrix of the instantiating node
	//
	// Returns:
	//   - []gltfMeshInstance: one entry per triangle primitive
	//   - error: error if an accessor cannot be read
	ExtractMesh(meshIndex int, world mgl32.Mat4) ([]gltfMeshInstance, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int, world mgl32.Mat4) ([]gltfMeshInstance, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := &doc.Meshes[meshIndex]
	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", meshIndex)
	}

	var result []gltfMeshInstance
	for primIdx := range mesh.Primitives {
		prim := &mesh.Primitives[primIdx]
		if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
			continue
		}

		primName := name
		if len(mesh.Primitives) > 1 {
			primName = fmt.Sprintf("%s.%d", name, primIdx)
		}
		data, err := e.extractPrimitive(prim, primName, world)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIndex, primIdx, err)
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}
		result = append(result, gltfMeshInstance{mesh: *data, material: material})
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, name string, world mgl32.Mat4) (*MeshData, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadFloats(posAccessor, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	vertexCount := len(positions) / 3
	vertices := make([]common.Vertex, vertexCount)
	for i := range vertices {
		vertices[i].Position = mgl32.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}

	hasNormals := false
	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadFloats(normalAccessor, 3)
		if err != nil {
			return nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := 0; i < vertexCount && i*3+2 < len(normals); i++ {
			vertices[i].Normal = mgl32.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
		}
		hasNormals = true
	}

	if uvAccessor, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := e.parser.ReadFloats(uvAccessor, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		// glTF puts the UV origin at the top-left; the renderer samples flipped images.
		for i := 0; i < vertexCount && i*2+1 < len(uvs); i++ {
			vertices[i].TexCoords = mgl32.Vec2{uvs[i*2], 1 - uvs[i*2+1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = e.parser.ReadIndices(*prim.Indices); err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	bakeTransform(vertices, indices, world)
	if !hasNormals {
		generateNormals(vertices, indices)
	}

	return &MeshData{Name: name, Vertices: vertices, Indices: indices}, nil
}

// bakeTransform applies world to positions and normals. A mirroring transform reverses triangle
// winding so front faces stay counter-clockwise.
func bakeTransform(vertices []common.Vertex, indices []uint32, world mgl32.Mat4) {
	if world == mgl32.Ident4() {
		return
	}

	normalMatrix := world.Mat3().Inv().Transpose()
	for i := range vertices {
		v := &vertices[i]
		v.Position = world.Mul4x1(v.Position.Vec4(1)).Vec3()
		if n := normalMatrix.Mul3x1(v.Normal); n.Len() > 0 {
			v.Normal = n.Normalize()
		}
	}

	if world.Det() < 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
		}
	}
}

// gltfNodeMatrix returns a node's local transform: its matrix when present, otherwise T * R * S.
func gltfNodeMatrix(node *gltfNode) mgl32.Mat4 {
	if node.Matrix != nil {
		return mgl32.Mat4(*node.Matrix)
	}

	m := mgl32.Ident4()
	if t := node.Translation; t != nil {
		m = mgl32.Translate3D(t[0], t[1], t[2])
	}
	if r := node.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if s := node.Scale; s != nil {
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}
