package loader

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates a glTF/GLB import: parse the document, walk the node hierarchy of the
// default scene, and collect one MeshData per triangle primitive with its material textures.
type gltfImporter interface {
	// Import loads a glTF/GLB file.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *ModelData: the imported model
	//   - error: error if import fails
	Import(path string) (*ModelData, error)

	// ImportReader loads a glTF document from a reader. GLB streams are detected by magic number.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - baseDir: the directory external buffers and images resolve against
	//
	// Returns:
	//   - *ModelData: the imported model
	//   - error: error if import fails
	ImportReader(r io.Reader, baseDir string) (*ModelData, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*ModelData, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return imp.importFromParser(parser, path)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, baseDir string) (*ModelData, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, baseDir); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importFromParser(parser, filepath.Join(baseDir, "stream"))
}

func (imp *gltfImporterImpl) importFromParser(parser gltfParser, source string) (*ModelData, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document after parsing")
	}

	meshes := newGLTFMeshExtractor(parser)
	materials := newGLTFMaterialExtractor(parser, source)
	out := &ModelData{Name: gltfModelName(doc)}

	emit := func(meshIndex int, world mgl32.Mat4) error {
		instances, err := meshes.ExtractMesh(meshIndex, world)
		if err != nil {
			return err
		}
		for _, inst := range instances {
			textures, err := materials.MaterialTextures(inst.material)
			if err != nil {
				return fmt.Errorf("mesh %s: %w", inst.mesh.Name, err)
			}
			inst.mesh.Textures = textures
			out.Meshes = append(out.Meshes, inst.mesh)
		}
		return nil
	}

	roots := gltfRootNodes(doc)
	if len(roots) == 0 {
		// Files without nodes still carry meshes; import them untransformed.
		for i := range doc.Meshes {
			if err := emit(i, mgl32.Ident4()); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	visited := make(map[int]bool, len(doc.Nodes))
	var walk func(nodeIndex int, parent mgl32.Mat4) error
	walk = func(nodeIndex int, parent mgl32.Mat4) error {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", nodeIndex)
		}
		if visited[nodeIndex] {
			return fmt.Errorf("node %d appears twice in the hierarchy", nodeIndex)
		}
		visited[nodeIndex] = true

		node := &doc.Nodes[nodeIndex]
		world := parent.Mul4(gltfNodeMatrix(node))
		if node.Mesh != nil {
			if err := emit(*node.Mesh, world); err != nil {
				return fmt.Errorf("node %d: %w", nodeIndex, err)
			}
		}
		for _, child := range node.Children {
			if err := walk(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, mgl32.Ident4()); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// gltfRootNodes returns the root nodes of the default scene, the first scene when none is marked
// default, or every parentless node when the file declares no scenes.
func gltfRootNodes(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		index := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			index = *doc.Scene
		}
		return doc.Scenes[index].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// gltfModelName returns the default scene name, or "" so the loader falls back to the path.
func gltfModelName(doc *gltfDocument) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Name
	}
	return ""
}
