package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files with MTL material
// libraries. Polygons are fan-triangulated and a new mesh starts whenever the object, group, or
// material changes. map_Kd binds as texture_diffuse and map_Ks as texture_specular.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string) (*ModelData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	defer f.Close()

	return b.LoadReader(f, filepath.Dir(path))
}

func (b *objLoaderBackendImpl) LoadReader(r io.Reader, baseDir string) (*ModelData, error) {
	p := &objParser{
		baseDir:   baseDir,
		materials: make(map[string][]*common.ImportedTexture),
		textures:  make(textureSet),
	}
	if err := p.parse(r); err != nil {
		return nil, err
	}
	return &ModelData{Meshes: p.meshes}, nil
}

// objVertexKey identifies a unique position/texcoord/normal combination; 0 means absent.
type objVertexKey [3]int

// objParser holds the state of one OBJ decode.
type objParser struct {
	baseDir string

	positions []mgl32.Vec3
	texCoords []mgl32.Vec2
	normals   []mgl32.Vec3

	materials map[string][]*common.ImportedTexture
	textures  textureSet

	group    string
	material string
	current  *objMesh
	meshes   []MeshData
}

// objMesh accumulates the triangles of the mesh being built.
type objMesh struct {
	data       MeshData
	lookup     map[objVertexKey]uint32
	hasNormals bool
}

func (p *objParser) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v mgl32.Vec3
			if v, err = parseVec3(fields[1:]); err == nil {
				p.positions = append(p.positions, v)
			}
		case "vt":
			var v mgl32.Vec2
			if v, err = parseVec2(fields[1:]); err == nil {
				p.texCoords = append(p.texCoords, v)
			}
		case "vn":
			var v mgl32.Vec3
			if v, err = parseVec3(fields[1:]); err == nil {
				p.normals = append(p.normals, v)
			}
		case "f":
			err = p.face(fields[1:])
		case "o", "g":
			p.group = strings.Join(fields[1:], " ")
			p.flush()
		case "usemtl":
			p.material = strings.Join(fields[1:], " ")
			p.flush()
		case "mtllib":
			for _, name := range fields[1:] {
				if err = p.loadMaterialLibrary(name); err != nil {
					break
				}
			}
		}
		// s, l, p and the rest are ignored.

		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read OBJ: %w", err)
	}

	p.flush()
	return nil
}

// flush finishes the current mesh. Meshes without faces are dropped.
func (p *objParser) flush() {
	m := p.current
	p.current = nil
	if m == nil || len(m.data.Indices) == 0 {
		return
	}
	if !m.hasNormals {
		generateNormals(m.data.Vertices, m.data.Indices)
	}
	p.meshes = append(p.meshes, m.data)
}

func (p *objParser) face(tokens []string) error {
	if len(tokens) < 3 {
		return fmt.Errorf("face has %d vertices, need at least 3", len(tokens))
	}

	if p.current == nil {
		name := p.group
		if name == "" {
			name = p.material
		}
		if name == "" {
			name = fmt.Sprintf("mesh%d", len(p.meshes))
		}
		p.current = &objMesh{
			data:       MeshData{Name: name, Textures: p.materials[p.material]},
			lookup:     make(map[objVertexKey]uint32),
			hasNormals: true,
		}
	}

	corners := make([]uint32, len(tokens))
	for i, tok := range tokens {
		idx, err := p.corner(tok)
		if err != nil {
			return err
		}
		corners[i] = idx
	}

	for i := 1; i+1 < len(corners); i++ {
		p.current.data.Indices = append(p.current.data.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// corner resolves a v, v/vt, v//vn, or v/vt/vn token to a deduplicated vertex index.
func (p *objParser) corner(token string) (uint32, error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 {
		return 0, fmt.Errorf("malformed face vertex %q", token)
	}

	var key objVertexKey
	counts := [3]int{len(p.positions), len(p.texCoords), len(p.normals)}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return 0, fmt.Errorf("face vertex %q has no position", token)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("malformed face vertex %q", token)
		}
		if n < 0 {
			n = counts[i] + n + 1
		}
		if n < 1 || n > counts[i] {
			return 0, fmt.Errorf("face vertex %q references missing element %s", token, part)
		}
		key[i] = n
	}

	m := p.current
	if idx, ok := m.lookup[key]; ok {
		return idx, nil
	}

	v := common.Vertex{Position: p.positions[key[0]-1]}
	if key[1] > 0 {
		v.TexCoords = p.texCoords[key[1]-1]
	}
	if key[2] > 0 {
		v.Normal = p.normals[key[2]-1]
	} else {
		m.hasNormals = false
	}

	idx := uint32(len(m.data.Vertices))
	m.data.Vertices = append(m.data.Vertices, v)
	m.lookup[key] = idx
	return idx, nil
}

// loadMaterialLibrary reads the texture maps of every material in an MTL file.
func (p *objParser) loadMaterialLibrary(name string) error {
	path := filepath.Join(p.baseDir, filepath.FromSlash(name))
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open material library: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	current := ""
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(stripComment(scanner.Text()))
		if len(fields) < 2 {
			continue
		}

		var kind common.TextureType
		switch strings.ToLower(fields[0]) {
		case "newmtl":
			current = strings.Join(fields[1:], " ")
			if _, ok := p.materials[current]; !ok {
				p.materials[current] = nil
			}
			continue
		case "map_kd":
			kind = common.TextureTypeDiffuse
		case "map_ks":
			kind = common.TextureTypeSpecular
		default:
			continue
		}

		if current == "" {
			return fmt.Errorf("%s line %d: texture map before newmtl", name, line)
		}
		// Map options such as -bm 1.0 precede the file name.
		texPath := filepath.Join(p.baseDir, filepath.FromSlash(fields[len(fields)-1]))
		t := p.textures.get(string(kind)+"|"+texPath, func() *common.ImportedTexture {
			return &common.ImportedTexture{Type: kind, Path: texPath}
		})
		p.materials[current] = append(p.materials[current], t)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read material library %s: %w", name, err)
	}
	return nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, nil
}

func parseVec2(fields []string) (mgl32.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		// "vt u" is legal; v defaults to 0.
		if f1, err1 := parseFloats(fields, 1); err1 == nil {
			return mgl32.Vec2{f1[0], 0}, nil
		}
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{f[0], f[1]}, nil
}
