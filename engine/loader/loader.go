package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupportedFormat is returned when no backend is registered for a file extension.
var ErrUnsupportedFormat = errors.New("loader: unsupported model format")

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF 2.0 / GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota

	// BackendTypeOBJ selects the Wavefront OBJ/MTL loader backend.
	BackendTypeOBJ
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	backends       map[string]loaderBackend
	decodeTextures bool
	logger         *slog.Logger
}

// Loader defines the public-facing interface for decoding model files into CPU-side ModelData.
// It abstracts the file format behind a backend chosen by file extension.
//
// A Loader holds no GPU state and is safe for concurrent use, so model files can be decoded on
// worker goroutines while GPU upload stays on the render thread.
type Loader interface {
	// Load decodes a model file. Textures are decoded to RGBA pixels unless disabled with
	// WithTextureDecoding(false). A texture that cannot be read fails the whole load.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - *ModelData: the decoded model
	//   - error: ErrUnsupportedFormat for unknown extensions, or a wrapped decode error
	Load(path string) (*ModelData, error)

	// LoadReader decodes a model from a stream. External resources (buffers, textures, material
	// libraries) are resolved relative to baseDir.
	//
	// Parameters:
	//   - name: the name recorded on the returned ModelData
	//   - r: the reader providing model data
	//   - backendType: the format of the stream
	//   - baseDir: the directory external references resolve against
	//
	// Returns:
	//   - *ModelData: the decoded model
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType, baseDir string) (*ModelData, error)

	// Supports reports whether a backend is registered for the path's extension.
	//
	// Parameters:
	//   - path: the file path to check
	//
	// Returns:
	//   - bool: true if Load can handle the file
	Supports(path string) bool

	// Extensions returns the registered file extensions, sorted.
	//
	// Returns:
	//   - []string: lower-case extensions including the dot
	Extensions() []string
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the glTF (.gltf, .glb) and OBJ (.obj) backends registered.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	gltf := newGLTFLoaderBackend()
	obj := newOBJLoaderBackend()
	l := &loader{
		backends: map[string]loaderBackend{
			".gltf": gltf,
			".glb":  gltf,
			".obj":  obj,
		},
		decodeTextures: true,
		logger:         slog.Default(),
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*ModelData, error) {
	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	data, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	data.Path = path
	if data.Name == "" {
		data.Name = path
	}

	if err := l.finish(data); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	l.logger.Debug("model decoded", "path", path, "meshes", len(data.Meshes), "vertices", data.VertexCount())
	return data, nil
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType, baseDir string) (*ModelData, error) {
	var backend loaderBackend
	switch backendType {
	case BackendTypeGLTF:
		backend = newGLTFLoaderBackend()
	case BackendTypeOBJ:
		backend = newOBJLoaderBackend()
	default:
		return nil, fmt.Errorf("%w: backend type %d", ErrUnsupportedFormat, backendType)
	}

	data, err := backend.LoadReader(r, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	data.Name = name

	if err := l.finish(data); err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return data, nil
}

func (l *loader) Supports(path string) bool {
	_, err := l.resolveBackend(path)
	return err == nil
}

func (l *loader) Extensions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	exts := make([]string, 0, len(l.backends))
	for ext := range l.backends {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// resolveBackend selects the loader backend registered for the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))

	l.mu.RLock()
	defer l.mu.RUnlock()
	if b, ok := l.backends[ext]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// finish validates the decoded geometry and decodes each distinct texture once.
func (l *loader) finish(data *ModelData) error {
	if len(data.Meshes) == 0 {
		return errors.New("file contains no triangle meshes")
	}
	for i, m := range data.Meshes {
		if len(m.Vertices) == 0 || len(m.Indices) == 0 {
			return fmt.Errorf("mesh %d (%s) is empty", i, m.Name)
		}
		if len(m.Indices)%3 != 0 {
			return fmt.Errorf("mesh %d (%s) has %d indices, not a triangle list", i, m.Name, len(m.Indices))
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(m.Vertices) {
				return fmt.Errorf("mesh %d (%s) index %d out of range", i, m.Name, idx)
			}
		}
	}

	if !l.decodeTextures {
		return nil
	}
	for _, t := range data.UniqueTextures() {
		if t.Decoded() {
			continue
		}
		if _, _, _, err := t.Decode(); err != nil {
			return fmt.Errorf("texture %s: %w", t.Path, err)
		}
	}
	return nil
}
