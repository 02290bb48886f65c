package model

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ErrNoMeshes is returned when a model would be built without any meshes.
var ErrNoMeshes = errors.New("model: no meshes")

// model is the implementation of the Model interface.
type model struct {
	name     string
	path     string
	meshes   []Mesh
	textures []common.Texture

	r    renderer.Renderer
	refs atomic.Int32
}

// Model is an ordered list of meshes loaded from one file, plus the textures uploaded for them.
//
// A Model is shared by reference like a Mesh. It owns one reference to each of its meshes and owns
// its textures outright; both are given back when the last Model reference is released.
type Model interface {
	// Name returns the debug name of the model.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Path returns the file the model was loaded from, empty for models assembled in code.
	//
	// Returns:
	//   - string: the source path
	Path() string

	// Meshes returns the constituent meshes in draw order.
	//
	// Returns:
	//   - []Mesh: the meshes
	Meshes() []Mesh

	// Textures returns every texture the model owns, each exactly once.
	//
	// Returns:
	//   - []common.Texture: the textures
	Textures() []common.Texture

	// Draw renders each mesh in order with its own textures.
	//
	// Parameters:
	//   - s: the shader currently in use
	Draw(s shader.Shader)

	// Retain takes an additional reference.
	//
	// Returns:
	//   - Model: the same model, for chaining
	Retain() Model

	// Release gives back one reference. When none remain the meshes and textures are released.
	Release()

	// RefCount returns the number of outstanding references.
	//
	// Returns:
	//   - int32: the reference count
	RefCount() int32
}

var _ Model = &model{}

// NewModel assembles a Model that holds one reference for the caller.
// The model adopts the caller's reference to every mesh passed with WithMeshes and takes ownership
// of every texture passed with WithOwnedTextures.
//
// Parameters:
//   - r: the renderer the textures were uploaded on
//   - options: functional options for the model
//
// Returns:
//   - Model: the model
//   - error: ErrNoMeshes if no meshes were supplied
func NewModel(r renderer.Renderer, options ...ModelBuilderOption) (Model, error) {
	if r == nil {
		panic("model: NewModel requires a non-nil Renderer")
	}
	m := &model{r: r}
	for _, opt := range options {
		opt(m)
	}
	if len(m.meshes) == 0 {
		for _, t := range m.textures {
			r.ReleaseTexture(t.ID)
		}
		return nil, fmt.Errorf("%w: %s", ErrNoMeshes, common.Coalesce(m.path, m.name, "unnamed model"))
	}
	m.refs.Store(1)
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Path() string {
	return m.path
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) Textures() []common.Texture {
	return m.textures
}

func (m *model) Draw(s shader.Shader) {
	for _, mesh := range m.meshes {
		mesh.Draw(s)
	}
}

func (m *model) Retain() Model {
	if m.refs.Add(1) <= 1 {
		panic(fmt.Sprintf("model: Retain on released model %q", m.path))
	}
	return m
}

func (m *model) Release() {
	n := m.refs.Add(-1)
	switch {
	case n == 0:
		for _, mesh := range m.meshes {
			mesh.Release()
		}
		for _, t := range m.textures {
			m.r.ReleaseTexture(t.ID)
		}
	case n < 0:
		panic(fmt.Sprintf("model: model %q released more times than retained", m.path))
	}
}

func (m *model) RefCount() int32 {
	return m.refs.Load()
}
