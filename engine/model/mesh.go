package model

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names written by mesh draws.
const (
	UniformUseColor = "material.useColor"
	UniformColor    = "material.color"
	uniformMaterial = "material."
)

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name     string
	vertices []common.Vertex
	indices  []uint32
	textures []common.Texture

	r      renderer.Renderer
	handle renderer.MeshHandle
	refs   atomic.Int32
}

// Mesh is a GPU-resident triangle list with its textures.
//
// The vertex, index and texture lists are fixed at construction. A Mesh is shared by reference:
// every owner holds one reference, taken with Retain and given back with Release. The GPU buffers
// are freed when the last reference is released. Textures are borrowed and released by whoever
// uploaded them (normally the owning Model).
type Mesh interface {
	// Name returns the debug name of the mesh.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Vertices returns the vertex list. Callers must not modify it.
	//
	// Returns:
	//   - []common.Vertex: the vertices
	Vertices() []common.Vertex

	// Indices returns the triangle list indices. Callers must not modify it.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// Textures returns the textures bound by the textured draw path, in binding order.
	//
	// Returns:
	//   - []common.Texture: the textures
	Textures() []common.Texture

	// Handle returns the GPU handle. It is invalid once the last reference is released.
	//
	// Returns:
	//   - renderer.MeshHandle: the handle
	Handle() renderer.MeshHandle

	// Draw renders the mesh with its textures. It writes material.useColor=false, then binds
	// texture i to unit i and writes its unit to material.<type>N, where N counts from 1 per type.
	//
	// Parameters:
	//   - s: the shader currently in use
	Draw(s shader.Shader)

	// DrawColor renders the mesh as a single flat color without sampling textures.
	// It writes material.useColor=true and material.color.
	//
	// Parameters:
	//   - s: the shader currently in use
	//   - color: the RGB color
	DrawColor(s shader.Shader, color mgl32.Vec3)

	// Retain takes an additional reference.
	//
	// Returns:
	//   - Mesh: the same mesh, for chaining
	Retain() Mesh

	// Release gives back one reference and frees the GPU buffers when none remain.
	Release()

	// RefCount returns the number of outstanding references.
	//
	// Returns:
	//   - int32: the reference count
	RefCount() int32
}

var _ Mesh = &mesh{}

// NewMesh uploads the vertices and indices and returns a Mesh holding one reference for the caller.
//
// Parameters:
//   - r: the renderer the buffers are created on
//   - vertices: the vertex list
//   - indices: the triangle list indices
//   - options: functional options for the mesh
//
// Returns:
//   - Mesh: the uploaded mesh
//   - error: an error if upload fails, in which case nothing is allocated
func NewMesh(r renderer.Renderer, vertices []common.Vertex, indices []uint32, options ...MeshBuilderOption) (Mesh, error) {
	if r == nil {
		panic("model: NewMesh requires a non-nil Renderer")
	}
	m := &mesh{
		r:        r,
		vertices: vertices,
		indices:  indices,
	}
	for _, opt := range options {
		opt(m)
	}

	h, err := r.UploadMesh(vertices, indices)
	if err != nil {
		if m.name != "" {
			return nil, fmt.Errorf("mesh %s: %w", m.name, err)
		}
		return nil, err
	}
	m.handle = h
	m.refs.Store(1)
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Vertices() []common.Vertex {
	return m.vertices
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) Textures() []common.Texture {
	return m.textures
}

func (m *mesh) Handle() renderer.MeshHandle {
	return m.handle
}

func (m *mesh) Draw(s shader.Shader) {
	s.SetBool(UniformUseColor, false)

	counters := make(map[common.TextureType]int, 2)
	for unit, tex := range m.textures {
		counters[tex.Type]++
		m.r.BindTexture(unit, tex.ID)
		s.SetInt(uniformMaterial+string(tex.Type)+strconv.Itoa(counters[tex.Type]), int32(unit))
	}

	m.r.DrawMesh(m.handle)
}

func (m *mesh) DrawColor(s shader.Shader, color mgl32.Vec3) {
	s.SetBool(UniformUseColor, true)
	s.SetVec3(UniformColor, color)
	m.r.DrawMesh(m.handle)
}

func (m *mesh) Retain() Mesh {
	if m.refs.Add(1) <= 1 {
		panic(fmt.Sprintf("model: Retain on released mesh %q", m.name))
	}
	return m
}

func (m *mesh) Release() {
	n := m.refs.Add(-1)
	switch {
	case n == 0:
		m.r.ReleaseMesh(m.handle)
		m.handle = renderer.MeshHandle{}
	case n < 0:
		panic(fmt.Sprintf("model: mesh %q released more times than retained", m.name))
	}
}

func (m *mesh) RefCount() int32 {
	return m.refs.Load()
}
