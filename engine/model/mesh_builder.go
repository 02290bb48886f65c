package model

import "github.com/Carmen-Shannon/oxy-gl/common"

// MeshBuilderOption is a function that configures a Mesh instance during construction.
type MeshBuilderOption func(*mesh)

// WithMeshName is an option builder that sets the debug name of the mesh.
//
// Parameters:
//   - name: the mesh name
//
// Returns:
//   - MeshBuilderOption: a function that applies the name option to a mesh
func WithMeshName(name string) MeshBuilderOption {
	return func(m *mesh) {
		m.name = name
	}
}

// WithTextures is an option builder that attaches already uploaded textures to the mesh.
// Textures bind to units in the order given.
//
// Parameters:
//   - textures: the textures to bind on the textured draw path
//
// Returns:
//   - MeshBuilderOption: a function that applies the textures option to a mesh
func WithTextures(textures ...common.Texture) MeshBuilderOption {
	return func(m *mesh) {
		m.textures = append(m.textures, textures...)
	}
}
