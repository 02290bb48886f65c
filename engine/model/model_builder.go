package model

import "github.com/Carmen-Shannon/oxy-gl/common"

// ModelBuilderOption is a function that configures a Model instance during construction.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the debug name of the model.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPath is an option builder that records the file the model was loaded from.
//
// Parameters:
//   - path: the source path
//
// Returns:
//   - ModelBuilderOption: a function that applies the path option to a model
func WithPath(path string) ModelBuilderOption {
	return func(m *model) {
		m.path = path
	}
}

// WithMeshes is an option builder that appends meshes to the model. The model adopts one reference
// to each mesh; callers that want to keep using a mesh independently must Retain it first.
//
// Parameters:
//   - meshes: the meshes in draw order
//
// Returns:
//   - ModelBuilderOption: a function that applies the meshes option to a model
func WithMeshes(meshes ...Mesh) ModelBuilderOption {
	return func(m *model) {
		m.meshes = append(m.meshes, meshes...)
	}
}

// WithOwnedTextures is an option builder that hands texture ownership to the model.
//
// Parameters:
//   - textures: the textures to release with the model
//
// Returns:
//   - ModelBuilderOption: a function that applies the textures option to a model
func WithOwnedTextures(textures ...common.Texture) ModelBuilderOption {
	return func(m *model) {
		m.textures = append(m.textures, textures...)
	}
}
