package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithLoader sets the Loader model files are decoded with.
// The default is loader.NewLoader with the scene's logger.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoader(l loader.Loader) SceneBuilderOption {
	return func(s *scene) {
		s.loader = l
	}
}

// WithMeshFactory registers a procedural mesh under key, replacing any factory already there.
//
// Parameters:
//   - key: the mesh key passed to GetOrCreateMesh
//   - factory: builds the mesh on first use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshFactory(key string, factory model.MeshFactory) SceneBuilderOption {
	return func(s *scene) {
		s.factories[key] = factory
	}
}

// WithLogger sets the logger cache activity is reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLoadWorkers sets the number of goroutines Preload decodes files on.
// Values less than 1 are clamped to 1. The default is runtime.NumCPU()-1.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLoadWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.loadWorkers = max(n, 1)
	}
}
