package loader

import "io"

// loaderBackend defines the generic interface for decoding models from files or streams.
// Concrete implementations (gltfLoaderBackend, objLoaderBackend) handle format-specific details.
// Backends must be safe for concurrent use; all per-load state lives on the stack of a call.
type loaderBackend interface {
	// Load decodes the model at path. External references resolve against the file's directory.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *ModelData: the decoded geometry with undecoded textures
	//   - error: error if loading fails
	Load(path string) (*ModelData, error)

	// LoadReader decodes a model from a stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - baseDir: the directory external references resolve against
	//
	// Returns:
	//   - *ModelData: the decoded geometry with undecoded textures
	//   - error: error if loading fails
	LoadReader(r io.Reader, baseDir string) (*ModelData, error)
}
