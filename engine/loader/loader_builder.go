package loader

import (
	"log/slog"
	"strings"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the logger decode results are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithTextureDecoding is an option builder that controls whether Load decodes texture images.
// Disabling it leaves ImportedTexture.Pixels empty; the texture is then decoded at upload time.
//
// Parameters:
//   - enabled: true to decode textures during Load
//
// Returns:
//   - LoaderBuilderOption: a function that applies the option to a loader
func WithTextureDecoding(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.decodeTextures = enabled
	}
}

// WithExtension is an option builder that maps an additional file extension to a backend,
// for example a pipeline that writes Wavefront text as ".mesh".
//
// Parameters:
//   - ext: the extension including the dot; matched case-insensitively
//   - backendType: the backend that handles it
//
// Returns:
//   - LoaderBuilderOption: a function that applies the extension option to a loader
func WithExtension(ext string, backendType LoaderBackendType) LoaderBuilderOption {
	return func(l *loader) {
		switch backendType {
		case BackendTypeGLTF:
			l.backends[strings.ToLower(ext)] = newGLTFLoaderBackend()
		case BackendTypeOBJ:
			l.backends[strings.ToLower(ext)] = newOBJLoaderBackend()
		}
	}
}
