package shader

import "log/slog"

// ShaderBuilderOption is a functional option applied to a shader during construction via NewShader.
type ShaderBuilderOption func(*glShader)

// WithLogger sets the logger that inactive uniform lookups are reported to.
//
// Parameters:
//   - logger: the logger to use; nil keeps slog.Default()
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) ShaderBuilderOption {
	return func(s *glShader) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPreProcessor replaces the default PreProcessor both stages are run through before compiling.
//
// Parameters:
//   - pp: the pre-processor carrying the defines and includes the sources rely on
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithPreProcessor(pp PreProcessor) ShaderBuilderOption {
	return func(s *glShader) {
		if pp != nil {
			s.pp = pp
		}
	}
}
