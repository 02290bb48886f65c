package light

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// LightManagerBuilderOption is a functional option for configuring a LightManager via NewLightManager.
type LightManagerBuilderOption func(*lightManager)

// WithLogger is an option builder that sets the logger rejected lights are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - LightManagerBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) LightManagerBuilderOption {
	return func(lm *lightManager) {
		if logger != nil {
			lm.logger = logger
		}
	}
}

// WithProxyMesh is an option builder that replaces the generated unit cube drawn for point and
// spot lights. The manager takes its own reference to mesh.
//
// Parameters:
//   - mesh: the proxy mesh
//
// Returns:
//   - LightManagerBuilderOption: a function that applies the proxy option
func WithProxyMesh(mesh model.Mesh) LightManagerBuilderOption {
	return func(lm *lightManager) {
		if mesh != nil {
			lm.proxy = mesh.Retain()
		}
	}
}
