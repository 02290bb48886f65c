package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/entity"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// ApplyOption configures Apply.
type ApplyOption func(*applyOptions)

type applyOptions struct {
	logger *slog.Logger
}

// WithLogger is an option builder that sets the logger Apply reports through.
//
// Parameters:
//   - logger: the logger, slog.Default() when nil
//
// Returns:
//   - ApplyOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) ApplyOption {
	return func(o *applyOptions) {
		o.logger = logger
	}
}

// Result counts what Apply placed into the scene.
type Result struct {
	Entities       int
	Lights         int
	RejectedLights int
}

// Apply preloads the configured models, then creates the entities in file order and registers
// the lights. Lights beyond the manager's capacity are logged and counted, not treated as errors.
// Apply stops at the first preload or entity error.
//
// Apply must run on the thread that owns the renderer's context.
//
// Parameters:
//   - ctx: cancels the preload
//   - cfg: the configuration
//   - s: the scene receiving entities
//   - lm: the light manager receiving lights
//   - options: optional configuration
//
// Returns:
//   - Result: counts of placed and rejected items
//   - error: the first preload or entity error
func Apply(ctx context.Context, cfg *Config, s scene.Scene, lm light.LightManager, options ...ApplyOption) (Result, error) {
	o := &applyOptions{}
	for _, opt := range options {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	var res Result
	if len(cfg.Preload) > 0 {
		paths := make([]string, len(cfg.Preload))
		for i, p := range cfg.Preload {
			paths[i] = cfg.Resolve(p)
		}
		if err := s.Preload(ctx, paths...); err != nil {
			return res, err
		}
	}

	for i, ec := range cfg.Entities {
		e, err := cfg.newEntity(s, ec)
		if err != nil {
			return res, fmt.Errorf("entity %d (%s): %w", i, ec.Name, err)
		}
		s.AddEntity(e)
		res.Entities++
	}

	add := func(kind light.LightType, i int, ok bool) {
		if ok {
			res.Lights++
			return
		}
		res.RejectedLights++
		o.logger.Warn("light dropped, manager is full", "kind", kind.String(), "index", i, "max", light.MaxLightCount)
	}
	for i, lc := range cfg.Lights.Directional {
		add(light.LightTypeDirectional, i, lm.AddDirLight(lc.build()))
	}
	for i, lc := range cfg.Lights.Point {
		add(light.LightTypePoint, i, lm.AddPointLight(lc.build()))
	}
	for i, lc := range cfg.Lights.Spot {
		add(light.LightTypeSpot, i, lm.AddSpotLight(lc.build()))
	}

	o.logger.Info("scene applied", "entities", res.Entities, "lights", res.Lights, "rejected_lights", res.RejectedLights)
	return res, nil
}

func (c *Config) newEntity(s scene.Scene, ec EntityConfig) (entity.Entity, error) {
	opts := []entity.EntityBuilderOption{
		entity.WithName(ec.Name),
		entity.WithPosition(ec.Position[0], ec.Position[1], ec.Position[2]),
		entity.WithScale(ec.Scale[0], ec.Scale[1], ec.Scale[2]),
	}
	if ec.Color != nil {
		opts = append(opts, entity.WithColor(ec.Color.mgl()))
	}

	if ec.Mesh != "" {
		mesh, err := s.GetOrCreateMesh(ec.Mesh)
		if err != nil {
			return nil, err
		}
		return entity.NewMeshEntity(mesh, opts...), nil
	}
	m, err := s.GetOrCreateModel(c.Resolve(ec.Model))
	if err != nil {
		return nil, err
	}
	return entity.NewModelEntity(m, opts...), nil
}

func (v Vec3) mgl() mgl32.Vec3 {
	return mgl32.Vec3(v)
}

// colorOptions collects the shared color overrides of every light kind.
func colorOptions(ambient, diffuse, specular *Vec3) []light.LightBuilderOption {
	var opts []light.LightBuilderOption
	if ambient != nil {
		opts = append(opts, light.WithAmbient(ambient[0], ambient[1], ambient[2]))
	}
	if diffuse != nil {
		opts = append(opts, light.WithDiffuse(diffuse[0], diffuse[1], diffuse[2]))
	}
	if specular != nil {
		opts = append(opts, light.WithSpecular(specular[0], specular[1], specular[2]))
	}
	return opts
}

func (lc DirLightConfig) build() light.DirectionalLight {
	opts := colorOptions(lc.Ambient, lc.Diffuse, lc.Specular)
	if lc.Direction != nil {
		opts = append(opts, light.WithDirection(lc.Direction[0], lc.Direction[1], lc.Direction[2]))
	}
	return light.NewDirectionalLight(opts...)
}

func (lc PointLightConfig) options() []light.LightBuilderOption {
	opts := colorOptions(lc.Ambient, lc.Diffuse, lc.Specular)
	if lc.Position != nil {
		opts = append(opts, light.WithPosition(lc.Position[0], lc.Position[1], lc.Position[2]))
	}
	if lc.Constant != nil || lc.Linear != nil || lc.Quadratic != nil {
		opts = append(opts, light.WithAttenuation(
			orDefault(lc.Constant, light.DefaultConstant),
			orDefault(lc.Linear, light.DefaultLinear),
			orDefault(lc.Quadratic, light.DefaultQuadratic),
		))
	}
	if lc.Scale != nil {
		opts = append(opts, light.WithScale(*lc.Scale))
	}
	return opts
}

func (lc PointLightConfig) build() light.PointLight {
	return light.NewPointLight(lc.options()...)
}

func (lc SpotLightConfig) build() light.SpotLight {
	opts := lc.PointLightConfig.options()
	if lc.Direction != nil {
		opts = append(opts, light.WithDirection(lc.Direction[0], lc.Direction[1], lc.Direction[2]))
	}
	inner, outer := lc.coneDegrees()
	opts = append(opts, light.WithCutOffDegrees(inner, outer))
	return light.NewSpotLight(opts...)
}

func orDefault(v *float32, def float32) float32 {
	if v == nil {
		return def
	}
	return *v
}
