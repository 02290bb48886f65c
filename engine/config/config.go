// Package config reads the YAML scene description used by the viewer: window, shaders, camera,
// entities, lights, and the models to preload.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for a configuration that decodes but cannot describe a scene.
var ErrInvalid = errors.New("config: invalid")

// Vec3 is a three-component value written as a YAML sequence, e.g. [0, 1, 0].
type Vec3 [3]float32

// Config is a decoded scene file. Every omitted value has been replaced by its default.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Shaders  ShaderConfig   `yaml:"shaders"`
	Camera   CameraConfig   `yaml:"camera"`
	Entities []EntityConfig `yaml:"entities"`
	Lights   LightsConfig   `yaml:"lights"`
	Preload  []string       `yaml:"preload"`

	// dir is the directory relative paths resolve against.
	dir string
}

// WindowConfig describes the output window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	VSync      *bool  `yaml:"vsync"`
	ClearColor *Vec3  `yaml:"clear_color"`
}

// ShaderConfig names GLSL source files. Empty paths select the built-in shaders.
type ShaderConfig struct {
	SceneVertex   string `yaml:"scene_vertex"`
	SceneFragment string `yaml:"scene_fragment"`
	LightVertex   string `yaml:"light_vertex"`
	LightFragment string `yaml:"light_fragment"`
}

// CameraConfig places the fly camera. Angles are in degrees.
type CameraConfig struct {
	Position *Vec3   `yaml:"position"`
	Yaw      *float32 `yaml:"yaw"`
	Pitch    *float32 `yaml:"pitch"`
	FOV      float32  `yaml:"fov"`
	Near     float32  `yaml:"near"`
	Far      float32  `yaml:"far"`
	Speed    float32  `yaml:"speed"`
}

// EntityConfig is one root entity. Exactly one of Mesh and Model is set.
type EntityConfig struct {
	Name     string `yaml:"name"`
	Mesh     string `yaml:"mesh"`
	Model    string `yaml:"model"`
	Position *Vec3  `yaml:"position"`
	Scale    *Vec3  `yaml:"scale"`
	Color    *Vec3  `yaml:"color"`
}

// LightsConfig lists the lights by kind.
type LightsConfig struct {
	Directional []DirLightConfig   `yaml:"directional"`
	Point       []PointLightConfig `yaml:"point"`
	Spot        []SpotLightConfig  `yaml:"spot"`
}

// DirLightConfig overrides fields of a default directional light.
type DirLightConfig struct {
	Direction *Vec3 `yaml:"direction"`
	Ambient   *Vec3 `yaml:"ambient"`
	Diffuse   *Vec3 `yaml:"diffuse"`
	Specular  *Vec3 `yaml:"specular"`
}

// PointLightConfig overrides fields of a default point light.
type PointLightConfig struct {
	Position  *Vec3    `yaml:"position"`
	Ambient   *Vec3    `yaml:"ambient"`
	Diffuse   *Vec3    `yaml:"diffuse"`
	Specular  *Vec3    `yaml:"specular"`
	Constant  *float32 `yaml:"constant"`
	Linear    *float32 `yaml:"linear"`
	Quadratic *float32 `yaml:"quadratic"`
	Scale     *float32 `yaml:"scale"`
}

// SpotLightConfig overrides fields of a default spot light. Cone angles are half-angles in degrees.
type SpotLightConfig struct {
	PointLightConfig `yaml:",inline"`
	Direction        *Vec3    `yaml:"direction"`
	CutOff           *float32 `yaml:"cutoff"`
	OuterCutOff      *float32 `yaml:"outer_cutoff"`
}

// Defaults applied by Load for omitted values.
const (
	DefaultTitle  = "oxy-gl"
	DefaultWidth  = 1200
	DefaultHeight = 800

	DefaultYaw   float32 = -90
	DefaultPitch float32 = 0
	DefaultFOV   float32 = 45
	DefaultNear  float32 = 0.1
	DefaultFar   float32 = 100
	DefaultSpeed float32 = 2.5
)

// DefaultCameraPosition is where the camera starts when the file does not say.
var DefaultCameraPosition = Vec3{0, 0, 3}

// Load reads, decodes, defaults and validates a scene file. Unknown keys are an error.
// Relative paths inside the file resolve against the file's directory.
//
// Parameters:
//   - path: the YAML file
//
// Returns:
//   - *Config: the configuration
//   - error: a read or decode error, or one wrapping ErrInvalid
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(bytes.NewReader(data), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a scene description from r. Relative paths resolve against dir.
//
// Parameters:
//   - r: the YAML source
//   - dir: the base directory for relative paths
//
// Returns:
//   - *Config: the configuration
//   - error: a decode error, or one wrapping ErrInvalid
func Parse(r io.Reader, dir string) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.dir = dir
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration of an empty scene file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Window.Title == "" {
		c.Window.Title = DefaultTitle
	}
	if c.Window.Width == 0 {
		c.Window.Width = DefaultWidth
	}
	if c.Window.Height == 0 {
		c.Window.Height = DefaultHeight
	}
	if c.Window.VSync == nil {
		vsync := true
		c.Window.VSync = &vsync
	}
	if c.Window.ClearColor == nil {
		c.Window.ClearColor = &Vec3{0.1, 0.1, 0.1}
	}

	cam := &c.Camera
	if cam.Position == nil {
		p := DefaultCameraPosition
		cam.Position = &p
	}
	if cam.Yaw == nil {
		yaw := DefaultYaw
		cam.Yaw = &yaw
	}
	if cam.Pitch == nil {
		pitch := DefaultPitch
		cam.Pitch = &pitch
	}
	if cam.FOV == 0 {
		cam.FOV = DefaultFOV
	}
	if cam.Near == 0 {
		cam.Near = DefaultNear
	}
	if cam.Far == 0 {
		cam.Far = DefaultFar
	}
	if cam.Speed == 0 {
		cam.Speed = DefaultSpeed
	}

	for i := range c.Entities {
		e := &c.Entities[i]
		if e.Position == nil {
			e.Position = &Vec3{}
		}
		if e.Scale == nil {
			e.Scale = &Vec3{1, 1, 1}
		}
	}
}

// Validate reports the first problem that makes the configuration unusable.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalid
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera clip range [%g, %g]", ErrInvalid, c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.FOV < 1 || c.Camera.FOV > 45 {
		return fmt.Errorf("%w: camera fov %g outside [1, 45]", ErrInvalid, c.Camera.FOV)
	}

	for i, e := range c.Entities {
		switch {
		case e.Mesh != "" && e.Model != "":
			return fmt.Errorf("%w: entity %d sets both mesh and model", ErrInvalid, i)
		case e.Mesh == "" && e.Model == "":
			return fmt.Errorf("%w: entity %d sets neither mesh nor model", ErrInvalid, i)
		case e.Model != "" && e.Color != nil:
			return fmt.Errorf("%w: entity %d: color applies to mesh entities only", ErrInvalid, i)
		}
	}

	for i, s := range c.Lights.Spot {
		inner, outer := s.coneDegrees()
		if inner <= 0 || inner >= outer || outer >= 90 {
			return fmt.Errorf("%w: spot light %d cone %g/%g must satisfy 0 < cutoff < outer_cutoff < 90", ErrInvalid, i, inner, outer)
		}
	}
	return nil
}

// Dir returns the directory relative paths resolve against, empty for Default.
func (c *Config) Dir() string {
	return c.dir
}

// Resolve returns path made absolute against the config directory. Empty, absolute, and
// directory-less paths are returned as given.
//
// Parameters:
//   - path: a path from the file
//
// Returns:
//   - string: the resolved path
func (c *Config) Resolve(path string) string {
	if path == "" || c.dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

func (s SpotLightConfig) coneDegrees() (float32, float32) {
	inner, outer := light.DefaultCutOffDegrees, light.DefaultOuterCutOffDegrees
	if s.CutOff != nil {
		inner = *s.CutOff
	}
	if s.OuterCutOff != nil {
		outer = *s.OuterCutOff
	}
	return inner, outer
}
