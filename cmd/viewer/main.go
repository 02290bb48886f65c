// Command viewer renders a YAML scene description with the oxy-gl engine.
//
// Controls: W/A/S/D move, Space/Left Ctrl rise and sink, F toggles mouse look, scroll zooms,
// L toggles light proxies, P toggles the profiler, Esc quits.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed default_scene.yaml
	defaultScene []byte

	//go:embed shaders/scene.vert
	sceneVertexSource string
	//go:embed shaders/scene.frag
	sceneFragmentSource string
	//go:embed shaders/light.vert
	lightVertexSource string
	//go:embed shaders/light.frag
	lightFragmentSource string
	//go:embed shaders/material.glsl
	materialSource string
)

func main() {
	configPath := flag.String("config", "", "scene file (YAML); the built-in demo scene when empty")
	profile := flag.Bool("profile", false, "log frame rate and memory once per second")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *profile, logger); err != nil {
		logger.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Parse(bytes.NewReader(defaultScene), "")
	}
	return config.Load(path)
}

// loadShader compiles the configured sources, falling back to the embedded ones for empty paths.
func loadShader(cfg *config.Config, vertexPath, fragmentPath, vertexSource, fragmentSource string, options ...shader.ShaderBuilderOption) (shader.Shader, error) {
	if vertexPath != "" {
		b, err := os.ReadFile(cfg.Resolve(vertexPath))
		if err != nil {
			return nil, fmt.Errorf("failed to read vertex shader: %w", err)
		}
		vertexSource = string(b)
	}
	if fragmentPath != "" {
		b, err := os.ReadFile(cfg.Resolve(fragmentPath))
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment shader: %w", err)
		}
		fragmentSource = string(b)
	}
	return shader.NewShader(vertexSource, fragmentSource, options...)
}

func run(configPath string, profile bool, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
		window.WithVSync(*cfg.Window.VSync),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	cc := cfg.Window.ClearColor
	r, err := renderer.NewRenderer(renderer.BackendTypeOpenGL,
		renderer.WithLogger(logger),
		renderer.WithClearColor(cc[0], cc[1], cc[2]),
	)
	if err != nil {
		return err
	}

	pp := shader.NewPreProcessor()
	pp.Define("MAX_LIGHT_COUNT", light.MaxLightCount)
	pp.Include("material", materialSource)
	shaderOpts := []shader.ShaderBuilderOption{shader.WithLogger(logger), shader.WithPreProcessor(pp)}

	sceneShader, err := loadShader(cfg, cfg.Shaders.SceneVertex, cfg.Shaders.SceneFragment, sceneVertexSource, sceneFragmentSource, shaderOpts...)
	if err != nil {
		return fmt.Errorf("scene shader: %w", err)
	}
	defer sceneShader.Delete()
	lightShader, err := loadShader(cfg, cfg.Shaders.LightVertex, cfg.Shaders.LightFragment, lightVertexSource, lightFragmentSource, shaderOpts...)
	if err != nil {
		return fmt.Errorf("light shader: %w", err)
	}
	defer lightShader.Delete()

	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.FOV),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithClipRange(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithController(camera.NewCameraController(
			camera.WithPosition(mgl32.Vec3(*cfg.Camera.Position)),
			camera.WithOrientation(*cfg.Camera.Yaw, *cfg.Camera.Pitch),
			camera.WithSpeed(cfg.Camera.Speed),
		)),
	)

	s := scene.NewScene(r, scene.WithLogger(logger))
	defer s.Close()
	lm, err := light.NewLightManager(r, light.WithLogger(logger))
	if err != nil {
		return err
	}
	defer lm.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if _, err := config.Apply(ctx, cfg, s, lm, config.WithLogger(logger)); err != nil {
		return err
	}

	eng := engine.NewEngine(win, r, engine.WithProfiling(profile), engine.WithLogger(logger))
	eng.SetResizeCallback(func(width, height int) {
		cam.SetAspect(float32(width) / float32(height))
	})

	input := newFlyInput(cam)
	showLights := true
	profiling := profile
	win.SetKeyDownCallback(func(keyCode uint32) {
		input.keyDown(keyCode)
		switch keyCode {
		case common.KeyF:
			win.SetCursorCaptured(!win.CursorCaptured())
			input.setLooking(win.CursorCaptured())
		case common.KeyL:
			showLights = !showLights
		case common.KeyP:
			profiling = !profiling
			if profiling {
				eng.EnableProfiler()
			} else {
				eng.DisableProfiler()
			}
		}
	})
	win.SetKeyUpCallback(input.keyUp)
	win.SetMouseMoveCallback(input.mouseMove)
	win.SetScrollCallback(input.scroll)

	eng.SetTickCallback(input.tick)

	sentLights := -1
	eng.SetRenderCallback(func(float32) {
		sceneShader.Use()
		if n := lm.Count(); n != sentLights {
			lm.SendLightsToShader(sceneShader)
			sentLights = n
		}
		cam.SendToShader(sceneShader)
		s.Draw(sceneShader)

		if showLights {
			lightShader.Use()
			cam.SendToShader(lightShader)
			lm.DrawLightSources(lightShader)
		}
	})

	logger.Info("viewer started",
		"config", common.Coalesce(configPath, "built-in"),
		"entities", len(s.Entities()),
		"lights", lm.Count(),
		"meshes", strings.Join(s.MeshKeys(), ","),
	)
	eng.Run()
	return nil
}
