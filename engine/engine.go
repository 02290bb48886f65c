package engine

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// maxTicksPerFrame bounds catch-up ticks after a stall.
const maxTicksPerFrame = 5

type engine struct {
	window   window.Window
	renderer renderer.Renderer
	logger   *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)
	resizeCallback func(width, height int)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	clock   func() float64
	sleep   func(time.Duration)
	started bool
	last    float64
	accum   time.Duration
	quit    bool
}

// Engine drives the frame loop on the thread that owns the window's GL context. Each frame it
// runs the tick callback at a fixed rate, clears the frame, then runs the render callback.
// Tick and render share the one thread, so neither needs locking against the other.
type Engine interface {
	// Window returns the engine's window.
	//
	// Returns:
	//   - window.Window: the window
	Window() window.Window

	// Renderer returns the engine's renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler starts per-frame stats reporting.
	EnableProfiler()

	// DisableProfiler stops per-frame stats reporting.
	DisableProfiler()

	// SetTickRate sets the fixed tick rate. Values <= 0 select 60.
	//
	// Parameters:
	//   - fps: ticks per second
	SetTickRate(fps float64)

	// SetTickCallback sets the fixed-rate update function, called with the tick length in seconds.
	//
	// Parameters:
	//   - callback: the update function
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback sets the per-frame draw function, called with the frame time in seconds
	// after the frame has been cleared.
	//
	// Parameters:
	//   - callback: the draw function
	SetRenderCallback(callback func(deltaTime float32))

	// SetResizeCallback sets a function called with the framebuffer size after the renderer
	// viewport has been resized.
	//
	// Parameters:
	//   - callback: the resize handler
	SetResizeCallback(callback func(width, height int))

	// SetRenderFrameLimit caps the frame rate. 0 uncaps it.
	//
	// Parameters:
	//   - fps: maximum frames per second
	SetRenderFrameLimit(fps float64)

	// Run blocks running frames until the window closes or Quit is called.
	Run()

	// Quit stops the loop after the current frame.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine over an open window and its renderer.
//
// Parameters:
//   - w: the window owning the GL context
//   - r: the renderer drawing into that context
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the configured engine
func NewEngine(w window.Window, r renderer.Renderer, options ...EngineBuilderOption) Engine {
	if w == nil {
		panic("engine: NewEngine requires a non-nil Window")
	}
	if r == nil {
		panic("engine: NewEngine requires a non-nil Renderer")
	}

	e := &engine{
		window:         w,
		renderer:       r,
		engineTickRate: time.Second / 60,
		clock:          w.Time,
		sleep:          time.Sleep,
	}
	for _, opt := range options {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.profiler = profiler.NewProfiler(e.logger)

	r.Resize(w.Width(), w.Height())
	w.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
		if e.resizeCallback != nil {
			e.resizeCallback(width, height)
		}
	})

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quit = true
	e.window.RequestClose()
}

// frame runs one iteration of the loop. A panic in a callback is logged and stops the engine.
func (e *engine) frame() {
	if e.quit {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame recovered from panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			e.Quit()
		}
	}()

	now := e.clock()
	if !e.started {
		e.started = true
		e.last = now
	}
	frameTime := time.Duration((now - e.last) * float64(time.Second))
	e.last = now

	e.accum += frameTime
	ticks := 0
	for e.accum >= e.engineTickRate {
		e.accum -= e.engineTickRate
		if ticks == maxTicksPerFrame {
			continue
		}
		ticks++
		if e.tickCallback != nil {
			e.tickCallback(float32(e.engineTickRate.Seconds()))
		}
	}

	e.renderer.BeginFrame()
	if e.renderCallback != nil {
		e.renderCallback(float32(frameTime.Seconds()))
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		elapsed := time.Duration((e.clock() - now) * float64(time.Second))
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			e.sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	e.engineTickRate = tickInterval(fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetResizeCallback(callback func(width, height int)) {
	e.resizeCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameLimit(fps)
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
