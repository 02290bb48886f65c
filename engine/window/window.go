package window

// Window is an OS window that owns an OpenGL 4.1 core context. Every method must be called from
// the goroutine that created the window, which NewWindow locks to its OS thread.
type Window interface {
	// SetUpdateCallback sets the function ProcessMessages calls once per frame after polling events.
	// The callback renders the frame; ProcessMessages swaps buffers after it returns.
	//
	// Parameters:
	//   - callback: the per-frame function
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called with the new framebuffer size in pixels.
	//
	// Parameters:
	//   - callback: the resize handler
	SetResizeCallback(callback func(width, height int))

	// SetScrollCallback sets the function called with the vertical scroll offset.
	//
	// Parameters:
	//   - callback: the scroll handler
	SetScrollCallback(callback func(delta float32))

	// SetKeyDownCallback sets the function called on key press and repeat. Key codes are the
	// GLFW codes listed in package common.
	//
	// Parameters:
	//   - callback: the key handler
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function called on key release.
	//
	// Parameters:
	//   - callback: the key handler
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the function called with the cursor position in screen coordinates.
	//
	// Parameters:
	//   - callback: the cursor handler
	SetMouseMoveCallback(callback func(x, y float32))

	// SetCursorCaptured hides and locks the cursor for mouse look, or releases it.
	//
	// Parameters:
	//   - captured: true to capture
	SetCursorCaptured(captured bool)

	// CursorCaptured reports whether the cursor is captured.
	CursorCaptured() bool

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// RequestClose asks the frame loop to stop after the current frame.
	RequestClose()

	// Close destroys the window and terminates GLFW.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error

	// ProcessMessages runs the frame loop until the window closes: poll events, run the update
	// callback, swap buffers.
	ProcessMessages()

	// Time returns seconds since the window was created.
	Time() float64

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	width  int
	height int

	vsync bool

	internalWindow *glfwWindow

	onUpdate    func()
	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onKeyUp     func(keyCode uint32)
	onMouseMove func(x, y float32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with a current OpenGL context.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: error if GLFW or the context cannot be initialized
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-gl",
		width:  1200,
		height: 800,
		vsync:  true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetScrollCallback(callback func(delta float32)) {
	w.onScroll = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float32)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetCursorCaptured(captured bool) {
	platformSetCursorCaptured(w, captured)
}

func (w *engineWindow) CursorCaptured() bool {
	return platformCursorCaptured(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		platformSwapBuffers(w)
	}
}

func (w *engineWindow) Time() float64 {
	return platformTime()
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
