package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/common"
)

// ErrEmptyMesh is returned by UploadMesh when either the vertex or index list is empty.
var ErrEmptyMesh = errors.New("renderer: mesh has no vertices or indices")

// MeshHandle identifies the GPU state of one uploaded mesh: its vertex array, vertex buffer,
// element buffer and the index count used by the draw call.
type MeshHandle struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Valid reports whether the handle refers to uploaded GPU state.
func (h MeshHandle) Valid() bool {
	return h.VAO != 0
}

// Stats counts the GPU resources the renderer has created and released, and the draw calls issued.
type Stats struct {
	MeshUploads    int
	MeshReleases   int
	TextureUploads int
	TexReleases    int
	DrawCalls      int
	TextureBinds   int
	Frames         int
}

// LiveMeshes returns the number of uploaded meshes that have not been released.
func (s Stats) LiveMeshes() int {
	return s.MeshUploads - s.MeshReleases
}

// LiveTextures returns the number of uploaded textures that have not been released.
func (s Stats) LiveTextures() int {
	return s.TextureUploads - s.TexReleases
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend
	logger      *slog.Logger

	clearColor [3]float32
	stats      Stats
}

// Renderer defines the interface for the rendering system.
// It owns the low-level GPU work for a single mesh (buffer setup, texture upload, indexed draw)
// and delegates the API calls to the selected backend.
//
// A Renderer is bound to the thread that owns the graphics context and must not be called
// from any other goroutine.
type Renderer interface {
	// BackendType returns the backend this renderer was created with.
	//
	// Returns:
	//   - RendererBackendType: the backend type
	BackendType() RendererBackendType

	// UploadMesh creates the vertex array, vertex buffer and element buffer for a mesh.
	// Attribute 0 is the position, 1 the normal and 2 the texture coordinate.
	//
	// Parameters:
	//   - vertices: the vertex data to upload
	//   - indices: the triangle list indices into vertices
	//
	// Returns:
	//   - MeshHandle: the handle used to draw and release the mesh
	//   - error: ErrEmptyMesh if there is nothing to upload, or a backend error
	UploadMesh(vertices []common.Vertex, indices []uint32) (MeshHandle, error)

	// ReleaseMesh frees the GPU state of a mesh. Releasing an invalid handle is a no-op.
	//
	// Parameters:
	//   - handle: the handle returned by UploadMesh
	ReleaseMesh(handle MeshHandle)

	// DrawMesh issues an indexed triangle draw for the mesh using whatever textures are bound.
	// The active texture unit is reset to 0 before the draw and the vertex array is unbound after it.
	//
	// Parameters:
	//   - handle: the handle returned by UploadMesh
	DrawMesh(handle MeshHandle)

	// UploadTexture creates a 2D texture with mipmaps from tightly packed RGBA pixels.
	//
	// Parameters:
	//   - pixels: RGBA data, 4 bytes per pixel
	//   - width: texture width in pixels
	//   - height: texture height in pixels
	//
	// Returns:
	//   - uint32: the texture id
	//   - error: an error if the pixel data does not match the dimensions
	UploadTexture(pixels []byte, width, height uint32) (uint32, error)

	// ReleaseTexture frees a texture created by UploadTexture. Releasing id 0 is a no-op.
	//
	// Parameters:
	//   - id: the texture id
	ReleaseTexture(id uint32)

	// BindTexture makes the texture unit active and binds the texture to it.
	//
	// Parameters:
	//   - unit: the zero-based texture unit
	//   - id: the texture id
	BindTexture(unit int, id uint32)

	// BeginFrame clears the color and depth buffers.
	BeginFrame()

	// SetClearColor sets the color BeginFrame clears to.
	//
	// Parameters:
	//   - r, g, b: the clear color components
	SetClearColor(r, g, b float32)

	// Resize updates the viewport to a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Stats returns the resource and draw counters accumulated since creation.
	//
	// Returns:
	//   - Stats: a copy of the counters
	Stats() Stats
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given backend. The OpenGL backend requires a current
// context on the calling thread, which the window package provides.
//
// Parameters:
//   - backendType: the backend to use
//   - options: functional options applied before the backend is created
//
// Returns:
//   - Renderer: the renderer
//   - error: an error if the backend cannot be initialized
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		backendType: backendType,
		logger:      slog.Default(),
		clearColor:  [3]float32{0.1, 0.1, 0.1},
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend()
	case BackendTypeOpenGL:
		b, err := newGLRendererBackend(r.logger)
		if err != nil {
			return nil, err
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("renderer: unknown backend type %d", backendType)
	}

	r.backend.SetClearColor(r.clearColor)
	return r, nil
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) UploadMesh(vertices []common.Vertex, indices []uint32) (MeshHandle, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return MeshHandle{}, ErrEmptyMesh
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return MeshHandle{}, fmt.Errorf("renderer: index %d at position %d out of range for %d vertices", idx, i, len(vertices))
		}
	}
	h, err := r.backend.UploadMesh(vertices, indices)
	if err != nil {
		return MeshHandle{}, fmt.Errorf("failed to upload mesh: %w", err)
	}
	r.stats.MeshUploads++
	r.logger.Debug("mesh uploaded", "vao", h.VAO, "vertices", len(vertices), "indices", len(indices))
	return h, nil
}

func (r *renderer) ReleaseMesh(handle MeshHandle) {
	if !handle.Valid() {
		return
	}
	r.backend.ReleaseMesh(handle)
	r.stats.MeshReleases++
	r.logger.Debug("mesh released", "vao", handle.VAO)
}

func (r *renderer) DrawMesh(handle MeshHandle) {
	if !handle.Valid() {
		return
	}
	r.backend.DrawMesh(handle)
	r.stats.DrawCalls++
}

func (r *renderer) UploadTexture(pixels []byte, width, height uint32) (uint32, error) {
	if width == 0 || height == 0 {
		return 0, fmt.Errorf("renderer: texture has zero size %dx%d", width, height)
	}
	if want := int(width) * int(height) * 4; len(pixels) != want {
		return 0, fmt.Errorf("renderer: texture %dx%d needs %d bytes, got %d", width, height, want, len(pixels))
	}
	id := r.backend.UploadTexture(pixels, width, height)
	r.stats.TextureUploads++
	r.logger.Debug("texture uploaded", "id", id, "width", width, "height", height)
	return id, nil
}

func (r *renderer) ReleaseTexture(id uint32) {
	if id == 0 {
		return
	}
	r.backend.ReleaseTexture(id)
	r.stats.TexReleases++
}

func (r *renderer) BindTexture(unit int, id uint32) {
	r.backend.BindTexture(unit, id)
	r.stats.TextureBinds++
}

func (r *renderer) BeginFrame() {
	r.backend.BeginFrame()
	r.stats.Frames++
}

func (r *renderer) SetClearColor(red, green, blue float32) {
	r.clearColor = [3]float32{red, green, blue}
	r.backend.SetClearColor(r.clearColor)
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.Resize(width, height)
}

func (r *renderer) Stats() Stats {
	return r.stats
}
