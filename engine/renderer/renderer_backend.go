package renderer

import "github.com/Carmen-Shannon/oxy-gl/common"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeOpenGL selects the OpenGL 4.1 core profile backend.
	BackendTypeOpenGL RendererBackendType = iota

	// BackendTypeHeadless selects a backend that allocates handles without touching a GPU.
	// Used by tests and tools that need the resource bookkeeping but no graphics context.
	BackendTypeHeadless
)

// String returns the backend name.
func (b RendererBackendType) String() string {
	switch b {
	case BackendTypeOpenGL:
		return "opengl"
	case BackendTypeHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// RendererBackend is the per-API half of the Renderer. Argument validation and bookkeeping happen
// in the Renderer before a backend method is reached.
type RendererBackend interface {
	UploadMesh(vertices []common.Vertex, indices []uint32) (MeshHandle, error)
	ReleaseMesh(handle MeshHandle)
	DrawMesh(handle MeshHandle)
	UploadTexture(pixels []byte, width, height uint32) uint32
	ReleaseTexture(id uint32)
	BindTexture(unit int, id uint32)
	BeginFrame()
	SetClearColor(color [3]float32)
	Resize(width, height int)
}
