package renderer

import (
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// glRendererBackend issues OpenGL 4.1 core calls against the context current on the calling thread.
//
// go-gl reference: https://pkg.go.dev/github.com/go-gl/gl/v4.1-core/gl
type glRendererBackend struct {
	clearColor [3]float32
}

var _ RendererBackend = &glRendererBackend{}

// newGLRendererBackend loads the OpenGL function pointers and sets the fixed pipeline state.
//
// Parameters:
//   - logger: the logger the driver version is reported to
//
// Returns:
//   - *glRendererBackend: the backend
//   - error: an error if the function pointers cannot be loaded
func newGLRendererBackend(logger *slog.Logger) (*glRendererBackend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("opengl initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	return &glRendererBackend{}, nil
}

func (b *glRendererBackend) UploadMesh(vertices []common.Vertex, indices []uint32) (MeshHandle, error) {
	var h MeshHandle
	gl.GenVertexArrays(1, &h.VAO)
	gl.GenBuffers(1, &h.VBO)
	gl.GenBuffers(1, &h.EBO)
	if h.VAO == 0 || h.VBO == 0 || h.EBO == 0 {
		return MeshHandle{}, fmt.Errorf("gl: failed to generate buffers (error 0x%x)", gl.GetError())
	}

	gl.BindVertexArray(h.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, h.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*common.VertexStride, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	// position, normal, texcoord
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, common.VertexStride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, common.VertexStride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, common.VertexStride, 6*4)

	gl.BindVertexArray(0)

	h.IndexCount = int32(len(indices))
	return h, nil
}

func (b *glRendererBackend) ReleaseMesh(handle MeshHandle) {
	gl.DeleteVertexArrays(1, &handle.VAO)
	gl.DeleteBuffers(1, &handle.VBO)
	gl.DeleteBuffers(1, &handle.EBO)
}

func (b *glRendererBackend) DrawMesh(handle MeshHandle) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(handle.VAO)
	gl.DrawElements(gl.TRIANGLES, handle.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (b *glRendererBackend) UploadTexture(pixels []byte, width, height uint32) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}

func (b *glRendererBackend) ReleaseTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (b *glRendererBackend) BindTexture(unit int, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (b *glRendererBackend) BeginFrame() {
	gl.ClearColor(b.clearColor[0], b.clearColor[1], b.clearColor[2], 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *glRendererBackend) SetClearColor(color [3]float32) {
	b.clearColor = color
}

func (b *glRendererBackend) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}
