package renderer

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
)

// headlessRendererBackend hands out monotonically increasing ids in place of GPU objects.
type headlessRendererBackend struct {
	nextID   uint32
	meshes   map[uint32]MeshHandle
	textures map[uint32]struct{}
	bound    map[int]uint32
}

var _ RendererBackend = &headlessRendererBackend{}

func newHeadlessRendererBackend() *headlessRendererBackend {
	return &headlessRendererBackend{
		meshes:   make(map[uint32]MeshHandle),
		textures: make(map[uint32]struct{}),
		bound:    make(map[int]uint32),
	}
}

func (b *headlessRendererBackend) id() uint32 {
	b.nextID++
	return b.nextID
}

func (b *headlessRendererBackend) UploadMesh(vertices []common.Vertex, indices []uint32) (MeshHandle, error) {
	h := MeshHandle{
		VAO:        b.id(),
		VBO:        b.id(),
		EBO:        b.id(),
		IndexCount: int32(len(indices)),
	}
	b.meshes[h.VAO] = h
	return h, nil
}

func (b *headlessRendererBackend) ReleaseMesh(handle MeshHandle) {
	delete(b.meshes, handle.VAO)
}

func (b *headlessRendererBackend) DrawMesh(handle MeshHandle) {}

func (b *headlessRendererBackend) UploadTexture(pixels []byte, width, height uint32) uint32 {
	id := b.id()
	b.textures[id] = struct{}{}
	return id
}

func (b *headlessRendererBackend) ReleaseTexture(id uint32) {
	delete(b.textures, id)
}

func (b *headlessRendererBackend) BindTexture(unit int, id uint32) {
	b.bound[unit] = id
}

func (b *headlessRendererBackend) BeginFrame() {}

func (b *headlessRendererBackend) SetClearColor(color [3]float32) {}

func (b *headlessRendererBackend) Resize(width, height int) {}
