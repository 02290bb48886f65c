package entity

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// UniformModel is the uniform every entity draw writes its model matrix to.
const UniformModel = "model"

var nextID atomic.Uint64

// base holds the state shared by both entity kinds.
type base struct {
	id        uint64
	name      string
	enabled   atomic.Bool
	released  atomic.Bool
	transform transform.Transform

	color    mgl32.Vec3
	hasColor bool
}

// Entity is a drawable element of a scene: a transform plus either a mesh or a model.
//
// The two kinds are built by NewMeshEntity and NewModelEntity, so an entity always has a payload.
// Code that draws entities uses this interface only and never needs to know which kind it holds.
//
// Entities are not safe for concurrent use; they are drawn on the thread that owns the GL context.
type Entity interface {
	// ID returns the process-unique identifier assigned at construction.
	//
	// Returns:
	//   - uint64: the entity ID
	ID() uint64

	// Name returns the debug name, empty unless set with WithName.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled reports whether the entity draws. Entities start enabled.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled toggles drawing. A disabled entity writes nothing.
	//
	// Parameters:
	//   - enabled: true to draw the entity
	SetEnabled(enabled bool)

	// Transform returns the world transform.
	//
	// Returns:
	//   - transform.Transform: the transform
	Transform() transform.Transform

	// SetTransform replaces the world transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t transform.Transform)

	// Draw writes the model matrix to the "model" uniform and then draws the payload.
	//
	// Parameters:
	//   - s: the shader currently in use
	Draw(s shader.Shader)

	// Release gives back the payload reference taken at construction. Later calls do nothing and
	// a released entity no longer draws.
	Release()
}

// MeshEntity is an Entity backed by a single mesh, drawn textured or as a flat color.
type MeshEntity interface {
	Entity

	// Mesh returns the backing mesh.
	//
	// Returns:
	//   - model.Mesh: the mesh
	Mesh() model.Mesh

	// Color returns the override color and whether one is set.
	//
	// Returns:
	//   - mgl32.Vec3: the color
	//   - bool: true if the mesh draws as a flat color
	Color() (mgl32.Vec3, bool)
}

// ModelEntity is an Entity backed by a multi-mesh model, always drawn textured.
type ModelEntity interface {
	Entity

	// Model returns the backing model.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model
}

type meshEntity struct {
	base
	mesh model.Mesh
}

type modelEntity struct {
	base
	model model.Model
}

var (
	_ MeshEntity  = &meshEntity{}
	_ ModelEntity = &modelEntity{}
)

func (b *base) init(options []EntityBuilderOption) {
	b.id = nextID.Add(1)
	b.transform = transform.Identity()
	for _, option := range options {
		option(b)
	}
	b.enabled.Store(true)
}

// NewMeshEntity creates an Entity drawing mesh. It takes a reference to mesh that Release gives back.
// With WithColor the mesh draws as a flat color; otherwise it draws with its textures.
//
// Parameters:
//   - mesh: the backing mesh
//   - options: functional options for the entity
//
// Returns:
//   - MeshEntity: the entity
func NewMeshEntity(mesh model.Mesh, options ...EntityBuilderOption) MeshEntity {
	if mesh == nil {
		panic("entity: NewMeshEntity requires a non-nil Mesh")
	}
	e := &meshEntity{mesh: mesh.Retain()}
	e.init(options)
	return e
}

// NewModelEntity creates an Entity drawing every mesh of m. It takes a reference to m that Release
// gives back. WithColor has no effect on model entities.
//
// Parameters:
//   - m: the backing model
//   - options: functional options for the entity
//
// Returns:
//   - ModelEntity: the entity
func NewModelEntity(m model.Model, options ...EntityBuilderOption) ModelEntity {
	if m == nil {
		panic("entity: NewModelEntity requires a non-nil Model")
	}
	e := &modelEntity{model: m.Retain()}
	e.init(options)
	return e
}

func (b *base) ID() uint64 {
	return b.id
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Enabled() bool {
	return b.enabled.Load()
}

func (b *base) SetEnabled(enabled bool) {
	b.enabled.Store(enabled)
}

func (b *base) Transform() transform.Transform {
	return b.transform
}

func (b *base) SetTransform(t transform.Transform) {
	b.transform = t
}

// begin writes the model matrix and reports whether the payload should draw.
func (b *base) begin(s shader.Shader) bool {
	if !b.enabled.Load() || b.released.Load() {
		return false
	}
	s.SetMat4(UniformModel, b.transform.ModelMatrix())
	return true
}

func (e *meshEntity) Mesh() model.Mesh {
	return e.mesh
}

func (e *meshEntity) Color() (mgl32.Vec3, bool) {
	return e.color, e.hasColor
}

func (e *meshEntity) Draw(s shader.Shader) {
	if !e.begin(s) {
		return
	}
	if e.hasColor {
		e.mesh.DrawColor(s, e.color)
		return
	}
	e.mesh.Draw(s)
}

func (e *meshEntity) Release() {
	if e.released.CompareAndSwap(false, true) {
		e.mesh.Release()
	}
}

func (e *modelEntity) Model() model.Model {
	return e.model
}

func (e *modelEntity) Draw(s shader.Shader) {
	if !e.begin(s) {
		return
	}
	e.model.Draw(s)
}

func (e *modelEntity) Release() {
	if e.released.CompareAndSwap(false, true) {
		e.model.Release()
	}
}
