package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/engine/entity"
	"github.com/Carmen-Shannon/oxy-gl/engine/loader"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// ErrUnknownMesh is returned by GetOrCreateMesh when no factory is registered for the key.
var ErrUnknownMesh = errors.New("scene: unknown mesh key")

// scene is the implementation of the Scene interface.
type scene struct {
	r      renderer.Renderer
	loader loader.Loader
	logger *slog.Logger

	entities  []entity.Entity
	meshes    map[string]model.Mesh
	models    map[string]model.Model
	factories map[string]model.MeshFactory

	loadPool    worker.DynamicWorkerPool
	loadWorkers int
	closed      bool
}

// Scene owns what gets drawn: a flat list of root entities and the caches of the meshes and models
// they are built from.
//
// Entities draw in insertion order. Each cache holds at most one instance per key and never evicts;
// a hit returns the cached instance without GPU work, and a failed build leaves no entry. The cache
// owns one reference to every resource, and every entity built on it owns one more.
//
// A Scene has no internal locking. It is used from the thread that owns the GL context; only
// Preload runs work on other goroutines, and those only decode files.
type Scene interface {
	// AddEntity appends an entity to the root list. The scene takes ownership and releases the
	// entity on Close.
	//
	// Parameters:
	//   - e: the entity to add (must not be nil)
	AddEntity(e entity.Entity)

	// Entities returns a copy of the root list in draw order.
	//
	// Returns:
	//   - []entity.Entity: the entities
	Entities() []entity.Entity

	// GetOrCreateMesh returns the cached mesh for key, building it with the registered factory
	// on first use. "box", "plane" and "sphere" are registered by default.
	//
	// Parameters:
	//   - key: the mesh key
	//
	// Returns:
	//   - model.Mesh: the cached mesh
	//   - error: ErrUnknownMesh if no factory matches, or the factory's error
	GetOrCreateMesh(key string) (model.Mesh, error)

	// GetOrCreateModel returns the cached model for path, loading and uploading it on first use.
	//
	// Parameters:
	//   - path: the model file path, also the cache key
	//
	// Returns:
	//   - model.Model: the cached model
	//   - error: a wrapped load or upload error
	GetOrCreateModel(path string) (model.Model, error)

	// Preload decodes model files in parallel on a worker pool, then uploads them one by one on
	// the calling thread and caches them. Paths already cached are skipped. A path that fails stays
	// uncached; its error is joined into the result and the other paths still load.
	//
	// Parameters:
	//   - ctx: cancels decodes that have not started and uploads that have not run
	//   - paths: the model files
	//
	// Returns:
	//   - error: the joined failures, nil if every path loaded
	Preload(ctx context.Context, paths ...string) error

	// MeshKeys returns the cached mesh keys, sorted.
	//
	// Returns:
	//   - []string: the keys
	MeshKeys() []string

	// ModelKeys returns the cached model paths, sorted.
	//
	// Returns:
	//   - []string: the keys
	ModelKeys() []string

	// Draw draws every root entity in insertion order.
	//
	// Parameters:
	//   - s: the shader currently in use
	Draw(s shader.Shader)

	// Close releases every entity and then every cached resource. Calling Close again does nothing.
	Close()
}

var _ Scene = &scene{}

// NewScene creates an empty Scene that uploads resources on r.
//
// Parameters:
//   - r: the renderer to upload on (must not be nil)
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		r:           r,
		logger:      slog.Default(),
		meshes:      make(map[string]model.Mesh),
		models:      make(map[string]model.Model),
		factories:   model.DefaultMeshFactories(),
		loadWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}
	if s.loader == nil {
		s.loader = loader.NewLoader(loader.WithLogger(s.logger))
	}

	// Workers idle-exit after a second, so a scene that never preloads holds no goroutines.
	s.loadPool = worker.NewDynamicWorkerPool(s.loadWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) AddEntity(e entity.Entity) {
	if e == nil {
		panic("scene: AddEntity requires a non-nil Entity")
	}
	s.entities = append(s.entities, e)
}

func (s *scene) Entities() []entity.Entity {
	return append([]entity.Entity(nil), s.entities...)
}

func (s *scene) GetOrCreateMesh(key string) (model.Mesh, error) {
	if m, ok := s.meshes[key]; ok {
		return m, nil
	}

	factory, ok := s.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMesh, key)
	}
	m, err := factory(s.r)
	if err != nil {
		s.logger.Warn("mesh build failed", "key", key, "error", err)
		return nil, fmt.Errorf("failed to build mesh %s: %w", key, err)
	}

	s.meshes[key] = m
	s.logger.Debug("mesh cached", "key", key, "vertices", len(m.Vertices()))
	return m, nil
}

func (s *scene) GetOrCreateModel(path string) (model.Model, error) {
	if m, ok := s.models[path]; ok {
		return m, nil
	}

	data, err := s.loader.Load(path)
	if err != nil {
		s.logger.Warn("model load failed", "path", path, "error", err)
		return nil, err
	}
	return s.upload(path, data)
}

// upload turns decoded data into a cached Model.
func (s *scene) upload(path string, data *loader.ModelData) (model.Model, error) {
	m, err := model.FromData(s.r, data)
	if err != nil {
		s.logger.Warn("model upload failed", "path", path, "error", err)
		return nil, fmt.Errorf("failed to upload %s: %w", path, err)
	}

	s.models[path] = m
	s.logger.Info("model loaded", "path", path, "meshes", len(m.Meshes()), "textures", len(m.Textures()))
	return m, nil
}

func (s *scene) Preload(ctx context.Context, paths ...string) error {
	type result struct {
		path string
		data *loader.ModelData
		err  error
	}

	seen := make(map[string]bool, len(paths))
	var results []*result
	for _, p := range paths {
		if _, cached := s.models[p]; cached || seen[p] {
			continue
		}
		seen[p] = true
		results = append(results, &result{path: p})
	}
	if len(results) == 0 {
		return nil
	}

	// A WaitGroup is the barrier; decoded data comes back through results and is uploaded here,
	// on the GL thread.
	var wg sync.WaitGroup
	start := time.Now()
	for i, res := range results {
		wg.Add(1)
		s.loadPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := ctx.Err(); err != nil {
					res.err = err
					return nil, err
				}
				res.data, res.err = s.loader.Load(res.path)
				return nil, res.err
			},
		})
	}
	wg.Wait()
	s.logger.Debug("preload decoded", "models", len(results), "elapsed", time.Since(start))

	var errs []error
	for _, res := range results {
		if res.err == nil {
			res.err = ctx.Err()
		}
		if res.err != nil {
			s.logger.Warn("model preload failed", "path", res.path, "error", res.err)
			errs = append(errs, fmt.Errorf("preload %s: %w", res.path, res.err))
			continue
		}
		if _, err := s.upload(res.path, res.data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *scene) MeshKeys() []string {
	return sortedKeys(s.meshes)
}

func (s *scene) ModelKeys() []string {
	return sortedKeys(s.models)
}

func (s *scene) Draw(sh shader.Shader) {
	for _, e := range s.entities {
		e.Draw(sh)
	}
}

func (s *scene) Close() {
	if s.closed {
		return
	}
	s.closed = true

	for _, e := range s.entities {
		e.Release()
	}
	s.entities = nil

	for _, m := range s.meshes {
		m.Release()
	}
	clear(s.meshes)

	for _, m := range s.models {
		m.Release()
	}
	clear(s.models)

	s.logger.Debug("scene closed", "live_meshes", s.r.Stats().LiveMeshes(), "live_textures", s.r.Stats().LiveTextures())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
