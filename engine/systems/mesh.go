package systems

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spaghettifunk/kalsengi/engine/assets/loaders"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

type MeshSystem struct {
	// Uploaded meshes by name.
	Meshes map[string]*renderer.Mesh
	// Imported glTF meshes are cached here as .kmesh files when set.
	CacheDir string

	resourceSystem *ResourceSystem
	backend        renderer.Backend
}

func NewMeshSystem(rs *ResourceSystem, backend renderer.Backend, cacheDir string) (*MeshSystem, error) {
	ms := &MeshSystem{
		Meshes:         make(map[string]*renderer.Mesh),
		CacheDir:       cacheDir,
		resourceSystem: rs,
		backend:        backend,
	}
	for _, config := range primitiveConfigs() {
		if _, err := ms.Create(config); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

// Create uploads config under config.Name.
func (ms *MeshSystem) Create(config *metadata.MeshConfig) (*renderer.Mesh, error) {
	if _, ok := ms.Meshes[config.Name]; ok {
		err := fmt.Errorf("mesh %s: %w", config.Name, core.ErrMeshExists)
		core.LogError(err.Error())
		return nil, err
	}
	mesh, err := renderer.NewMesh(ms.backend, config)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	ms.Meshes[config.Name] = mesh
	return mesh, nil
}

// Load imports a .gltf/.glb file or reads a .kmesh cache and uploads it under name.
func (ms *MeshSystem) Load(name, path string) (*renderer.Mesh, error) {
	if _, ok := ms.Meshes[name]; ok {
		err := fmt.Errorf("mesh %s: %w", name, core.ErrMeshExists)
		core.LogError(err.Error())
		return nil, err
	}
	fullPath := ms.resourceSystem.Path(path)

	config, cached := ms.loadCached(name, fullPath)
	if !cached {
		res, err := ms.resourceSystem.Load(fullPath)
		if err != nil {
			return nil, err
		}
		var ok bool
		if config, ok = res.Data.(*metadata.MeshConfig); !ok {
			err := fmt.Errorf("%s is not a mesh: %w", fullPath, core.ErrInvalidAsset)
			core.LogError(err.Error())
			return nil, err
		}
		if res.Type == metadata.ResourceTypeMesh {
			ms.saveCached(name, config)
		}
	}
	config.Name = name
	return ms.Create(config)
}

func (ms *MeshSystem) cachePath(name string) string {
	return filepath.Join(ms.CacheDir, name+".kmesh")
}

// loadCached reads the cache entry for an imported mesh when it is at least
// as new as its source file.
func (ms *MeshSystem) loadCached(name, source string) (*metadata.MeshConfig, bool) {
	if ms.CacheDir == "" || metadata.DetermineResourceType(source) != metadata.ResourceTypeMesh {
		return nil, false
	}
	src, err := os.Stat(source)
	if err != nil {
		return nil, false
	}
	cache, err := os.Stat(ms.cachePath(name))
	if err != nil || cache.ModTime().Before(src.ModTime()) {
		return nil, false
	}
	config, err := loaders.LoadMeshCache(ms.cachePath(name))
	if err != nil {
		core.LogWarn("ignoring mesh cache for %s: %s", name, err.Error())
		return nil, false
	}
	core.LogDebug("mesh %s read from cache", name)
	return config, true
}

func (ms *MeshSystem) saveCached(name string, config *metadata.MeshConfig) {
	if ms.CacheDir == "" {
		return
	}
	if err := os.MkdirAll(ms.CacheDir, 0o755); err != nil {
		core.LogWarn("cannot create mesh cache directory: %s", err.Error())
		return
	}
	if err := loaders.SaveMeshCache(ms.cachePath(name), config); err != nil {
		core.LogWarn("cannot cache mesh %s: %s", name, err.Error())
	}
}

func (ms *MeshSystem) Get(name string) (*renderer.Mesh, error) {
	mesh, ok := ms.Meshes[name]
	if !ok {
		err := fmt.Errorf("mesh %s: %w", name, core.ErrMeshNotFound)
		core.LogError(err.Error())
		return nil, err
	}
	return mesh, nil
}

// Names returns the registered mesh names in order.
func (ms *MeshSystem) Names() []string {
	names := make([]string, 0, len(ms.Meshes))
	for name := range ms.Meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ms *MeshSystem) Shutdown() error {
	for _, mesh := range ms.Meshes {
		mesh.Destroy()
	}
	ms.Meshes = make(map[string]*renderer.Mesh)
	return nil
}
