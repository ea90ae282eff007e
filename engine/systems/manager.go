package systems

import (
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

type SystemManagerConfig struct {
	// Relative stage, image and mesh paths resolve against this directory.
	AssetBasePath string
	// Where imported meshes are cached. Empty disables the cache.
	MeshCacheDir string
}

// SystemManager owns the registries and every GPU resource they create.
type SystemManager struct {
	ResourceSystem *ResourceSystem
	ShaderSystem   *ShaderSystem
	TextureSystem  *TextureSystem
	MaterialSystem *MaterialSystem
	MeshSystem     *MeshSystem

	backend renderer.Backend
}

func NewSystemManager(backend renderer.Backend, config SystemManagerConfig) (*SystemManager, error) {
	rs, err := NewResourceSystem(ResourceSystemConfig{
		AssetBasePath: config.AssetBasePath,
	})
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(rs, backend)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(rs, backend)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(ss, ts)
	if err != nil {
		return nil, err
	}
	mesh, err := NewMeshSystem(rs, backend, config.MeshCacheDir)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		ResourceSystem: rs,
		ShaderSystem:   ss,
		TextureSystem:  ts,
		MaterialSystem: ms,
		MeshSystem:     mesh,
		backend:        backend,
	}, nil
}

func (sm *SystemManager) Backend() renderer.Backend {
	return sm.backend
}

// LoadMaterials reads a TOML material database, compiles its shaders and
// registers its materials.
func (sm *SystemManager) LoadMaterials(path string) error {
	res, err := sm.ResourceSystem.Load(path)
	if err != nil {
		return err
	}
	db, ok := res.Data.(*metadata.MaterialDatabase)
	if !ok {
		err := fmt.Errorf("%s is not a material database: %w", res.FullPath, core.ErrInvalidAsset)
		core.LogError(err.Error())
		return err
	}
	return sm.RegisterMaterials(db)
}

func (sm *SystemManager) RegisterMaterials(db *metadata.MaterialDatabase) error {
	for _, s := range db.Shaders {
		if _, err := sm.ShaderSystem.Load(s.Name, s.VertexPath, s.FragmentPath); err != nil {
			return err
		}
	}
	for _, m := range db.Materials {
		if err := sm.MaterialSystem.Register(m); err != nil {
			return err
		}
	}
	core.LogInfo("registered %d shaders and %d materials", len(db.Shaders), len(db.Materials))
	return nil
}

// Shutdown destroys every mesh, shader and texture the systems created.
func (sm *SystemManager) Shutdown() error {
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MeshSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.ShaderSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.TextureSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
