package systems

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/kalsengi/engine/assets"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The relative base path for assets. */
	AssetBasePath string
}

// ResourceSystem resolves asset paths and picks the loader for each file type.
type ResourceSystem struct {
	Config            ResourceSystemConfig
	RegisteredLoaders map[metadata.ResourceType]assets.Loader
}

func NewResourceSystem(config ResourceSystemConfig) (*ResourceSystem, error) {
	rs := &ResourceSystem{
		Config:            config,
		RegisteredLoaders: make(map[metadata.ResourceType]assets.Loader),
	}
	// NOTE: Auto-register known loader types here.
	for t, l := range assets.DefaultLoaders() {
		if err := rs.RegisterLoader(t, l); err != nil {
			return nil, err
		}
	}
	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)
	return rs, nil
}

// RegisterLoader adds a loader. Only one loader per resource type is allowed.
func (rs *ResourceSystem) RegisterLoader(resourceType metadata.ResourceType, loader assets.Loader) error {
	if _, ok := rs.RegisteredLoaders[resourceType]; ok {
		err := fmt.Errorf("loader of type %d already exists and will not be registered", resourceType)
		core.LogError(err.Error())
		return err
	}
	rs.RegisteredLoaders[resourceType] = loader
	return nil
}

// Path resolves name against the asset base path. Absolute names and names
// already below the base path are returned cleaned.
func (rs *ResourceSystem) Path(name string) string {
	base := rs.Config.AssetBasePath
	if base == "" || filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	clean := filepath.Clean(name)
	cleanBase := filepath.Clean(base)
	if clean == cleanBase || strings.HasPrefix(clean, cleanBase+string(filepath.Separator)) {
		return clean
	}
	return filepath.Join(base, name)
}

// Load reads the named asset with the loader registered for its extension.
func (rs *ResourceSystem) Load(name string) (*metadata.Resource, error) {
	fullPath := rs.Path(name)
	resourceType := metadata.DetermineResourceType(fullPath)
	loader, ok := rs.RegisteredLoaders[resourceType]
	if !ok {
		err := fmt.Errorf("no loader for %s: %w", fullPath, core.ErrInvalidAsset)
		core.LogError(err.Error())
		return nil, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	data, err := loader.Load(fullPath)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return &metadata.Resource{
		Type:     resourceType,
		Name:     strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath)),
		FullPath: fullPath,
		DataSize: uint64(info.Size()),
		Data:     data,
	}, nil
}
