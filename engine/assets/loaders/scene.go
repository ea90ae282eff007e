package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

var behaviorTypes = map[string]struct{}{
	"camera":        {},
	"light":         {},
	"mesh_renderer": {},
	"rotate":        {},
	"free_fly":      {},
}

// LoadScene reads a TOML scene description.
func LoadScene(path string) (*metadata.SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

// ParseScene decodes a scene and checks names, parents and behavior types.
func ParseScene(data []byte) (*metadata.SceneConfig, error) {
	scene := &metadata.SceneConfig{}
	if err := toml.Unmarshal(data, scene); err != nil {
		return nil, fmt.Errorf("%s: %w", err, core.ErrInvalidAsset)
	}

	for _, m := range scene.Meshes {
		if m.Name == "" || m.Path == "" {
			return nil, fmt.Errorf("mesh entries need a name and a path: %w", core.ErrInvalidAsset)
		}
	}

	seen := make(map[string]struct{}, len(scene.Entities))
	for _, e := range scene.Entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity without a name: %w", core.ErrInvalidAsset)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("entity %q declared twice: %w", e.Name, core.ErrInvalidAsset)
		}
		if e.Parent != "" {
			if _, ok := seen[e.Parent]; !ok {
				return nil, fmt.Errorf("entity %q: parent %q must be declared first: %w", e.Name, e.Parent, core.ErrInvalidAsset)
			}
		}
		for _, b := range e.Behaviors {
			if _, ok := behaviorTypes[b.Type]; !ok {
				return nil, fmt.Errorf("entity %q: unknown behavior %q: %w", e.Name, b.Type, core.ErrInvalidAsset)
			}
			if b.Type == "mesh_renderer" && (b.Mesh == "" || b.Material == "") {
				return nil, fmt.Errorf("entity %q: mesh_renderer needs mesh and material: %w", e.Name, core.ErrInvalidAsset)
			}
		}
		seen[e.Name] = struct{}{}
	}
	if scene.Selected != "" {
		if _, ok := seen[scene.Selected]; !ok {
			return nil, fmt.Errorf("selected entity %q does not exist: %w", scene.Selected, core.ErrInvalidAsset)
		}
	}
	return scene, nil
}
