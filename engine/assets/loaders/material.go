package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// LoadMaterials reads a TOML database of [[shader]] and [[material]] tables.
func LoadMaterials(path string) (*metadata.MaterialDatabase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	db, err := ParseMaterials(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

func ParseMaterials(data []byte) (*metadata.MaterialDatabase, error) {
	db := &metadata.MaterialDatabase{}
	if err := toml.Unmarshal(data, db); err != nil {
		return nil, fmt.Errorf("%s: %w", err, core.ErrInvalidAsset)
	}

	shaders := make(map[string]struct{}, len(db.Shaders))
	for _, s := range db.Shaders {
		if s.Name == "" || s.VertexPath == "" || s.FragmentPath == "" {
			return nil, fmt.Errorf("shader entry %q needs name, vertex and fragment: %w", s.Name, core.ErrInvalidAsset)
		}
		if _, dup := shaders[s.Name]; dup {
			return nil, fmt.Errorf("shader %q declared twice: %w", s.Name, core.ErrInvalidAsset)
		}
		shaders[s.Name] = struct{}{}
	}

	materials := make(map[string]struct{}, len(db.Materials))
	for _, m := range db.Materials {
		if m.Name == "" || m.ShaderName == "" {
			return nil, fmt.Errorf("material entry %q needs name and shader: %w", m.Name, core.ErrInvalidAsset)
		}
		if _, dup := materials[m.Name]; dup {
			return nil, fmt.Errorf("material %q declared twice: %w", m.Name, core.ErrInvalidAsset)
		}
		materials[m.Name] = struct{}{}
	}
	return db, nil
}
