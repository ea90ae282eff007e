package loaders

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// LoadShaderSource reads one GLSL stage.
func LoadShaderSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("shader source %s is empty: %w", path, core.ErrInvalidAsset)
	}
	return string(data), nil
}

// LoadShaderStages reads both stages named by config.
func LoadShaderStages(config *metadata.ShaderConfig) (vertex string, fragment string, err error) {
	if vertex, err = LoadShaderSource(config.VertexPath); err != nil {
		return "", "", err
	}
	if fragment, err = LoadShaderSource(config.FragmentPath); err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}
