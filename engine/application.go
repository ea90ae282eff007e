package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
)

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32        `toml:"start_height"`
	LogLevel    core.LogLevel `toml:"log_level"`
	// Either "opengl" or "headless".
	Renderer string `toml:"renderer"`
	VSync    bool   `toml:"vsync"`

	// Root every asset path below is resolved against.
	AssetsDir string `toml:"assets_dir"`
	// Directory watched for shader changes, relative to AssetsDir.
	ShaderDir string `toml:"shader_dir"`
	HotReload bool   `toml:"hot_reload"`
	// Empty disables the binary mesh cache.
	MeshCacheDir  string `toml:"mesh_cache_dir"`
	MaterialsPath string `toml:"materials"`
	ScenePath     string `toml:"scene"`
}

func DefaultConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:          "Kalsengi Testbed",
		StartPosX:     100,
		StartPosY:     100,
		StartWidth:    1280,
		StartHeight:   720,
		LogLevel:      core.InfoLevel,
		Renderer:      renderer.OpenGL.String(),
		VSync:         true,
		AssetsDir:     "assets",
		ShaderDir:     "shaders",
		HotReload:     true,
		MeshCacheDir:  ".cache/meshes",
		MaterialsPath: "materials.toml",
		ScenePath:     "scene.toml",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing from
// the file keep their default.
func LoadConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*ApplicationConfig, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if _, err := renderer.ParseRendererType(c.Renderer); err != nil {
		return err
	}
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window size %dx%d: %w", c.StartWidth, c.StartHeight, core.ErrInvalidConfig)
	}
	if c.AssetsDir == "" {
		return fmt.Errorf("assets_dir is empty: %w", core.ErrInvalidConfig)
	}
	return nil
}
