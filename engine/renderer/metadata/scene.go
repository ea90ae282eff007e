package metadata

/**
 * @brief A scene description, typically loaded from a TOML file.
 */
type SceneConfig struct {
	/** @brief The name of the scene. */
	Name string `toml:"name"`
	/** @brief The name of the entity selected when the scene starts. */
	Selected string `toml:"selected"`
	/** @brief Meshes loaded from disk before any entity is built. */
	Meshes []MeshReference `toml:"mesh"`
	/** @brief The entities, in creation order. Parents must come before children. */
	Entities []EntityConfig `toml:"entity"`
}

// MeshReference names a glTF file so mesh renderers can use it by name.
type MeshReference struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type EntityConfig struct {
	Name string `toml:"name"`
	/** @brief Optional name of the parent entity. */
	Parent   string     `toml:"parent"`
	Position [3]float32 `toml:"position"`
	/** @brief Euler angles in degrees, applied x then y then z. */
	Rotation [3]float32 `toml:"rotation"`
	/** @brief Defaults to (1,1,1) when omitted. */
	Scale     *[3]float32      `toml:"scale"`
	Behaviors []BehaviorConfig `toml:"behavior"`
}

/**
 * @brief One behavior of an entity. Type selects which of the optional
 * fields apply: camera, light, mesh_renderer, rotate or free_fly.
 */
type BehaviorConfig struct {
	Type    string `toml:"type"`
	Enabled *bool  `toml:"enabled"`

	// camera
	FOV        float32     `toml:"fov"`
	Aspect     float32     `toml:"aspect"`
	Near       float32     `toml:"near"`
	Far        float32     `toml:"far"`
	ClearColor *[3]float32 `toml:"clear_color"`

	// light
	Kind  string      `toml:"kind"`
	Color *[3]float32 `toml:"color"`

	// mesh_renderer
	Mesh     string `toml:"mesh"`
	Material string `toml:"material"`
	// Instance gives the renderer its own material instance instead of the shared one.
	Instance bool `toml:"instance"`

	// rotate and free_fly
	Speed        float32     `toml:"speed"`
	Axis         *[3]float32 `toml:"axis"`
	AngularSpeed float32     `toml:"angular_speed"`
}
