package metadata

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief Material configuration typically loaded from
 * a file or created in code to load a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string `toml:"name"`
	/** @brief The name of the shader the material wraps. */
	ShaderName string `toml:"shader"`
	/**
	 * @brief Initial uniform values keyed by uniform name. Numbers map to
	 * float or int uniforms, arrays of 2-4 numbers to vectors.
	 */
	Uniforms map[string]interface{} `toml:"uniforms"`
	/** @brief Texture names keyed by sampler uniform name. */
	Textures map[string]string `toml:"textures"`
}

// MaterialDatabase is the on-disk list of materials.
type MaterialDatabase struct {
	Shaders   []ShaderConfig   `toml:"shader"`
	Materials []MaterialConfig `toml:"material"`
}
