package metadata

import "fmt"

/**
 * @brief The type of a shader uniform as reported by program introspection.
 * Values are the OpenGL type enums so backends can pass them through.
 */
type ShaderUniformType uint32

const (
	SHADER_UNIFORM_TYPE_FLOAT      ShaderUniformType = 0x1406
	SHADER_UNIFORM_TYPE_FLOAT_VEC2 ShaderUniformType = 0x8B50
	SHADER_UNIFORM_TYPE_FLOAT_VEC3 ShaderUniformType = 0x8B51
	SHADER_UNIFORM_TYPE_FLOAT_VEC4 ShaderUniformType = 0x8B52
	SHADER_UNIFORM_TYPE_INT        ShaderUniformType = 0x1404
	SHADER_UNIFORM_TYPE_INT_VEC2   ShaderUniformType = 0x8B53
	SHADER_UNIFORM_TYPE_INT_VEC3   ShaderUniformType = 0x8B54
	SHADER_UNIFORM_TYPE_INT_VEC4   ShaderUniformType = 0x8B55
	SHADER_UNIFORM_TYPE_BOOL       ShaderUniformType = 0x8B56
	SHADER_UNIFORM_TYPE_MATRIX_3   ShaderUniformType = 0x8B5B
	SHADER_UNIFORM_TYPE_MATRIX_4   ShaderUniformType = 0x8B5C
	SHADER_UNIFORM_TYPE_SAMPLER_2D ShaderUniformType = 0x8B5E
)

var uniformTypeNames = map[ShaderUniformType]string{
	SHADER_UNIFORM_TYPE_FLOAT:      "float",
	SHADER_UNIFORM_TYPE_FLOAT_VEC2: "vec2",
	SHADER_UNIFORM_TYPE_FLOAT_VEC3: "vec3",
	SHADER_UNIFORM_TYPE_FLOAT_VEC4: "vec4",
	SHADER_UNIFORM_TYPE_INT:        "int",
	SHADER_UNIFORM_TYPE_INT_VEC2:   "ivec2",
	SHADER_UNIFORM_TYPE_INT_VEC3:   "ivec3",
	SHADER_UNIFORM_TYPE_INT_VEC4:   "ivec4",
	SHADER_UNIFORM_TYPE_BOOL:       "bool",
	SHADER_UNIFORM_TYPE_MATRIX_3:   "mat3",
	SHADER_UNIFORM_TYPE_MATRIX_4:   "mat4",
	SHADER_UNIFORM_TYPE_SAMPLER_2D: "sampler2D",
}

// ParseShaderUniformType maps a GLSL type keyword to its enum.
func ParseShaderUniformType(glsl string) (ShaderUniformType, bool) {
	for t, name := range uniformTypeNames {
		if name == glsl {
			return t, true
		}
	}
	return 0, false
}

func (t ShaderUniformType) String() string {
	if name, ok := uniformTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint32(t))
}

/**
 * @brief Represents a single active uniform of a linked program.
 */
type ShaderUniform struct {
	/** @brief The uniform Name. */
	Name string
	/** @brief The Location, negative when the compiler optimized it out. */
	Location int32
	/** @brief The type of uniform. */
	Type ShaderUniformType
	/** @brief Array Size, 1 for non-arrays. */
	Size int32
}

/**
 * @brief Represents a single shader vertex attribute.
 */
type ShaderAttribute struct {
	/** @brief The attribute Name. */
	Name string
	/** @brief The attribute Location. */
	Location int32
	/** @brief The attribute type. */
	Type ShaderUniformType
	/** @brief Array Size, 1 for non-arrays. */
	Size int32
}

/**
 * @brief Configuration for a shader. Typically created and
 * destroyed by the shader system.
 */
type ShaderConfig struct {
	/** @brief The name of the shader to be created. */
	Name string `toml:"name"`
	/** @brief The path of the vertex stage source. */
	VertexPath string `toml:"vertex"`
	/** @brief The path of the fragment stage source. */
	FragmentPath string `toml:"fragment"`
}
