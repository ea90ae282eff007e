package metadata

import (
	"path/filepath"
	"strings"
)

type ResourceType uint8

/** @brief Pre-defined resource types. */
const (
	/** @brief Files the engine does not load. */
	ResourceTypeNone ResourceType = iota
	/** @brief GLSL stage source. */
	ResourceTypeShader
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Material database resource type. */
	ResourceTypeMaterial
	/** @brief Scene description resource type. */
	ResourceTypeScene
	/** @brief Mesh resource type (glTF). */
	ResourceTypeMesh
	/** @brief Binary mesh cache resource type. */
	ResourceTypeMeshCache
)

/** @brief A magic number indicating the file as a kalsengi binary file ("KMSH"). */
const ResourceMagic uint32 = 0x48534D4B

/**
 * @brief The header data for binary resource types.
 */
type ResourceHeader struct {
	/** @brief A magic number indicating the file as a kalsengi binary file. */
	MagicNumber uint32
	/** @brief The resource type. */
	ResourceType ResourceType
	/** @brief The format version this resource uses. */
	Version uint8
	/** @brief Reserved for future header data.. */
	Reserved uint16
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The type of the resource. */
	Type ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

// DetermineResourceType maps a file extension to its resource type.
func DetermineResourceType(path string) ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert", ".frag", ".glsl", ".vs", ".fs":
		return ResourceTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff":
		return ResourceTypeImage
	case ".gltf", ".glb":
		return ResourceTypeMesh
	case ".kmesh":
		return ResourceTypeMeshCache
	case ".toml":
		if strings.Contains(strings.ToLower(filepath.Base(path)), "material") {
			return ResourceTypeMaterial
		}
		return ResourceTypeScene
	default:
		return ResourceTypeNone
	}
}
