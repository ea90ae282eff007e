package assets

import (
	"github.com/spaghettifunk/kalsengi/engine/assets/loaders"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// Loader reads one kind of asset from disk. The concrete type of the
// returned value depends on the resource type.
type Loader interface {
	Load(path string) (interface{}, error)
}

type LoaderFunc func(path string) (interface{}, error)

func (f LoaderFunc) Load(path string) (interface{}, error) {
	return f(path)
}

// DefaultLoaders returns the engine's loaders keyed by the resource type
// they produce:
//
//	shader     string
//	image      *metadata.ImageResourceData (flipped so row 0 is the bottom)
//	material   *metadata.MaterialDatabase
//	scene      *metadata.SceneConfig
//	mesh       *metadata.MeshConfig
//	mesh cache *metadata.MeshConfig
func DefaultLoaders() map[metadata.ResourceType]Loader {
	return map[metadata.ResourceType]Loader{
		metadata.ResourceTypeShader: LoaderFunc(func(path string) (interface{}, error) {
			return loaders.LoadShaderSource(path)
		}),
		metadata.ResourceTypeImage: LoaderFunc(func(path string) (interface{}, error) {
			return loaders.LoadImage(path, &metadata.ImageResourceParams{FlipY: true})
		}),
		metadata.ResourceTypeMaterial: LoaderFunc(func(path string) (interface{}, error) {
			return loaders.LoadMaterials(path)
		}),
		metadata.ResourceTypeScene: LoaderFunc(func(path string) (interface{}, error) {
			return loaders.LoadScene(path)
		}),
		metadata.ResourceTypeMesh: LoaderFunc(func(path string) (interface{}, error) {
			return loaders.LoadGLTFMesh(path)
		}),
		metadata.ResourceTypeMeshCache: LoaderFunc(func(path string) (interface{}, error) {
			return loaders.LoadMeshCache(path)
		}),
	}
}
