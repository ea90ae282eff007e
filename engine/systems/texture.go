package systems

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

/** @brief The name of the default texture. */
const DEFAULT_TEXTURE_NAME string = "default"

type TextureSystem struct {
	// A 256x256 blue/white checkerboard that always exists.
	DefaultTexture *renderer.Texture
	// Registered textures by name.
	RegisteredTextures map[string]*renderer.Texture

	resourceSystem *ResourceSystem
	backend        renderer.Backend
}

func NewTextureSystem(rs *ResourceSystem, backend renderer.Backend) (*TextureSystem, error) {
	ts := &TextureSystem{
		RegisteredTextures: make(map[string]*renderer.Texture),
		resourceSystem:     rs,
		backend:            backend,
	}
	def, err := renderer.NewTexture(backend, DEFAULT_TEXTURE_NAME, defaultTexturePixels())
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	ts.DefaultTexture = def
	ts.RegisteredTextures[DEFAULT_TEXTURE_NAME] = def
	return ts, nil
}

// defaultTexturePixels builds the checkerboard in code to eliminate asset
// dependencies.
func defaultTexturePixels() *metadata.ImageResourceData {
	texDimension := uint32(256)
	channels := uint32(4)
	pixels := make([]uint8, texDimension*texDimension*channels)
	for i := range pixels {
		pixels[i] = 255
	}

	// Each pixel.
	for row := uint32(0); row < texDimension; row++ {
		for col := uint32(0); col < texDimension; col++ {
			index := (row * texDimension) + col
			indexBpp := index * channels
			if row%2 == col%2 {
				pixels[indexBpp+0] = 0
				pixels[indexBpp+1] = 0
			}
		}
	}
	return &metadata.ImageResourceData{
		ChannelCount: uint8(channels),
		Width:        texDimension,
		Height:       texDimension,
		Pixels:       pixels,
	}
}

// Load decodes an image file and uploads it under name.
func (ts *TextureSystem) Load(name, path string) (*renderer.Texture, error) {
	if _, ok := ts.RegisteredTextures[name]; ok {
		err := fmt.Errorf("texture %s: %w", name, core.ErrTextureExists)
		core.LogError(err.Error())
		return nil, err
	}
	res, err := ts.resourceSystem.Load(path)
	if err != nil {
		return nil, err
	}
	image, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		err := fmt.Errorf("%s is not an image: %w", res.FullPath, core.ErrInvalidAsset)
		core.LogError(err.Error())
		return nil, err
	}
	t, err := renderer.NewTexture(ts.backend, name, image)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	ts.RegisteredTextures[name] = t
	core.LogDebug("texture %s loaded from %s (%dx%d)", name, res.FullPath, t.Width, t.Height)
	return t, nil
}

func (ts *TextureSystem) Get(name string) (*renderer.Texture, error) {
	t, ok := ts.RegisteredTextures[name]
	if !ok {
		err := fmt.Errorf("texture %s: %w", name, core.ErrTextureNotFound)
		core.LogError(err.Error())
		return nil, err
	}
	return t, nil
}

// Acquire returns the texture registered under ref. An unknown ref that
// names an image file is loaded and registered under that name.
func (ts *TextureSystem) Acquire(ref string) (*renderer.Texture, error) {
	if t, ok := ts.RegisteredTextures[ref]; ok {
		return t, nil
	}
	if metadata.DetermineResourceType(filepath.Base(ref)) == metadata.ResourceTypeImage {
		return ts.Load(ref, ref)
	}
	return ts.Get(ref)
}

// Names returns the registered texture names in order.
func (ts *TextureSystem) Names() []string {
	names := make([]string, 0, len(ts.RegisteredTextures))
	for name := range ts.RegisteredTextures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ts *TextureSystem) Shutdown() error {
	// Destroy all loaded textures, the default one included.
	for _, t := range ts.RegisteredTextures {
		t.Destroy()
	}
	ts.RegisteredTextures = make(map[string]*renderer.Texture)
	ts.DefaultTexture = nil
	return nil
}
