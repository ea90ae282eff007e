package renderer

import (
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// Texture is a 2D RGBA texture.
type Texture struct {
	Name   string
	Width  uint32
	Height uint32

	id      uint32
	backend Backend
}

func NewTexture(backend Backend, name string, image *metadata.ImageResourceData) (*Texture, error) {
	want := int(image.Width) * int(image.Height) * 4
	if image.Width == 0 || image.Height == 0 || len(image.Pixels) != want {
		return nil, fmt.Errorf("texture %s: %dx%d with %d bytes: %w", name, image.Width, image.Height, len(image.Pixels), core.ErrInvalidAsset)
	}
	return &Texture{
		Name:    name,
		Width:   image.Width,
		Height:  image.Height,
		id:      backend.TextureCreate(image.Width, image.Height, image.Pixels),
		backend: backend,
	}, nil
}

func (t *Texture) ID() uint32 {
	return t.id
}

func (t *Texture) Bind(unit uint32) {
	t.backend.TextureBind(unit, t.id)
}

func (t *Texture) Destroy() {
	if t.id != 0 {
		t.backend.TextureDestroy(t.id)
		t.id = 0
	}
}
