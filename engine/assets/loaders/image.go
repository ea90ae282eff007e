package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// LoadImage decodes a PNG, JPEG, BMP or TIFF file into tightly packed RGBA.
func LoadImage(path string, params *metadata.ImageResourceParams) (*metadata.ImageResourceData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := DecodeImage(f, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func DecodeImage(r io.Reader, params *metadata.ImageResourceParams) (*metadata.ImageResourceData, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err, core.ErrInvalidAsset)
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty %s image: %w", format, core.ErrInvalidAsset)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	pixels := rgba.Pix
	if params != nil && params.FlipY {
		pixels = flipRows(rgba.Pix, rgba.Stride, b.Dy())
	}
	return &metadata.ImageResourceData{
		ChannelCount: 4,
		Width:        uint32(b.Dx()),
		Height:       uint32(b.Dy()),
		Pixels:       pixels,
	}, nil
}

// flipRows reverses the row order so the first row is the bottom one.
func flipRows(pix []uint8, stride, height int) []uint8 {
	out := make([]uint8, len(pix))
	for y := 0; y < height; y++ {
		copy(out[(height-1-y)*stride:(height-y)*stride], pix[y*stride:(y+1)*stride])
	}
	return out
}
