package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// LoadGLTFMesh reads the first primitive of the first mesh in a .gltf or .glb
// file. Missing normals are generated flat; uvs are flipped so v=0 is the bottom.
func LoadGLTFMesh(path string) (*metadata.MeshConfig, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf %s: %w", path, err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, fmt.Errorf("%s has no mesh primitives: %w", path, core.ErrInvalidAsset)
	}
	prim := doc.Meshes[0].Primitives[0]

	config := &metadata.MeshConfig{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Mode: metadata.DRAW_MODE_TRIANGLES,
	}
	switch prim.Mode {
	case gltf.PrimitiveTriangles:
	case gltf.PrimitiveLines:
		config.Mode = metadata.DRAW_MODE_LINES
	default:
		return nil, fmt.Errorf("%s: unsupported primitive mode %d: %w", path, prim.Mode, core.ErrInvalidAsset)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%s: no POSITION attribute: %w", path, core.ErrInvalidAsset)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}
	config.Positions = make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		config.Positions = append(config.Positions, p[0], p[1], p[2])
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
		config.UVs = make([]float32, 0, len(uvs)*2)
		for _, uv := range uvs {
			config.UVs = append(config.UVs, uv[0], 1-uv[1])
		}
	}

	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		raw, err := modeler.ReadAccessor(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read colors: %w", err)
		}
		if config.Colors, err = colorsToFloats(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		config.Indices = indices
	}

	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
		config.Normals = make([]float32, 0, len(normals)*3)
		for _, n := range normals {
			config.Normals = append(config.Normals, n[0], n[1], n[2])
		}
	} else if config.Mode == metadata.DRAW_MODE_TRIANGLES && len(config.Indices) > 0 {
		config.Normals = math.GenerateFlatNormals(config.Positions, config.Indices)
	}

	core.LogDebug("loaded %s: %d vertices, %d indices", path, config.VertexCount(), len(config.Indices))
	return config, nil
}

// colorsToFloats keeps rgb of any COLOR_0 accessor layout.
func colorsToFloats(raw interface{}) ([]float32, error) {
	var out []float32
	switch c := raw.(type) {
	case [][3]float32:
		for _, v := range c {
			out = append(out, v[0], v[1], v[2])
		}
	case [][4]float32:
		for _, v := range c {
			out = append(out, v[0], v[1], v[2])
		}
	case [][3]uint8:
		for _, v := range c {
			out = append(out, float32(v[0])/255, float32(v[1])/255, float32(v[2])/255)
		}
	case [][4]uint8:
		for _, v := range c {
			out = append(out, float32(v[0])/255, float32(v[1])/255, float32(v[2])/255)
		}
	case [][3]uint16:
		for _, v := range c {
			out = append(out, float32(v[0])/65535, float32(v[1])/65535, float32(v[2])/65535)
		}
	case [][4]uint16:
		for _, v := range c {
			out = append(out, float32(v[0])/65535, float32(v[1])/65535, float32(v[2])/65535)
		}
	default:
		return nil, fmt.Errorf("unsupported color layout %T: %w", raw, core.ErrInvalidAsset)
	}
	return out, nil
}
