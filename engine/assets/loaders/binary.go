package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

/** @brief The current version of the binary mesh cache format. */
const MeshCacheVersion uint8 = 1

// the largest stream accepted when reading, in elements
const maxCacheElements = 1 << 26

// WriteMeshCache writes a header followed by an lz4 frame holding the mesh
// streams in little endian.
func WriteMeshCache(w io.Writer, config *metadata.MeshConfig) error {
	header := metadata.ResourceHeader{
		MagicNumber:  metadata.ResourceMagic,
		ResourceType: metadata.ResourceTypeMeshCache,
		Version:      MeshCacheVersion,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}

	zw := lz4.NewWriter(w)
	bw := bufio.NewWriter(zw)

	name := []byte(config.Name)
	counts := []uint32{
		uint32(len(name)),
		uint32(len(config.Positions)),
		uint32(len(config.UVs)),
		uint32(len(config.Normals)),
		uint32(len(config.Colors)),
		uint32(len(config.Indices)),
	}
	fields := []interface{}{
		uint8(config.Mode),
		counts,
		name,
		config.Positions,
		config.UVs,
		config.Normals,
		config.Colors,
		config.Indices,
	}
	for _, f := range fields {
		if err := binary.Write(bw, binary.LittleEndian, f); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return zw.Close()
}

// ReadMeshCache reads what WriteMeshCache wrote.
func ReadMeshCache(r io.Reader) (*metadata.MeshConfig, error) {
	var header metadata.ResourceHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("mesh cache header: %w", err)
	}
	if header.MagicNumber != metadata.ResourceMagic || header.ResourceType != metadata.ResourceTypeMeshCache {
		return nil, fmt.Errorf("not a mesh cache: %w", core.ErrInvalidAsset)
	}
	if header.Version != MeshCacheVersion {
		return nil, fmt.Errorf("mesh cache version %d, want %d: %w", header.Version, MeshCacheVersion, core.ErrInvalidAsset)
	}

	zr := lz4.NewReader(r)
	var mode uint8
	if err := binary.Read(zr, binary.LittleEndian, &mode); err != nil {
		return nil, fmt.Errorf("mesh cache body: %w", err)
	}
	counts := make([]uint32, 6)
	if err := binary.Read(zr, binary.LittleEndian, counts); err != nil {
		return nil, fmt.Errorf("mesh cache body: %w", err)
	}
	for _, c := range counts {
		if c > maxCacheElements {
			return nil, fmt.Errorf("mesh cache stream of %d elements: %w", c, core.ErrInvalidAsset)
		}
	}

	name := make([]byte, counts[0])
	config := &metadata.MeshConfig{Mode: metadata.DrawMode(mode)}
	config.Positions = floatsOrNil(counts[1])
	config.UVs = floatsOrNil(counts[2])
	config.Normals = floatsOrNil(counts[3])
	config.Colors = floatsOrNil(counts[4])
	if counts[5] > 0 {
		config.Indices = make([]uint32, counts[5])
	}

	fields := []interface{}{name, config.Positions, config.UVs, config.Normals, config.Colors, config.Indices}
	for _, f := range fields {
		if err := binary.Read(zr, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("mesh cache body: %w", err)
		}
	}
	config.Name = string(name)
	return config, nil
}

func floatsOrNil(n uint32) []float32 {
	if n == 0 {
		return nil
	}
	return make([]float32, n)
}

// SaveMeshCache writes config to path.
func SaveMeshCache(path string, config *metadata.MeshConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteMeshCache(f, config); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadMeshCache reads a .kmesh file.
func LoadMeshCache(path string) (*metadata.MeshConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	config, err := ReadMeshCache(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}
