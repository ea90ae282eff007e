package renderer

import (
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

const float32Size = 4

// VertexLayout describes where one attribute lives inside the interleaved buffer.
type VertexLayout struct {
	// Size is the number of float components.
	Size int32
	// Offset is in bytes from the start of a vertex.
	Offset uintptr
}

// Mesh is immutable vertex data uploaded once to the GPU.
type Mesh struct {
	Name        string
	Mode        metadata.DrawMode
	VertexCount int32
	IndexCount  int32
	// Stride is the size of one interleaved vertex in bytes.
	Stride  int32
	Extents math.Extents3D

	layout  map[metadata.VertexAttribute]VertexLayout
	vbo     uint32
	ebo     uint32
	backend Backend
}

// NewMesh validates config, interleaves it and uploads it.
func NewMesh(backend Backend, config *metadata.MeshConfig) (*Mesh, error) {
	if err := validateMeshConfig(config); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	vertices, stride, layout := interleave(config)
	m := &Mesh{
		Name:        config.Name,
		Mode:        config.Mode,
		VertexCount: int32(config.VertexCount()),
		IndexCount:  int32(len(config.Indices)),
		Stride:      stride,
		Extents:     math.ComputeExtents(config.Positions),
		layout:      layout,
		backend:     backend,
	}
	m.vbo, m.ebo = backend.GeometryCreate(vertices, config.Indices)
	return m, nil
}

func validateMeshConfig(config *metadata.MeshConfig) error {
	if len(config.Positions) == 0 || len(config.Positions)%3 != 0 {
		return fmt.Errorf("mesh %s: %d position floats: %w", config.Name, len(config.Positions), core.ErrInvalidMesh)
	}
	count := config.VertexCount()
	for _, attr := range metadata.VertexAttributes[1:] {
		stream := config.Stream(attr)
		if stream != nil && len(stream) != count*int(attr.Components()) {
			return fmt.Errorf("mesh %s: %s has %d floats for %d vertices: %w", config.Name, attr, len(stream), count, core.ErrInvalidMesh)
		}
	}
	for _, idx := range config.Indices {
		if int(idx) >= count {
			return fmt.Errorf("mesh %s: index %d out of range: %w", config.Name, idx, core.ErrInvalidMesh)
		}
	}
	return nil
}

// interleave packs pos uv normal color per vertex, skipping absent streams.
func interleave(config *metadata.MeshConfig) ([]float32, int32, map[metadata.VertexAttribute]VertexLayout) {
	layout := make(map[metadata.VertexAttribute]VertexLayout)
	var floats int32
	for _, attr := range metadata.VertexAttributes {
		if config.Stream(attr) == nil {
			continue
		}
		layout[attr] = VertexLayout{Size: attr.Components(), Offset: uintptr(floats * float32Size)}
		floats += attr.Components()
	}

	count := config.VertexCount()
	vertices := make([]float32, 0, count*int(floats))
	for i := 0; i < count; i++ {
		for _, attr := range metadata.VertexAttributes {
			stream := config.Stream(attr)
			if stream == nil {
				continue
			}
			n := int(attr.Components())
			vertices = append(vertices, stream[i*n:(i+1)*n]...)
		}
	}
	return vertices, floats * float32Size, layout
}

func (m *Mesh) HasAttribute(attr metadata.VertexAttribute) bool {
	_, ok := m.layout[attr]
	return ok
}

func (m *Mesh) Attribute(attr metadata.VertexAttribute) (VertexLayout, bool) {
	l, ok := m.layout[attr]
	return l, ok
}

func (m *Mesh) Indexed() bool {
	return m.IndexCount > 0
}

// Bind attaches the mesh buffers to the currently bound vertex array.
func (m *Mesh) Bind() {
	m.backend.BufferBind(m.vbo, m.ebo)
}

// Draw issues the draw call. The vertex array must be bound.
func (m *Mesh) Draw() {
	if m.Indexed() {
		m.backend.DrawElements(m.Mode, m.IndexCount)
		return
	}
	m.backend.DrawArrays(m.Mode, 0, m.VertexCount)
}

func (m *Mesh) Destroy() {
	if m.vbo == 0 && m.ebo == 0 {
		return
	}
	m.backend.GeometryDestroy(m.vbo, m.ebo)
	m.vbo, m.ebo = 0, 0
}
