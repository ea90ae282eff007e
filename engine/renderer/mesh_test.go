package renderer

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

func TestMeshLayout(t *testing.T) {
	tests := []struct {
		name   string
		config metadata.MeshConfig
		stride int32
		want   map[metadata.VertexAttribute]VertexLayout
	}{
		{
			name:   "positions only",
			config: metadata.MeshConfig{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}},
			stride: 12,
			want: map[metadata.VertexAttribute]VertexLayout{
				metadata.VERTEX_ATTRIBUTE_POSITION: {Size: 3, Offset: 0},
			},
		},
		{
			name: "position uv color",
			config: metadata.MeshConfig{
				Positions: []float32{0, 0, 0, 1, 0, 0},
				UVs:       []float32{0, 0, 1, 0},
				Colors:    []float32{1, 0, 0, 0, 1, 0},
				Mode:      metadata.DRAW_MODE_LINES,
			},
			stride: 32,
			want: map[metadata.VertexAttribute]VertexLayout{
				metadata.VERTEX_ATTRIBUTE_POSITION: {Size: 3, Offset: 0},
				metadata.VERTEX_ATTRIBUTE_UV:       {Size: 2, Offset: 12},
				metadata.VERTEX_ATTRIBUTE_COLOR:    {Size: 3, Offset: 20},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMesh(headless.New(), &tt.config)
			if err != nil {
				t.Fatal(err)
			}
			if m.Stride != tt.stride {
				t.Errorf("stride %d, want %d", m.Stride, tt.stride)
			}
			for _, attr := range metadata.VertexAttributes {
				got, ok := m.Attribute(attr)
				want, wantOK := tt.want[attr]
				if ok != wantOK || got != want {
					t.Errorf("%s: got %+v/%v, want %+v/%v", attr, got, ok, want, wantOK)
				}
			}
		})
	}
}

func TestMeshInterleave(t *testing.T) {
	config := &metadata.MeshConfig{
		Positions: []float32{1, 2, 3, 4, 5, 6},
		Normals:   []float32{0, 0, 1, 0, 1, 0},
	}
	vertices, stride, _ := interleave(config)
	want := []float32{1, 2, 3, 0, 0, 1, 4, 5, 6, 0, 1, 0}
	if stride != 24 || len(vertices) != len(want) {
		t.Fatalf("stride %d, vertices %v", stride, vertices)
	}
	for i := range want {
		if vertices[i] != want[i] {
			t.Fatalf("vertices %v, want %v", vertices, want)
		}
	}
}

func TestMeshDrawPath(t *testing.T) {
	b := headless.New()
	indexed, err := NewMesh(b, &metadata.MeshConfig{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	arrays, err := NewMesh(b, &metadata.MeshConfig{
		Positions: []float32{0, 0, 0, 1, 0, 0},
		Mode:      metadata.DRAW_MODE_LINES,
	})
	if err != nil {
		t.Fatal(err)
	}
	b.Reset()
	indexed.Draw()
	arrays.Draw()
	names := b.CallNames()
	if len(names) != 2 || names[0] != "DrawElements" || names[1] != "DrawArrays" {
		t.Fatalf("calls: %v", names)
	}
	if mode := b.Calls()[1].Args[0].(metadata.DrawMode); mode != metadata.DRAW_MODE_LINES {
		t.Fatalf("mode %s", mode)
	}
}

func TestMeshRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name   string
		config metadata.MeshConfig
	}{
		{"empty", metadata.MeshConfig{}},
		{"ragged positions", metadata.MeshConfig{Positions: []float32{0, 0}}},
		{"short normals", metadata.MeshConfig{Positions: []float32{0, 0, 0}, Normals: []float32{0, 1}}},
		{"index out of range", metadata.MeshConfig{Positions: []float32{0, 0, 0}, Indices: []uint32{0, 1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMesh(headless.New(), &tt.config); !errors.Is(err, core.ErrInvalidMesh) {
				t.Fatalf("expected invalid mesh, got %v", err)
			}
		})
	}
}
