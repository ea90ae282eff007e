package systems

import (
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

const (
	PRIMITIVE_TRIANGLE     string = "triangle"
	PRIMITIVE_QUAD         string = "quad"
	PRIMITIVE_CUBE         string = "cube"
	PRIMITIVE_LINE         string = "line"
	PRIMITIVE_GIZMO        string = "gizmo"
	PRIMITIVE_CAMERA_GIZMO string = "camera_gizmo"
)

// TriangleConfig is a unit triangle in the xy plane with red, green and blue corners.
func TriangleConfig() *metadata.MeshConfig {
	return &metadata.MeshConfig{
		Name:      PRIMITIVE_TRIANGLE,
		Positions: []float32{-0.5, -0.5, 0, 0.5, -0.5, 0, 0, 0.5, 0},
		UVs:       []float32{0, 0, 1, 0, 0.5, 1},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Colors:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
	}
}

// QuadConfig is a unit quad in the xy plane facing +z.
func QuadConfig() *metadata.MeshConfig {
	return &metadata.MeshConfig{
		Name:      PRIMITIVE_QUAD,
		Positions: []float32{-0.5, -0.5, 0, 0.5, -0.5, 0, 0.5, 0.5, 0, -0.5, 0.5, 0},
		UVs:       []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

// CubeConfig is a unit cube with four vertices per face so every face has
// its own normal and uv square.
func CubeConfig() *metadata.MeshConfig {
	// u x v == normal keeps every face counter clockwise from outside
	faces := []struct{ normal, u, v math.Vec3 }{
		{math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1), math.NewVec3(0, 1, 0)},
		{math.NewVec3(-1, 0, 0), math.NewVec3(0, 0, 1), math.NewVec3(0, 1, 0)},
		{math.NewVec3(0, 1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, -1)},
		{math.NewVec3(0, -1, 0), math.NewVec3(1, 0, 0), math.NewVec3(0, 0, 1)},
		{math.NewVec3(0, 0, 1), math.NewVec3(1, 0, 0), math.NewVec3(0, 1, 0)},
		{math.NewVec3(0, 0, -1), math.NewVec3(-1, 0, 0), math.NewVec3(0, 1, 0)},
	}
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	config := &metadata.MeshConfig{Name: PRIMITIVE_CUBE}
	for i, f := range faces {
		for _, c := range corners {
			p := f.normal.MulScalar(0.5).Add(f.u.MulScalar(0.5 * c[0])).Add(f.v.MulScalar(0.5 * c[1]))
			config.Positions = append(config.Positions, p.X, p.Y, p.Z)
			config.Normals = append(config.Normals, f.normal.X, f.normal.Y, f.normal.Z)
			config.UVs = append(config.UVs, (c[0]+1)/2, (c[1]+1)/2)
		}
		base := uint32(i * 4)
		config.Indices = append(config.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return config
}

// LineConfig is a unit segment along +x.
func LineConfig() *metadata.MeshConfig {
	return &metadata.MeshConfig{
		Name:      PRIMITIVE_LINE,
		Positions: []float32{0, 0, 0, 1, 0, 0},
		Colors:    []float32{1, 1, 1, 1, 1, 1},
		Mode:      metadata.DRAW_MODE_LINES,
	}
}

// GizmoConfig draws the local axes: x red, y green, z blue.
func GizmoConfig() *metadata.MeshConfig {
	return &metadata.MeshConfig{
		Name: PRIMITIVE_GIZMO,
		Positions: []float32{
			0, 0, 0, 1, 0, 0,
			0, 0, 0, 0, 1, 0,
			0, 0, 0, 0, 0, 1,
		},
		Colors: []float32{
			1, 0, 0, 1, 0, 0,
			0, 1, 0, 0, 1, 0,
			0, 0, 1, 0, 0, 1,
		},
		Mode: metadata.DRAW_MODE_LINES,
	}
}

// CameraGizmoConfig is a small wireframe frustum opening towards -z, the
// direction cameras look.
func CameraGizmoConfig() *metadata.MeshConfig {
	const (
		hw    = 0.3
		hh    = 0.2
		depth = 0.5
	)
	config := &metadata.MeshConfig{
		Name: PRIMITIVE_CAMERA_GIZMO,
		Positions: []float32{
			0, 0, 0,
			-hw, -hh, -depth,
			hw, -hh, -depth,
			hw, hh, -depth,
			-hw, hh, -depth,
			// marks the camera's up side
			0, hh * 1.6, -depth,
		},
		Indices: []uint32{
			0, 1, 0, 2, 0, 3, 0, 4,
			1, 2, 2, 3, 3, 4, 4, 1,
			4, 5, 5, 3,
		},
		Mode: metadata.DRAW_MODE_LINES,
	}
	for i := 0; i < config.VertexCount(); i++ {
		config.Colors = append(config.Colors, 1, 0.85, 0.2)
	}
	return config
}

// primitiveConfigs lists the meshes every mesh system starts with.
func primitiveConfigs() []*metadata.MeshConfig {
	return []*metadata.MeshConfig{
		TriangleConfig(),
		QuadConfig(),
		CubeConfig(),
		LineConfig(),
		GizmoConfig(),
		CameraGizmoConfig(),
	}
}
