package math

// GenerateFlatNormals returns one face normal per vertex for an indexed
// triangle list of xyz positions.
// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
func GenerateFlatNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	at := func(i uint32) Vec3 {
		return Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := at(i1).Sub(at(i0))
		edge2 := at(i2).Sub(at(i0))
		normal := edge1.Cross(edge2).Normalize()

		for _, idx := range [3]uint32{i0, i1, i2} {
			normals[idx*3+0] = normal.X
			normals[idx*3+1] = normal.Y
			normals[idx*3+2] = normal.Z
		}
	}
	return normals
}

// ComputeExtents returns the axis aligned bounds of xyz positions.
func ComputeExtents(positions []float32) Extents3D {
	if len(positions) < 3 {
		return Extents3D{}
	}
	e := Extents3D{
		Min: Vec3{positions[0], positions[1], positions[2]},
		Max: Vec3{positions[0], positions[1], positions[2]},
	}
	for i := 3; i+2 < len(positions); i += 3 {
		x, y, z := positions[i], positions[i+1], positions[i+2]
		e.Min = Vec3{min(e.Min.X, x), min(e.Min.Y, y), min(e.Min.Z, z)}
		e.Max = Vec3{max(e.Max.X, x), max(e.Max.Y, y), max(e.Max.Z, z)}
	}
	return e
}
