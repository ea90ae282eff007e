package metadata

// DrawMode is the primitive topology of a mesh.
type DrawMode uint8

const (
	DRAW_MODE_TRIANGLES DrawMode = iota
	DRAW_MODE_LINES
)

func (m DrawMode) String() string {
	switch m {
	case DRAW_MODE_LINES:
		return "lines"
	default:
		return "triangles"
	}
}

// VertexAttribute is a well-known semantic that meshes and shaders agree on by name.
type VertexAttribute string

const (
	VERTEX_ATTRIBUTE_POSITION VertexAttribute = "pos"
	VERTEX_ATTRIBUTE_UV       VertexAttribute = "uv"
	VERTEX_ATTRIBUTE_NORMAL   VertexAttribute = "normal"
	VERTEX_ATTRIBUTE_COLOR    VertexAttribute = "color"
)

// VertexAttributes lists the semantics in buffer order.
var VertexAttributes = []VertexAttribute{
	VERTEX_ATTRIBUTE_POSITION,
	VERTEX_ATTRIBUTE_UV,
	VERTEX_ATTRIBUTE_NORMAL,
	VERTEX_ATTRIBUTE_COLOR,
}

// Components returns the number of floats per vertex for the attribute.
func (a VertexAttribute) Components() int32 {
	switch a {
	case VERTEX_ATTRIBUTE_UV:
		return 2
	default:
		return 3
	}
}

/**
 * @brief Raw vertex data for a mesh. Positions are required; every other
 * stream is optional but, when present, has one entry per vertex.
 */
type MeshConfig struct {
	Name      string
	Positions []float32
	UVs       []float32
	Normals   []float32
	Colors    []float32
	Indices   []uint32
	Mode      DrawMode
}

// Stream returns the data for a semantic, nil when absent.
func (c *MeshConfig) Stream(attr VertexAttribute) []float32 {
	switch attr {
	case VERTEX_ATTRIBUTE_POSITION:
		return c.Positions
	case VERTEX_ATTRIBUTE_UV:
		return c.UVs
	case VERTEX_ATTRIBUTE_NORMAL:
		return c.Normals
	case VERTEX_ATTRIBUTE_COLOR:
		return c.Colors
	}
	return nil
}

func (c *MeshConfig) VertexCount() int {
	return len(c.Positions) / 3
}
