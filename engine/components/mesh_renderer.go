package components

import (
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// MeshRenderer draws a mesh with a material. It owns the vertex array that
// maps the mesh buffers onto the material's shader attributes.
type MeshRenderer struct {
	BaseBehavior

	Mesh     *renderer.Mesh
	Material *renderer.Material

	vao        uint32
	generation uint32
	backend    renderer.Backend
}

func NewMeshRenderer(backend renderer.Backend, mesh *renderer.Mesh, material *renderer.Material) *MeshRenderer {
	r := &MeshRenderer{
		BaseBehavior: NewBaseBehavior("mesh renderer"),
		Mesh:         mesh,
		Material:     material,
		backend:      backend,
	}
	r.build()
	return r
}

func (r *MeshRenderer) build() {
	shader := r.Material.Shader()
	r.vao = r.backend.VertexArrayCreate()
	r.backend.VertexArrayBind(r.vao)
	// the element buffer must be bound while the vertex array is
	r.Mesh.Bind()

	for _, attr := range metadata.VertexAttributes {
		loc := shader.AttributeLocation(string(attr))
		if loc < 0 {
			continue
		}
		if layout, ok := r.Mesh.Attribute(attr); ok {
			r.backend.VertexAttribEnable(uint32(loc), layout.Size, r.Mesh.Stride, layout.Offset)
			continue
		}
		// enabled but unsourced attributes are undefined behavior on some drivers
		r.backend.VertexAttribDisable(uint32(loc))
		core.LogDebug("mesh %s has no %s data for shader %s", r.Mesh.Name, attr, shader.Name)
	}

	r.backend.VertexArrayBind(0)
	r.generation = shader.Generation()
}

func (r *MeshRenderer) VAO() uint32 {
	return r.vao
}

// Render issues the draw call. The material must already be in use.
func (r *MeshRenderer) Render() {
	if r.generation != r.Material.Shader().Generation() {
		r.backend.VertexArrayDestroy(r.vao)
		r.build()
	}
	r.backend.VertexArrayBind(r.vao)
	r.Mesh.Draw()
	r.backend.VertexArrayBind(0)
}

func (r *MeshRenderer) Destroy() {
	if r.vao != 0 {
		r.backend.VertexArrayDestroy(r.vao)
		r.vao = 0
	}
}
