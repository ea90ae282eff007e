package renderer

import (
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// Backend is the GPU API the renderer drives. Every call must happen on the
// thread that owns the graphics context.
type Backend interface {
	Initialize(appName string, appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	// BeginFrame clears color and depth.
	BeginFrame(clearColor math.Vec3) error
	EndFrame() error
	ClearDepth()

	ShaderCreate(vertexSource, fragmentSource string) (uint32, error)
	ShaderDestroy(program uint32)
	ShaderUse(program uint32)
	ShaderUniforms(program uint32) []metadata.ShaderUniform
	ShaderAttributes(program uint32) []metadata.ShaderAttribute

	Uniform1f(location int32, v0 float32)
	Uniform2f(location int32, v0, v1 float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	Uniform4f(location int32, v0, v1, v2, v3 float32)
	Uniform1i(location int32, v0 int32)
	Uniform2i(location int32, v0, v1 int32)
	Uniform3i(location int32, v0, v1, v2 int32)
	Uniform4i(location int32, v0, v1, v2, v3 int32)
	UniformMatrix3fv(location int32, value [9]float32)
	UniformMatrix4fv(location int32, value math.Mat4)

	// GeometryCreate uploads interleaved vertices and optional indices. ebo is 0 without indices.
	GeometryCreate(vertices []float32, indices []uint32) (vbo, ebo uint32)
	GeometryDestroy(vbo, ebo uint32)
	VertexArrayCreate() uint32
	VertexArrayBind(vao uint32)
	VertexArrayDestroy(vao uint32)
	BufferBind(vbo, ebo uint32)
	VertexAttribEnable(location uint32, size, stride int32, offset uintptr)
	VertexAttribDisable(location uint32)
	DrawArrays(mode metadata.DrawMode, first, count int32)
	DrawElements(mode metadata.DrawMode, count int32)

	TextureCreate(width, height uint32, pixels []uint8) uint32
	TextureDestroy(texture uint32)
	TextureBind(unit, texture uint32)
}
