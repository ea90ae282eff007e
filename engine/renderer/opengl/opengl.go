package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/platform"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

type Backend struct {
	platform *platform.Platform
}

func New(p *platform.Platform) *Backend {
	return &Backend{platform: p}
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.LogInfo("%s: OpenGL %s on %s", appName, gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.Viewport(0, 0, int32(appWidth), int32(appHeight))
	return nil
}

func (b *Backend) Shutdown() error {
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	gl.Viewport(0, 0, int32(width), int32(height))
	return nil
}

func (b *Backend) BeginFrame(clearColor math.Vec3) error {
	gl.ClearColor(clearColor.X, clearColor.Y, clearColor.Z, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return nil
}

func (b *Backend) EndFrame() error {
	if b.platform != nil {
		b.platform.SwapBuffers()
	}
	if code := gl.GetError(); code != gl.NO_ERROR {
		core.LogWarn("OpenGL error 0x%04X during frame", code)
	}
	return nil
}

func (b *Backend) ClearDepth() {
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s: %w", strings.TrimRight(log, "\x00"), core.ErrShaderCompile)
	}
	return shader, nil
}

func (b *Backend) ShaderCreate(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex stage: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment stage: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s: %w", strings.TrimRight(log, "\x00"), core.ErrShaderCompile)
	}
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	return program, nil
}

func (b *Backend) ShaderDestroy(program uint32) {
	gl.DeleteProgram(program)
}

func (b *Backend) ShaderUse(program uint32) {
	gl.UseProgram(program)
}

// active reads the name, size and type of one active uniform or attribute.
func active(program, index uint32, maxLength int32, get func(uint32, uint32, int32, *int32, *int32, *uint32, *uint8)) (string, int32, uint32) {
	if maxLength < 1 {
		maxLength = 1
	}
	buf := make([]uint8, maxLength)
	var length, size int32
	var xtype uint32
	get(program, index, maxLength, &length, &size, &xtype, &buf[0])
	// arrays are reported as name[0]
	name := strings.TrimSuffix(string(buf[:length]), "[0]")
	return name, size, xtype
}

func (b *Backend) ShaderUniforms(program uint32) []metadata.ShaderUniform {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)

	uniforms := make([]metadata.ShaderUniform, 0, count)
	for i := uint32(0); i < uint32(count); i++ {
		name, size, xtype := active(program, i, maxLength, gl.GetActiveUniform)
		uniforms = append(uniforms, metadata.ShaderUniform{
			Name:     name,
			Location: gl.GetUniformLocation(program, gl.Str(name+"\x00")),
			Type:     metadata.ShaderUniformType(xtype),
			Size:     size,
		})
	}
	return uniforms
}

func (b *Backend) ShaderAttributes(program uint32) []metadata.ShaderAttribute {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTES, &count)
	gl.GetProgramiv(program, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)

	attributes := make([]metadata.ShaderAttribute, 0, count)
	for i := uint32(0); i < uint32(count); i++ {
		name, size, xtype := active(program, i, maxLength, gl.GetActiveAttrib)
		attributes = append(attributes, metadata.ShaderAttribute{
			Name:     name,
			Location: gl.GetAttribLocation(program, gl.Str(name+"\x00")),
			Type:     metadata.ShaderUniformType(xtype),
			Size:     size,
		})
	}
	return attributes
}

func (b *Backend) Uniform1f(location int32, v0 float32) {
	gl.Uniform1f(location, v0)
}

func (b *Backend) Uniform2f(location int32, v0, v1 float32) {
	gl.Uniform2f(location, v0, v1)
}

func (b *Backend) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.Uniform3f(location, v0, v1, v2)
}

func (b *Backend) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	gl.Uniform4f(location, v0, v1, v2, v3)
}

func (b *Backend) Uniform1i(location int32, v0 int32) {
	gl.Uniform1i(location, v0)
}

func (b *Backend) Uniform2i(location int32, v0, v1 int32) {
	gl.Uniform2i(location, v0, v1)
}

func (b *Backend) Uniform3i(location int32, v0, v1, v2 int32) {
	gl.Uniform3i(location, v0, v1, v2)
}

func (b *Backend) Uniform4i(location int32, v0, v1, v2, v3 int32) {
	gl.Uniform4i(location, v0, v1, v2, v3)
}

func (b *Backend) UniformMatrix3fv(location int32, value [9]float32) {
	gl.UniformMatrix3fv(location, 1, false, &value[0])
}

// Mat4 is column-major, so no transpose.
func (b *Backend) UniformMatrix4fv(location int32, value math.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value.Data[0])
}

func (b *Backend) GeometryCreate(vertices []float32, indices []uint32) (uint32, uint32) {
	var vbo, ebo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if len(indices) > 0 {
		gl.GenBuffers(1, &ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	}
	return vbo, ebo
}

func (b *Backend) GeometryDestroy(vbo, ebo uint32) {
	if vbo != 0 {
		gl.DeleteBuffers(1, &vbo)
	}
	if ebo != 0 {
		gl.DeleteBuffers(1, &ebo)
	}
}

func (b *Backend) VertexArrayCreate() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (b *Backend) VertexArrayBind(vao uint32) {
	gl.BindVertexArray(vao)
}

func (b *Backend) VertexArrayDestroy(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (b *Backend) BufferBind(vbo, ebo uint32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if ebo != 0 {
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	}
}

func (b *Backend) VertexAttribEnable(location uint32, size, stride int32, offset uintptr) {
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, size, gl.FLOAT, false, stride, offset)
}

func (b *Backend) VertexAttribDisable(location uint32) {
	gl.DisableVertexAttribArray(location)
}

func drawMode(mode metadata.DrawMode) uint32 {
	if mode == metadata.DRAW_MODE_LINES {
		return gl.LINES
	}
	return gl.TRIANGLES
}

func (b *Backend) DrawArrays(mode metadata.DrawMode, first, count int32) {
	gl.DrawArrays(drawMode(mode), first, count)
}

func (b *Backend) DrawElements(mode metadata.DrawMode, count int32) {
	gl.DrawElementsWithOffset(drawMode(mode), count, gl.UNSIGNED_INT, 0)
}

func (b *Backend) TextureCreate(width, height uint32, pixels []uint8) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

func (b *Backend) TextureDestroy(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (b *Backend) TextureBind(unit, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}
