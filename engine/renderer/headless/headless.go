// Package headless implements a renderer backend without a GPU. It parses
// GLSL declarations to emulate program introspection and records every call
// so frames can be inspected in tests and in CI.
package headless

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

var (
	uniformDecl   = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	attributeDecl = regexp.MustCompile(`(?m)^\s*(?:layout\s*\(\s*location\s*=\s*(\d+)\s*\)\s*)?in\s+(\w+)\s+(\w+)\s*;`)
	mainDecl      = regexp.MustCompile(`void\s+main\s*\(`)
)

// types the engine does not support but GLSL does
var extraTypes = map[string]metadata.ShaderUniformType{
	"mat2":        0x8B5A,
	"samplerCube": 0x8B60,
	"sampler3D":   0x8B5F,
}

// Call is one recorded backend invocation.
type Call struct {
	Name string
	Args []interface{}
}

// FrameStats counts work done between BeginFrame and EndFrame.
type FrameStats struct {
	DrawCalls    int
	ProgramBinds int
	Vertices     int
}

type program struct {
	uniforms   []metadata.ShaderUniform
	attributes []metadata.ShaderAttribute
	values     map[int32]interface{}
}

type Backend struct {
	calls        []Call
	record       bool
	optimizedOut map[string]struct{}

	programs map[uint32]*program
	current  uint32
	next     uint32

	width  uint32
	height uint32

	frame  FrameStats
	last   FrameStats
	total  FrameStats
	frames uint64
}

type Option func(*Backend)

// WithOptimizedOut reports the named uniforms with location -1, the way a
// driver does when the compiler strips them.
func WithOptimizedOut(names ...string) Option {
	return func(b *Backend) {
		for _, n := range names {
			b.optimizedOut[n] = struct{}{}
		}
	}
}

// WithCallLog turns call recording on or off. It is on by default.
func WithCallLog(enabled bool) Option {
	return func(b *Backend) {
		b.record = enabled
	}
}

func New(opts ...Option) *Backend {
	b := &Backend{
		record:       true,
		optimizedOut: make(map[string]struct{}),
		programs:     make(map[uint32]*program),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) log(name string, args ...interface{}) {
	if b.record {
		b.calls = append(b.calls, Call{Name: name, Args: args})
	}
}

func (b *Backend) handle() uint32 {
	b.next++
	return b.next
}

// Calls returns the recorded calls in order.
func (b *Backend) Calls() []Call {
	return b.calls
}

// CallNames returns the names of the recorded calls in order.
func (b *Backend) CallNames() []string {
	out := make([]string, len(b.calls))
	for i, c := range b.calls {
		out[i] = c.Name
	}
	return out
}

// Count returns how many times name was called.
func (b *Backend) Count(name string) int {
	n := 0
	for _, c := range b.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Reset drops the call log.
func (b *Backend) Reset() {
	b.calls = b.calls[:0]
}

// UniformValue returns the last value sent to the named uniform of a program.
func (b *Backend) UniformValue(programID uint32, name string) (interface{}, bool) {
	p, ok := b.programs[programID]
	if !ok {
		return nil, false
	}
	for _, u := range p.uniforms {
		if u.Name == name && u.Location >= 0 {
			v, ok := p.values[u.Location]
			return v, ok
		}
	}
	return nil, false
}

// CurrentProgram is the program bound by the last ShaderUse.
func (b *Backend) CurrentProgram() uint32 {
	return b.current
}

func (b *Backend) LastFrame() FrameStats {
	return b.last
}

func (b *Backend) Totals() FrameStats {
	return b.total
}

func (b *Backend) Frames() uint64 {
	return b.frames
}

func (b *Backend) Size() (uint32, uint32) {
	return b.width, b.height
}

func (b *Backend) Initialize(appName string, appWidth, appHeight uint32) error {
	b.width, b.height = appWidth, appHeight
	b.log("Initialize", appName, appWidth, appHeight)
	core.LogInfo("headless renderer initialized for %s (%dx%d)", appName, appWidth, appHeight)
	return nil
}

func (b *Backend) Shutdown() error {
	b.log("Shutdown")
	b.programs = make(map[uint32]*program)
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.width, b.height = width, height
	b.log("Resized", width, height)
	return nil
}

func (b *Backend) BeginFrame(clearColor math.Vec3) error {
	b.frame = FrameStats{}
	b.log("BeginFrame", clearColor)
	return nil
}

func (b *Backend) EndFrame() error {
	b.last = b.frame
	b.total.DrawCalls += b.frame.DrawCalls
	b.total.ProgramBinds += b.frame.ProgramBinds
	b.total.Vertices += b.frame.Vertices
	b.frames++
	b.log("EndFrame")
	return nil
}

func (b *Backend) ClearDepth() {
	b.log("ClearDepth")
}

func (b *Backend) ShaderCreate(vertexSource, fragmentSource string) (uint32, error) {
	for stage, src := range map[string]string{"vertex": vertexSource, "fragment": fragmentSource} {
		if !mainDecl.MatchString(src) {
			return 0, fmt.Errorf("%s stage: missing entry point: %w", stage, core.ErrShaderCompile)
		}
	}

	p := &program{values: make(map[int32]interface{})}
	seen := make(map[string]struct{})
	var location int32
	for _, src := range []string{vertexSource, fragmentSource} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			name := m[2]
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			size := int32(1)
			if m[3] != "" {
				n, _ := strconv.Atoi(m[3])
				size = int32(n)
			}
			u := metadata.ShaderUniform{Name: name, Type: glslType(m[1]), Size: size, Location: -1}
			if _, out := b.optimizedOut[name]; !out {
				u.Location = location
				location += size
			}
			p.uniforms = append(p.uniforms, u)
		}
	}

	var next int32
	for _, m := range attributeDecl.FindAllStringSubmatch(vertexSource, -1) {
		loc := next
		if m[1] != "" {
			n, _ := strconv.Atoi(m[1])
			loc = int32(n)
		}
		next = loc + 1
		p.attributes = append(p.attributes, metadata.ShaderAttribute{Name: m[3], Type: glslType(m[2]), Size: 1, Location: loc})
	}

	id := b.handle()
	b.programs[id] = p
	b.log("ShaderCreate", id)
	return id, nil
}

func glslType(name string) metadata.ShaderUniformType {
	if t, ok := metadata.ParseShaderUniformType(name); ok {
		return t
	}
	if t, ok := extraTypes[name]; ok {
		return t
	}
	core.LogWarn("headless: unknown glsl type %s", strings.TrimSpace(name))
	return 0
}

func (b *Backend) ShaderDestroy(programID uint32) {
	delete(b.programs, programID)
	b.log("ShaderDestroy", programID)
}

func (b *Backend) ShaderUse(programID uint32) {
	b.current = programID
	b.frame.ProgramBinds++
	b.log("ShaderUse", programID)
}

func (b *Backend) ShaderUniforms(programID uint32) []metadata.ShaderUniform {
	if p, ok := b.programs[programID]; ok {
		return append([]metadata.ShaderUniform(nil), p.uniforms...)
	}
	return nil
}

func (b *Backend) ShaderAttributes(programID uint32) []metadata.ShaderAttribute {
	if p, ok := b.programs[programID]; ok {
		return append([]metadata.ShaderAttribute(nil), p.attributes...)
	}
	return nil
}

func (b *Backend) setUniform(name string, location int32, value interface{}) {
	if p, ok := b.programs[b.current]; ok {
		p.values[location] = value
	}
	b.log(name, location, value)
}

func (b *Backend) Uniform1f(location int32, v0 float32) {
	b.setUniform("Uniform1f", location, []float32{v0})
}

func (b *Backend) Uniform2f(location int32, v0, v1 float32) {
	b.setUniform("Uniform2f", location, []float32{v0, v1})
}

func (b *Backend) Uniform3f(location int32, v0, v1, v2 float32) {
	b.setUniform("Uniform3f", location, []float32{v0, v1, v2})
}

func (b *Backend) Uniform4f(location int32, v0, v1, v2, v3 float32) {
	b.setUniform("Uniform4f", location, []float32{v0, v1, v2, v3})
}

func (b *Backend) Uniform1i(location int32, v0 int32) {
	b.setUniform("Uniform1i", location, []int32{v0})
}

func (b *Backend) Uniform2i(location int32, v0, v1 int32) {
	b.setUniform("Uniform2i", location, []int32{v0, v1})
}

func (b *Backend) Uniform3i(location int32, v0, v1, v2 int32) {
	b.setUniform("Uniform3i", location, []int32{v0, v1, v2})
}

func (b *Backend) Uniform4i(location int32, v0, v1, v2, v3 int32) {
	b.setUniform("Uniform4i", location, []int32{v0, v1, v2, v3})
}

func (b *Backend) UniformMatrix3fv(location int32, value [9]float32) {
	b.setUniform("UniformMatrix3fv", location, value)
}

func (b *Backend) UniformMatrix4fv(location int32, value math.Mat4) {
	b.setUniform("UniformMatrix4fv", location, value)
}

func (b *Backend) GeometryCreate(vertices []float32, indices []uint32) (uint32, uint32) {
	vbo := b.handle()
	var ebo uint32
	if len(indices) > 0 {
		ebo = b.handle()
	}
	b.log("GeometryCreate", vbo, ebo, len(vertices), len(indices))
	return vbo, ebo
}

func (b *Backend) GeometryDestroy(vbo, ebo uint32) {
	b.log("GeometryDestroy", vbo, ebo)
}

func (b *Backend) VertexArrayCreate() uint32 {
	vao := b.handle()
	b.log("VertexArrayCreate", vao)
	return vao
}

func (b *Backend) VertexArrayBind(vao uint32) {
	b.log("VertexArrayBind", vao)
}

func (b *Backend) VertexArrayDestroy(vao uint32) {
	b.log("VertexArrayDestroy", vao)
}

func (b *Backend) BufferBind(vbo, ebo uint32) {
	b.log("BufferBind", vbo, ebo)
}

func (b *Backend) VertexAttribEnable(location uint32, size, stride int32, offset uintptr) {
	b.log("VertexAttribEnable", location, size, stride, offset)
}

func (b *Backend) VertexAttribDisable(location uint32) {
	b.log("VertexAttribDisable", location)
}

func (b *Backend) DrawArrays(mode metadata.DrawMode, first, count int32) {
	b.frame.DrawCalls++
	b.frame.Vertices += int(count)
	b.log("DrawArrays", mode, first, count)
}

func (b *Backend) DrawElements(mode metadata.DrawMode, count int32) {
	b.frame.DrawCalls++
	b.frame.Vertices += int(count)
	b.log("DrawElements", mode, count)
}

func (b *Backend) TextureCreate(width, height uint32, pixels []uint8) uint32 {
	id := b.handle()
	b.log("TextureCreate", id, width, height)
	return id
}

func (b *Backend) TextureDestroy(texture uint32) {
	b.log("TextureDestroy", texture)
}

func (b *Backend) TextureBind(unit, texture uint32) {
	b.log("TextureBind", unit, texture)
}
