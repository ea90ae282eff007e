package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// Uniform is one entry of a material's uniform table.
type Uniform struct {
	metadata.ShaderUniform
	// Value holds the last accepted value: []float32, []int32, math.Mat4 or [9]float32.
	Value interface{}
	// Dirty values are sent on the next Use.
	Dirty bool

	unit uint32
}

// Material wraps a shader and the uniform state that goes with it.
type Material struct {
	ID   uuid.UUID
	Name string

	shader     *Shader
	generation uint32
	uniforms   map[string]*Uniform
	order      []string
	discarded  map[string]metadata.ShaderUniform
	textures   map[string]*Texture
	missing    map[string]struct{}

	backend Backend
}

func NewMaterial(name string, shader *Shader) (*Material, error) {
	m := &Material{
		ID:       uuid.New(),
		Name:     name,
		shader:   shader,
		textures: make(map[string]*Texture),
		backend:  shader.backend,
	}
	if err := m.introspect(true); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	return m, nil
}

func (m *Material) introspect(strict bool) error {
	previous := m.uniforms
	uniforms := make(map[string]*Uniform)
	order := make([]string, 0, len(m.shader.Uniforms()))
	discarded := make(map[string]metadata.ShaderUniform)

	var unit uint32
	for _, su := range m.shader.Uniforms() {
		if su.Location < 0 {
			discarded[su.Name] = su
			continue
		}
		if _, _, ok := uniformShape(su.Type); !ok {
			err := fmt.Errorf("material %s: uniform %s has type %s: %w", m.Name, su.Name, su.Type, core.ErrUnsupportedUniformType)
			if strict {
				return err
			}
			core.LogError(err.Error())
			discarded[su.Name] = su
			continue
		}

		u := &Uniform{ShaderUniform: su}
		switch {
		case su.Type == metadata.SHADER_UNIFORM_TYPE_SAMPLER_2D:
			u.unit = unit
			u.Value = []int32{int32(unit)}
			u.Dirty = true
			unit++
		case su.Type == metadata.SHADER_UNIFORM_TYPE_FLOAT_VEC3 && strings.Contains(strings.ToLower(su.Name), "color"):
			u.Value = []float32{1, 1, 1}
			u.Dirty = true
		}
		if old, ok := previous[su.Name]; ok && old.Type == su.Type && old.Value != nil && su.Type != metadata.SHADER_UNIFORM_TYPE_SAMPLER_2D {
			u.Value = old.Value
			u.Dirty = true
		}
		uniforms[su.Name] = u
		order = append(order, su.Name)
	}

	m.uniforms = uniforms
	m.order = order
	m.discarded = discarded
	m.missing = make(map[string]struct{})
	m.generation = m.shader.Generation()
	return nil
}

func (m *Material) Shader() *Shader {
	return m.shader
}

// Use binds the program and flushes every queued uniform and texture.
func (m *Material) Use() {
	if m.generation != m.shader.Generation() {
		core.LogInfo("material %s: shader %s changed, refreshing uniforms", m.Name, m.shader.Name)
		_ = m.introspect(false)
	}
	m.shader.Use()
	for _, name := range m.order {
		u := m.uniforms[name]
		if u.Dirty {
			m.apply(u)
			u.Dirty = false
		}
		if tex, ok := m.textures[name]; ok {
			tex.Bind(u.unit)
		}
	}
}

// SetValue queues a value that is sent on the next Use.
func (m *Material) SetValue(name string, value interface{}) {
	if tex, ok := value.(*Texture); ok {
		m.SetTexture(name, tex)
		return
	}
	u, ok := m.lookup(name)
	if !ok {
		return
	}
	v, ok := convertUniformValue(u.Type, value)
	if !ok {
		core.LogWarn("material %s: %T does not fit uniform %s (%s)", m.Name, value, name, u.Type)
		return
	}
	u.Value = v
	u.Dirty = true
}

// SetUniform sends a value right away. The material must already be in use.
func (m *Material) SetUniform(name string, value interface{}) {
	u, ok := m.lookup(name)
	if !ok {
		return
	}
	v, ok := convertUniformValue(u.Type, value)
	if !ok {
		core.LogWarn("material %s: %T does not fit uniform %s (%s)", m.Name, value, name, u.Type)
		return
	}
	u.Value = v
	u.Dirty = false
	m.apply(u)
}

// SetMatrix is SetUniform for mat4 values.
func (m *Material) SetMatrix(name string, value math.Mat4) {
	u, ok := m.lookup(name)
	if !ok {
		return
	}
	if u.Type != metadata.SHADER_UNIFORM_TYPE_MATRIX_4 {
		core.LogWarn("material %s: uniform %s is %s, not mat4", m.Name, name, u.Type)
		return
	}
	u.Value = value
	u.Dirty = false
	m.backend.UniformMatrix4fv(u.Location, value)
}

// SetTexture attaches a texture to a sampler uniform. It is bound on Use.
func (m *Material) SetTexture(name string, texture *Texture) {
	u, ok := m.lookup(name)
	if !ok {
		return
	}
	if u.Type != metadata.SHADER_UNIFORM_TYPE_SAMPLER_2D {
		core.LogWarn("material %s: uniform %s is %s, not a sampler", m.Name, name, u.Type)
		return
	}
	if texture == nil {
		delete(m.textures, name)
		return
	}
	m.textures[name] = texture
}

func (m *Material) Texture(name string) (*Texture, bool) {
	t, ok := m.textures[name]
	return t, ok
}

// Uniforms returns the table in program order.
func (m *Material) Uniforms() []*Uniform {
	out := make([]*Uniform, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.uniforms[name])
	}
	return out
}

func (m *Material) Uniform(name string) (*Uniform, bool) {
	u, ok := m.uniforms[name]
	return u, ok
}

// Discarded lists the uniforms the compiler optimized out, sorted by name.
func (m *Material) Discarded() []metadata.ShaderUniform {
	out := make([]metadata.ShaderUniform, 0, len(m.discarded))
	for _, u := range m.discarded {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *Material) lookup(name string) (*Uniform, bool) {
	if u, ok := m.uniforms[name]; ok {
		return u, true
	}
	if _, ok := m.discarded[name]; ok {
		return nil, false
	}
	if _, seen := m.missing[name]; !seen {
		m.missing[name] = struct{}{}
		core.LogDebug("material %s: no uniform named %s", m.Name, name)
	}
	return nil, false
}

func (m *Material) apply(u *Uniform) {
	switch v := u.Value.(type) {
	case []float32:
		switch len(v) {
		case 1:
			m.backend.Uniform1f(u.Location, v[0])
		case 2:
			m.backend.Uniform2f(u.Location, v[0], v[1])
		case 3:
			m.backend.Uniform3f(u.Location, v[0], v[1], v[2])
		case 4:
			m.backend.Uniform4f(u.Location, v[0], v[1], v[2], v[3])
		}
	case []int32:
		switch len(v) {
		case 1:
			m.backend.Uniform1i(u.Location, v[0])
		case 2:
			m.backend.Uniform2i(u.Location, v[0], v[1])
		case 3:
			m.backend.Uniform3i(u.Location, v[0], v[1], v[2])
		case 4:
			m.backend.Uniform4i(u.Location, v[0], v[1], v[2], v[3])
		}
	case [9]float32:
		m.backend.UniformMatrix3fv(u.Location, v)
	case math.Mat4:
		m.backend.UniformMatrix4fv(u.Location, v)
	}
}
