package renderer

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

// Shader owns one linked program. Generation increases every time the
// program is replaced so dependants can re-introspect it.
type Shader struct {
	Name         string
	VertexPath   string
	FragmentPath string

	program    uint32
	generation uint32
	uniforms   []metadata.ShaderUniform
	attributes []metadata.ShaderAttribute

	vertexSource   string
	fragmentSource string

	backend Backend
}

// NewShader compiles and links the two stages.
func NewShader(backend Backend, name, vertexSource, fragmentSource string) (*Shader, error) {
	s := &Shader{
		Name:    name,
		backend: backend,
	}
	if err := s.Reload(vertexSource, fragmentSource); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload builds a new program from the given sources. On failure the
// current program stays active.
func (s *Shader) Reload(vertexSource, fragmentSource string) error {
	program, err := s.backend.ShaderCreate(vertexSource, fragmentSource)
	if err != nil {
		return fmt.Errorf("shader %s: %w", s.Name, err)
	}
	if s.program != 0 {
		s.backend.ShaderDestroy(s.program)
	}
	s.program = program
	s.generation++
	s.vertexSource = vertexSource
	s.fragmentSource = fragmentSource
	s.uniforms = s.backend.ShaderUniforms(program)
	s.attributes = s.backend.ShaderAttributes(program)
	core.LogDebug("shader %s linked (program %d, generation %d)", s.Name, program, s.generation)
	return nil
}

// Clone compiles an independent program from the same sources.
func (s *Shader) Clone() (*Shader, error) {
	c, err := NewShader(s.backend, s.Name, s.vertexSource, s.fragmentSource)
	if err != nil {
		return nil, err
	}
	c.VertexPath = s.VertexPath
	c.FragmentPath = s.FragmentPath
	return c, nil
}

// DependsOn reports whether path is one of the shader's stage files.
func (s *Shader) DependsOn(path string) bool {
	if path == "" {
		return false
	}
	clean := filepath.Clean(path)
	return (s.VertexPath != "" && filepath.Clean(s.VertexPath) == clean) ||
		(s.FragmentPath != "" && filepath.Clean(s.FragmentPath) == clean)
}

func (s *Shader) Program() uint32 {
	return s.program
}

func (s *Shader) Generation() uint32 {
	return s.generation
}

func (s *Shader) Use() {
	s.backend.ShaderUse(s.program)
}

func (s *Shader) Uniforms() []metadata.ShaderUniform {
	return s.uniforms
}

func (s *Shader) Attributes() []metadata.ShaderAttribute {
	return s.attributes
}

// AttributeLocation returns -1 when the program has no active attribute of that name.
func (s *Shader) AttributeLocation(name string) int32 {
	for _, a := range s.attributes {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

func (s *Shader) Destroy() {
	if s.program != 0 {
		s.backend.ShaderDestroy(s.program)
		s.program = 0
	}
}
