package systems

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
)

const (
	// Per-vertex colored lines and triangles. Used by the gizmos.
	BUILTIN_SHADER_NAME_VERTEX_COLOR string = "mvp_vertex_color"
	// Geometry filled with a single color uniform.
	BUILTIN_SHADER_NAME_FLAT_COLOR string = "mvp_flat_color_uniform"
)

const vertexColorVertexSource = `#version 410 core
layout(location = 0) in vec3 pos;
layout(location = 1) in vec3 color;

uniform mat4 mvp;

out vec3 vertex_color;

void main() {
    vertex_color = color;
    gl_Position = mvp * vec4(pos, 1.0);
}
`

const vertexColorFragmentSource = `#version 410 core
in vec3 vertex_color;

out vec4 frag_color;

void main() {
    frag_color = vec4(vertex_color, 1.0);
}
`

const flatColorVertexSource = `#version 410 core
layout(location = 0) in vec3 pos;

uniform mat4 mvp;

void main() {
    gl_Position = mvp * vec4(pos, 1.0);
}
`

const flatColorFragmentSource = `#version 410 core
uniform vec3 color;

out vec4 frag_color;

void main() {
    frag_color = vec4(color, 1.0);
}
`

type ShaderSystem struct {
	// Shared shaders by name.
	Shaders map[string]*renderer.Shader
	// Independent programs handed out by NewInstance.
	instances []*renderer.Shader

	// Files reported as changed by the asset watcher. Guarded by dirtyMutex
	// since the watcher reports from its own goroutine.
	dirty      map[string]struct{}
	dirtyMutex sync.Mutex

	resourceSystem *ResourceSystem
	backend        renderer.Backend
}

func NewShaderSystem(rs *ResourceSystem, backend renderer.Backend) (*ShaderSystem, error) {
	ss := &ShaderSystem{
		Shaders:        make(map[string]*renderer.Shader),
		dirty:          make(map[string]struct{}),
		resourceSystem: rs,
		backend:        backend,
	}
	if _, err := ss.LoadFromSource(BUILTIN_SHADER_NAME_VERTEX_COLOR, vertexColorVertexSource, vertexColorFragmentSource); err != nil {
		return nil, err
	}
	if _, err := ss.LoadFromSource(BUILTIN_SHADER_NAME_FLAT_COLOR, flatColorVertexSource, flatColorFragmentSource); err != nil {
		return nil, err
	}
	return ss, nil
}

// Load compiles a shader from two stage files resolved against the asset path.
func (ss *ShaderSystem) Load(name, vertexPath, fragmentPath string) (*renderer.Shader, error) {
	if _, ok := ss.Shaders[name]; ok {
		err := fmt.Errorf("shader %s: %w", name, core.ErrShaderExists)
		core.LogError(err.Error())
		return nil, err
	}
	vertexPath = ss.resourceSystem.Path(vertexPath)
	fragmentPath = ss.resourceSystem.Path(fragmentPath)
	vs, err := ss.loadSource(vertexPath)
	if err != nil {
		return nil, err
	}
	fs, err := ss.loadSource(fragmentPath)
	if err != nil {
		return nil, err
	}
	shader, err := ss.create(name, vs, fs)
	if err != nil {
		return nil, err
	}
	shader.VertexPath = vertexPath
	shader.FragmentPath = fragmentPath
	return shader, nil
}

// LoadFromSource compiles a shader from in-memory sources. It can not be
// hot reloaded.
func (ss *ShaderSystem) LoadFromSource(name, vertexSource, fragmentSource string) (*renderer.Shader, error) {
	if _, ok := ss.Shaders[name]; ok {
		err := fmt.Errorf("shader %s: %w", name, core.ErrShaderExists)
		core.LogError(err.Error())
		return nil, err
	}
	return ss.create(name, vertexSource, fragmentSource)
}

func (ss *ShaderSystem) create(name, vs, fs string) (*renderer.Shader, error) {
	shader, err := renderer.NewShader(ss.backend, name, vs, fs)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	ss.Shaders[name] = shader
	return shader, nil
}

func (ss *ShaderSystem) Get(name string) (*renderer.Shader, error) {
	shader, ok := ss.Shaders[name]
	if !ok {
		err := fmt.Errorf("shader %s: %w", name, core.ErrShaderNotFound)
		core.LogError(err.Error())
		return nil, err
	}
	return shader, nil
}

// NewInstance compiles a separate program from the named shader's sources.
// The system keeps ownership and reloads it together with the original.
func (ss *ShaderSystem) NewInstance(name string) (*renderer.Shader, error) {
	shader, err := ss.Get(name)
	if err != nil {
		return nil, err
	}
	instance, err := shader.Clone()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	ss.instances = append(ss.instances, instance)
	return instance, nil
}

// Names returns the registered shader names in order.
func (ss *ShaderSystem) Names() []string {
	names := make([]string, 0, len(ss.Shaders))
	for name := range ss.Shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarkDirty flags a stage file for reloading. Safe to call from any goroutine.
func (ss *ShaderSystem) MarkDirty(path string) {
	ss.dirtyMutex.Lock()
	defer ss.dirtyMutex.Unlock()
	ss.dirty[path] = struct{}{}
}

// ReloadDirty recompiles every shader that depends on a file flagged since
// the last call and returns how many were replaced. Must run on the thread
// owning the graphics context.
func (ss *ShaderSystem) ReloadDirty() int {
	ss.dirtyMutex.Lock()
	if len(ss.dirty) == 0 {
		ss.dirtyMutex.Unlock()
		return 0
	}
	paths := make([]string, 0, len(ss.dirty))
	for p := range ss.dirty {
		paths = append(paths, p)
	}
	ss.dirty = make(map[string]struct{})
	ss.dirtyMutex.Unlock()

	sources := make(map[string]string)
	source := func(path string) (string, error) {
		if src, ok := sources[path]; ok {
			return src, nil
		}
		src, err := ss.loadSource(path)
		if err != nil {
			return "", err
		}
		sources[path] = src
		return src, nil
	}

	reloaded := 0
	for _, shader := range ss.all() {
		if !dependsOnAny(shader, paths) {
			continue
		}
		vs, err := source(shader.VertexPath)
		if err != nil {
			core.LogError("reload of %s skipped: %s", shader.Name, err.Error())
			continue
		}
		fs, err := source(shader.FragmentPath)
		if err != nil {
			core.LogError("reload of %s skipped: %s", shader.Name, err.Error())
			continue
		}
		if err := shader.Reload(vs, fs); err != nil {
			core.LogError("reload of %s failed, keeping the previous program: %s", shader.Name, err.Error())
			continue
		}
		core.LogInfo("shader %s reloaded", shader.Name)
		reloaded++
	}
	return reloaded
}

func (ss *ShaderSystem) all() []*renderer.Shader {
	out := make([]*renderer.Shader, 0, len(ss.Shaders)+len(ss.instances))
	for _, name := range ss.Names() {
		out = append(out, ss.Shaders[name])
	}
	return append(out, ss.instances...)
}

func (ss *ShaderSystem) loadSource(path string) (string, error) {
	res, err := ss.resourceSystem.Load(path)
	if err != nil {
		return "", err
	}
	src, ok := res.Data.(string)
	if !ok {
		err := fmt.Errorf("%s is not a shader stage: %w", path, core.ErrInvalidAsset)
		core.LogError(err.Error())
		return "", err
	}
	return src, nil
}

func dependsOnAny(shader *renderer.Shader, paths []string) bool {
	for _, p := range paths {
		if shader.DependsOn(p) {
			return true
		}
	}
	return false
}

func (ss *ShaderSystem) Shutdown() error {
	for _, shader := range ss.all() {
		shader.Destroy()
	}
	ss.Shaders = make(map[string]*renderer.Shader)
	ss.instances = nil
	return nil
}
