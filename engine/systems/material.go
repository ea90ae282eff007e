package systems

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

type MaterialSystem struct {
	// Registered configurations by material name.
	Configs map[string]*metadata.MaterialConfig
	// Shared instances handed out by Get.
	materials map[string]*renderer.Material
	// Instances built by Create. They share their config name, so the ID
	// is the only way to tell them apart.
	instances map[uuid.UUID]*renderer.Material
	created   []uuid.UUID

	shaderSystem  *ShaderSystem
	textureSystem *TextureSystem
}

func NewMaterialSystem(ss *ShaderSystem, ts *TextureSystem) (*MaterialSystem, error) {
	ms := &MaterialSystem{
		Configs:       make(map[string]*metadata.MaterialConfig),
		materials:     make(map[string]*renderer.Material),
		instances:     make(map[uuid.UUID]*renderer.Material),
		shaderSystem:  ss,
		textureSystem: ts,
	}
	// Flat white geometry for anything without a material of its own.
	if err := ms.Register(metadata.MaterialConfig{
		Name:       metadata.DefaultMaterialName,
		ShaderName: BUILTIN_SHADER_NAME_FLAT_COLOR,
	}); err != nil {
		return nil, err
	}
	return ms, nil
}

// Register adds a material description. The shader must already be loaded.
func (ms *MaterialSystem) Register(config metadata.MaterialConfig) error {
	if _, ok := ms.Configs[config.Name]; ok {
		err := fmt.Errorf("material %s: %w", config.Name, core.ErrMaterialExists)
		core.LogError(err.Error())
		return err
	}
	if _, err := ms.shaderSystem.Get(config.ShaderName); err != nil {
		return fmt.Errorf("material %s: %w", config.Name, err)
	}
	ms.Configs[config.Name] = &config
	return nil
}

// Get returns the shared material, building it on first use.
func (ms *MaterialSystem) Get(name string) (*renderer.Material, error) {
	if m, ok := ms.materials[name]; ok {
		return m, nil
	}
	config, err := ms.config(name)
	if err != nil {
		return nil, err
	}
	shader, err := ms.shaderSystem.Get(config.ShaderName)
	if err != nil {
		return nil, err
	}
	m, err := ms.build(config, shader)
	if err != nil {
		return nil, err
	}
	ms.materials[name] = m
	return m, nil
}

// Create builds a new material with its own shader program, so uniform
// values set on it never leak into other instances.
func (ms *MaterialSystem) Create(name string) (*renderer.Material, error) {
	config, err := ms.config(name)
	if err != nil {
		return nil, err
	}
	shader, err := ms.shaderSystem.NewInstance(config.ShaderName)
	if err != nil {
		return nil, err
	}
	m, err := ms.build(config, shader)
	if err != nil {
		return nil, err
	}
	ms.instances[m.ID] = m
	ms.created = append(ms.created, m.ID)
	core.LogDebug("material %s: created instance %s", m.Name, m.ID)
	return m, nil
}

// Instance returns a material built by Create.
func (ms *MaterialSystem) Instance(id uuid.UUID) (*renderer.Material, error) {
	m, ok := ms.instances[id]
	if !ok {
		err := fmt.Errorf("material instance %s: %w", id, core.ErrMaterialNotFound)
		core.LogError(err.Error())
		return nil, err
	}
	return m, nil
}

// Instances returns every material built by Create, oldest first.
func (ms *MaterialSystem) Instances() []*renderer.Material {
	out := make([]*renderer.Material, 0, len(ms.created))
	for _, id := range ms.created {
		out = append(out, ms.instances[id])
	}
	return out
}

func (ms *MaterialSystem) config(name string) (*metadata.MaterialConfig, error) {
	config, ok := ms.Configs[name]
	if !ok {
		err := fmt.Errorf("material %s: %w", name, core.ErrMaterialNotFound)
		core.LogError(err.Error())
		return nil, err
	}
	return config, nil
}

func (ms *MaterialSystem) build(config *metadata.MaterialConfig, shader *renderer.Shader) (*renderer.Material, error) {
	m, err := renderer.NewMaterial(config.Name, shader)
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(config.Uniforms) {
		m.SetValue(name, config.Uniforms[name])
	}
	for _, name := range sortedKeys(config.Textures) {
		t, err := ms.textureSystem.Acquire(config.Textures[name])
		if err != nil {
			return nil, fmt.Errorf("material %s: %w", config.Name, err)
		}
		m.SetTexture(name, t)
	}
	// unassigned samplers show the checkerboard
	for _, u := range m.Uniforms() {
		if u.Type != metadata.SHADER_UNIFORM_TYPE_SAMPLER_2D {
			continue
		}
		if _, ok := m.Texture(u.Name); !ok {
			m.SetTexture(u.Name, ms.textureSystem.DefaultTexture)
		}
	}
	return m, nil
}

// Names returns the registered material names in order.
func (ms *MaterialSystem) Names() []string {
	return sortedKeys(ms.Configs)
}

func (ms *MaterialSystem) Shutdown() error {
	// materials own no GPU handles; their shaders belong to the shader system
	ms.materials = make(map[string]*renderer.Material)
	ms.instances = make(map[uuid.UUID]*renderer.Material)
	ms.created = nil
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
