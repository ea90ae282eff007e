package scene

import (
	"github.com/spaghettifunk/kalsengi/engine/components"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/systems"
)

// Color of the frustum drawn at every camera.
var cameraGizmoColor = math.NewVec3(1.0, 0.85, 0.2)

// Scene is a flat list of entities plus the cameras and lights found on
// them when they were added. Behaviors attached after AddEntity are not
// picked up by those lists.
type Scene struct {
	Name string

	entities []*components.Entity
	cameras  []*components.Camera
	lights   []*components.Light
	selected *components.Entity
	active   *components.Camera

	gizmo       *components.MeshRenderer
	cameraGizmo *components.MeshRenderer

	backend renderer.Backend
}

// New creates an empty scene. The overlay gizmos use the built-in meshes
// and shaders of sm.
func New(name string, sm *systems.SystemManager) (*Scene, error) {
	backend := sm.Backend()

	gizmo, err := newOverlayRenderer(sm, systems.PRIMITIVE_GIZMO, systems.BUILTIN_SHADER_NAME_VERTEX_COLOR)
	if err != nil {
		return nil, err
	}
	cameraGizmo, err := newOverlayRenderer(sm, systems.PRIMITIVE_CAMERA_GIZMO, systems.BUILTIN_SHADER_NAME_FLAT_COLOR)
	if err != nil {
		return nil, err
	}
	cameraGizmo.Material.SetValue("color", cameraGizmoColor)

	return &Scene{
		Name:        name,
		gizmo:       gizmo,
		cameraGizmo: cameraGizmo,
		backend:     backend,
	}, nil
}

func newOverlayRenderer(sm *systems.SystemManager, meshName, shaderName string) (*components.MeshRenderer, error) {
	mesh, err := sm.MeshSystem.Get(meshName)
	if err != nil {
		return nil, err
	}
	shader, err := sm.ShaderSystem.Get(shaderName)
	if err != nil {
		return nil, err
	}
	material, err := renderer.NewMaterial(meshName, shader)
	if err != nil {
		return nil, err
	}
	return components.NewMeshRenderer(sm.Backend(), mesh, material), nil
}

// AddEntity appends e and indexes its cameras and lights. The first camera
// found becomes the active one.
func (s *Scene) AddEntity(e *components.Entity) {
	s.entities = append(s.entities, e)
	for _, b := range e.Behaviors() {
		switch v := b.(type) {
		case *components.Camera:
			s.cameras = append(s.cameras, v)
			if s.active == nil {
				s.active = v
			}
		case *components.Light:
			s.lights = append(s.lights, v)
		}
	}
}

func (s *Scene) Entities() []*components.Entity {
	return s.entities
}

func (s *Scene) Cameras() []*components.Camera {
	return s.cameras
}

func (s *Scene) Lights() []*components.Light {
	return s.lights
}

func (s *Scene) ActiveCamera() *components.Camera {
	return s.active
}

func (s *Scene) SetActiveCamera(c *components.Camera) {
	s.active = c
}

// Select marks e for the transform gizmo. nil clears the selection.
func (s *Scene) Select(e *components.Entity) {
	s.selected = e
}

func (s *Scene) Selected() *components.Entity {
	return s.selected
}

func (s *Scene) FindByName(name string) (*components.Entity, bool) {
	for _, e := range s.entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

func (s *Scene) FindByID(id uint32) (*components.Entity, bool) {
	for _, e := range s.entities {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Update steps every enabled updatable behavior, in entity then behavior order.
func (s *Scene) Update(deltaTime float64) {
	for _, e := range s.entities {
		for _, b := range e.Behaviors() {
			if !b.Enabled() {
				continue
			}
			if u, ok := b.(components.Updatable); ok {
				u.Update(deltaTime)
			}
		}
	}
}

type materialGroup struct {
	material  *renderer.Material
	renderers []*components.MeshRenderer
}

// groupByMaterial collects enabled mesh renderers per material, groups
// ordered by first appearance.
func (s *Scene) groupByMaterial() []*materialGroup {
	var groups []*materialGroup
	index := make(map[*renderer.Material]*materialGroup)
	for _, e := range s.entities {
		for _, b := range e.Behaviors() {
			mr, ok := b.(*components.MeshRenderer)
			if !ok || !mr.Enabled() {
				continue
			}
			g, ok := index[mr.Material]
			if !ok {
				g = &materialGroup{material: mr.Material}
				index[mr.Material] = g
				groups = append(groups, g)
			}
			g.renderers = append(g.renderers, mr)
		}
	}
	return groups
}

// firstLight returns the first enabled light; only one light is shaded.
func (s *Scene) firstLight() *components.Light {
	for _, l := range s.lights {
		if l.Enabled() {
			return l
		}
	}
	return nil
}

// DrawScene draws every mesh renderer seen from camera, binding each
// material once.
func (s *Scene) DrawScene(camera *components.Camera) {
	if camera == nil {
		core.LogWarn("scene %s: no camera to draw with", s.Name)
		return
	}
	viewProjection := camera.ViewProjection()
	cameraPosition := camera.Position()
	light := s.firstLight()

	for _, g := range s.groupByMaterial() {
		g.material.Use()
		for _, mr := range g.renderers {
			model := mr.Entity().Transform.WorldModelMatrix()
			g.material.SetMatrix("mvp", viewProjection.Mul(model))
			g.material.SetMatrix("model", model)
			g.material.SetUniform("camera_position", cameraPosition)
			if light != nil {
				p := light.PositionOrDirection()
				g.material.SetUniform("light_position", p)
				g.material.SetUniform("light_direction", math.NewVec3(p.X, p.Y, p.Z))
				g.material.SetUniform("light_color", light.Color)
			}
			mr.Render()
		}
	}
}

// DrawOverlay draws on top of the scene: an axis gizmo at the selected
// entity and a frustum at every camera, including the one drawing.
func (s *Scene) DrawOverlay(camera *components.Camera) {
	if camera == nil {
		return
	}
	s.backend.ClearDepth()
	viewProjection := camera.ViewProjection()

	if s.selected != nil {
		s.gizmo.Material.Use()
		s.gizmo.Material.SetMatrix("mvp", viewProjection.Mul(unscaledModel(s.selected.Transform)))
		s.gizmo.Render()
	}

	first := true
	for _, c := range s.cameras {
		if c.Entity() == nil {
			continue
		}
		if first {
			s.cameraGizmo.Material.Use()
			first = false
		}
		s.cameraGizmo.Material.SetMatrix("mvp", viewProjection.Mul(unscaledModel(c.Entity().Transform)))
		s.cameraGizmo.Render()
	}
}

// unscaledModel rebuilds the world model matrix from position and
// rotation only so gizmos keep their size.
func unscaledModel(t *math.Transform) math.Mat4 {
	return math.NewMat4Translation(t.WorldPosition()).Mul(t.WorldRotation().ToMat4())
}

// Destroy releases the GPU objects owned by the scene's behaviors and gizmos.
// Meshes, materials and shaders belong to the system manager.
func (s *Scene) Destroy() {
	for _, e := range s.entities {
		destroyBehaviors(e)
	}
	s.gizmo.Destroy()
	s.cameraGizmo.Destroy()
	s.entities = nil
	s.cameras = nil
	s.lights = nil
	s.selected = nil
	s.active = nil
}
