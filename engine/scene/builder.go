package scene

import (
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine/components"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
	"github.com/spaghettifunk/kalsengi/engine/systems"
)

// Aspect ratio of cameras that do not set one. Games are expected to
// update it on resize.
const DEFAULT_ASPECT_RATIO float32 = 16.0 / 9.0

type noInput struct{}

func (noInput) IsKeyDown(core.KeyCode) bool { return false }

// Build turns a scene description into a scene. Meshes and materials are
// looked up by name in sm, so they must be loaded first.
func Build(desc *metadata.SceneConfig, sm *systems.SystemManager, input components.InputSource) (*Scene, error) {
	s, err := New(desc.Name, sm)
	if err != nil {
		return nil, err
	}
	if input == nil {
		input = noInput{}
	}

	for _, m := range desc.Meshes {
		if _, err := sm.MeshSystem.Get(m.Name); err == nil {
			continue
		}
		if _, err := sm.MeshSystem.Load(m.Name, m.Path); err != nil {
			s.Destroy()
			return nil, fmt.Errorf("scene %s: %w", desc.Name, err)
		}
	}

	byName := make(map[string]*components.Entity, len(desc.Entities))
	for _, ec := range desc.Entities {
		if _, ok := byName[ec.Name]; ok {
			s.Destroy()
			return nil, fmt.Errorf("entity %s declared twice: %w", ec.Name, core.ErrInvalidAsset)
		}
		e := components.NewEntity(ec.Name)
		t := e.Transform
		t.SetLocalPosition(math.NewVec3(ec.Position[0], ec.Position[1], ec.Position[2]))
		t.SetLocalEulerAngles(math.NewVec3(ec.Rotation[0], ec.Rotation[1], ec.Rotation[2]))
		if ec.Scale != nil {
			t.SetLocalScale(math.NewVec3(ec.Scale[0], ec.Scale[1], ec.Scale[2]))
		}
		if ec.Parent != "" {
			parent, ok := byName[ec.Parent]
			if !ok {
				s.Destroy()
				return nil, fmt.Errorf("entity %s: unknown parent %s: %w", ec.Name, ec.Parent, core.ErrInvalidAsset)
			}
			if err := e.SetParent(parent); err != nil {
				s.Destroy()
				return nil, fmt.Errorf("entity %s: %w", ec.Name, err)
			}
		}
		for _, bc := range ec.Behaviors {
			b, err := buildBehavior(bc, sm, input)
			if err != nil {
				// e is not in the scene yet, so s.Destroy does not reach it
				destroyBehaviors(e)
				s.Destroy()
				return nil, fmt.Errorf("entity %s: %w", ec.Name, err)
			}
			if bc.Enabled != nil {
				b.SetEnabled(*bc.Enabled)
			}
			e.AddBehavior(b)
		}
		byName[ec.Name] = e
		s.AddEntity(e)
	}

	if desc.Selected != "" {
		e, ok := byName[desc.Selected]
		if !ok {
			s.Destroy()
			return nil, fmt.Errorf("selected entity %s not found: %w", desc.Selected, core.ErrInvalidAsset)
		}
		s.Select(e)
	}
	core.LogInfo("scene %s built with %d entities", desc.Name, len(s.entities))
	return s, nil
}

func destroyBehaviors(e *components.Entity) {
	for _, b := range e.Behaviors() {
		if d, ok := b.(components.Destroyable); ok {
			d.Destroy()
		}
	}
}

// Load reads a scene description through the resource system and builds it.
func Load(path string, sm *systems.SystemManager, input components.InputSource) (*Scene, error) {
	res, err := sm.ResourceSystem.Load(path)
	if err != nil {
		return nil, err
	}
	desc, ok := res.Data.(*metadata.SceneConfig)
	if !ok {
		err := fmt.Errorf("%s is not a scene description: %w", res.FullPath, core.ErrInvalidAsset)
		core.LogError(err.Error())
		return nil, err
	}
	return Build(desc, sm, input)
}

func buildBehavior(bc metadata.BehaviorConfig, sm *systems.SystemManager, input components.InputSource) (components.Behavior, error) {
	switch bc.Type {
	case "camera":
		aspect := bc.Aspect
		if aspect == 0 {
			aspect = DEFAULT_ASPECT_RATIO
		}
		c := components.NewCamera(aspect)
		if bc.FOV != 0 {
			c.SetFOV(bc.FOV)
		}
		if bc.Near != 0 {
			c.SetNear(bc.Near)
		}
		if bc.Far != 0 {
			c.SetFar(bc.Far)
		}
		if bc.ClearColor != nil {
			c.ClearColor = vec3(*bc.ClearColor)
		}
		return c, nil

	case "light":
		kind := components.LIGHT_TYPE_DIRECTIONAL
		switch bc.Kind {
		case "", "directional":
		case "point":
			kind = components.LIGHT_TYPE_POINT
		default:
			return nil, fmt.Errorf("unknown light kind %q: %w", bc.Kind, core.ErrInvalidAsset)
		}
		l := components.NewLight(kind)
		if bc.Color != nil {
			l.Color = vec3(*bc.Color)
		}
		return l, nil

	case "mesh_renderer":
		mesh, err := sm.MeshSystem.Get(bc.Mesh)
		if err != nil {
			return nil, err
		}
		get := sm.MaterialSystem.Get
		if bc.Instance {
			get = sm.MaterialSystem.Create
		}
		material, err := get(bc.Material)
		if err != nil {
			return nil, err
		}
		return components.NewMeshRenderer(sm.Backend(), mesh, material), nil

	case "rotate":
		r := components.NewRotate()
		if bc.Speed != 0 {
			r.Speed = bc.Speed
		}
		if bc.Axis != nil {
			r.Axis = vec3(*bc.Axis)
		}
		return r, nil

	case "free_fly":
		f := components.NewFreeFlyCamera(input)
		if bc.Speed != 0 {
			f.Speed = bc.Speed
		}
		if bc.AngularSpeed != 0 {
			f.AngularSpeed = bc.AngularSpeed
		}
		return f, nil
	}
	return nil, fmt.Errorf("unknown behavior type %q: %w", bc.Type, core.ErrInvalidAsset)
}

func vec3(v [3]float32) math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}
