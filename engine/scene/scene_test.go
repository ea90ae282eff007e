package scene

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/kalsengi/engine/assets/loaders"
	"github.com/spaghettifunk/kalsengi/engine/components"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
	"github.com/spaghettifunk/kalsengi/engine/systems"
)

const litVertex = `#version 410 core
layout(location = 0) in vec3 pos;
layout(location = 2) in vec3 normal;

uniform mat4 mvp;
uniform mat4 model;

void main() {
    gl_Position = mvp * vec4(pos, 1.0);
}
`

const litFragment = `#version 410 core
uniform vec3 color;
uniform vec3 camera_position;
uniform vec4 light_position;
uniform vec3 light_direction;
uniform vec3 light_color;

out vec4 frag_color;

void main() {
    frag_color = vec4(color * light_color, 1.0);
}
`

func newTestSystems(t *testing.T) (*systems.SystemManager, *headless.Backend) {
	t.Helper()
	b := headless.New()
	sm, err := systems.NewSystemManager(b, systems.SystemManagerConfig{AssetBasePath: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.ShaderSystem.LoadFromSource("lit", litVertex, litFragment); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"red", "blue"} {
		if err := sm.MaterialSystem.Register(metadata.MaterialConfig{Name: name, ShaderName: "lit"}); err != nil {
			t.Fatal(err)
		}
	}
	return sm, b
}

func material(t *testing.T, sm *systems.SystemManager, name string) *renderer.Material {
	t.Helper()
	m, err := sm.MaterialSystem.Get(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func meshEntity(t *testing.T, sm *systems.SystemManager, name, mat string) *components.Entity {
	t.Helper()
	mesh, err := sm.MeshSystem.Get(systems.PRIMITIVE_CUBE)
	if err != nil {
		t.Fatal(err)
	}
	e := components.NewEntity(name)
	e.AddBehavior(components.NewMeshRenderer(sm.Backend(), mesh, material(t, sm, mat)))
	return e
}

func cameraEntity(name string, z float32) (*components.Entity, *components.Camera) {
	e := components.NewEntity(name)
	e.Transform.SetLocalPosition(math.NewVec3(0, 0, z))
	c := components.NewCamera(1)
	e.AddBehavior(c)
	return e, c
}

func newTestScene(t *testing.T, sm *systems.SystemManager) *Scene {
	t.Helper()
	s, err := New("test", sm)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDrawSceneGroupsByMaterial(t *testing.T) {
	sm, b := newTestSystems(t)
	s := newTestScene(t, sm)

	camEntity, cam := cameraEntity("camera", 10)
	s.AddEntity(camEntity)
	s.AddEntity(meshEntity(t, sm, "a1", "red"))
	s.AddEntity(meshEntity(t, sm, "b1", "blue"))
	s.AddEntity(meshEntity(t, sm, "a2", "red"))

	b.Reset()
	s.DrawScene(cam)

	if got := b.Count("ShaderUse"); got != 2 {
		t.Fatalf("%d material activations, want 2: %v", got, b.CallNames())
	}
	// draws between activations: both red entities, then the blue one
	var draws []int
	for _, name := range b.CallNames() {
		switch name {
		case "ShaderUse":
			draws = append(draws, 0)
		case "DrawElements", "DrawArrays":
			draws[len(draws)-1]++
		}
	}
	if len(draws) != 2 || draws[0] != 2 || draws[1] != 1 {
		t.Fatalf("draws per activation: %v", draws)
	}
}

func TestDrawSceneSkipsDisabledRenderers(t *testing.T) {
	sm, b := newTestSystems(t)
	s := newTestScene(t, sm)
	camEntity, cam := cameraEntity("camera", 10)
	s.AddEntity(camEntity)
	hidden := meshEntity(t, sm, "hidden", "blue")
	hidden.Behaviors()[0].SetEnabled(false)
	s.AddEntity(meshEntity(t, sm, "shown", "red"))
	s.AddEntity(hidden)

	b.Reset()
	s.DrawScene(cam)
	if b.Count("ShaderUse") != 1 || b.Count("DrawElements") != 1 {
		t.Fatalf("calls: %v", b.CallNames())
	}
}

func TestDrawSceneUniforms(t *testing.T) {
	sm, b := newTestSystems(t)
	s := newTestScene(t, sm)

	camEntity, cam := cameraEntity("camera", 10)
	s.AddEntity(camEntity)

	sun := components.NewEntity("sun")
	// half a turn about y makes forward (0,0,-1)
	sun.Transform.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3Up(), math.K_PI, false))
	light := components.NewLight(components.LIGHT_TYPE_DIRECTIONAL)
	light.Color = math.NewVec3(0.5, 0.25, 1)
	sun.AddBehavior(light)
	s.AddEntity(sun)

	cube := meshEntity(t, sm, "cube", "red")
	cube.Transform.SetLocalPosition(math.NewVec3(1, 2, 3))
	s.AddEntity(cube)

	s.DrawScene(cam)
	program := material(t, sm, "red").Shader().Program()

	value := func(name string) []float32 {
		t.Helper()
		v, ok := b.UniformValue(program, name)
		if !ok {
			t.Fatalf("uniform %s never set", name)
		}
		f, ok := v.([]float32)
		if !ok {
			t.Fatalf("uniform %s holds %T", name, v)
		}
		return f
	}
	tests := []struct {
		name string
		want []float32
	}{
		{"light_position", []float32{0, 0, 1, 0}},
		{"light_direction", []float32{0, 0, 1}},
		{"light_color", []float32{0.5, 0.25, 1}},
		{"camera_position", []float32{0, 0, 10}},
	}
	for _, tt := range tests {
		got := value(tt.name)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, got, tt.want)
		}
		for i := range got {
			if !math.FloatEqual(got[i], tt.want[i], 1e-5) {
				t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
				break
			}
		}
	}

	mvp, ok := b.UniformValue(program, "mvp")
	want := cam.ViewProjection().Mul(cube.Transform.WorldModelMatrix())
	if !ok || !mvp.(math.Mat4).Compare(want, 1e-5) {
		t.Fatalf("mvp: %v, want %v", mvp, want.Data)
	}
}

func TestDrawOverlay(t *testing.T) {
	sm, b := newTestSystems(t)
	s := newTestScene(t, sm)

	mainEntity, main := cameraEntity("main", 10)
	otherEntity, _ := cameraEntity("other", -10)
	s.AddEntity(mainEntity)
	s.AddEntity(otherEntity)

	target := meshEntity(t, sm, "target", "red")
	target.Transform.SetLocalPosition(math.NewVec3(1, 0, 0))
	target.Transform.SetLocalEulerAngles(math.NewVec3(0, 30, 0))
	target.Transform.SetLocalScale(math.NewVec3(5, 5, 5))
	s.AddEntity(target)
	s.Select(target)

	b.Reset()
	s.DrawOverlay(main)

	names := b.CallNames()
	if len(names) == 0 || names[0] != "ClearDepth" {
		t.Fatalf("overlay must start by clearing depth: %v", names)
	}
	// the axis gizmo is a plain line list, the frustum is indexed
	if b.Count("DrawArrays") != 1 || b.Count("DrawElements") != 2 {
		t.Fatalf("expected one gizmo and a frustum per camera: %v", names)
	}

	gizmoShader, _ := sm.ShaderSystem.Get(systems.BUILTIN_SHADER_NAME_VERTEX_COLOR)
	mvp, ok := b.UniformValue(gizmoShader.Program(), "mvp")
	if !ok {
		t.Fatal("gizmo mvp never set")
	}
	unscaled := math.NewMat4Translation(math.NewVec3(1, 0, 0)).Mul(math.NewQuatFromEuler(math.NewVec3(0, 30, 0)).ToMat4())
	want := main.ViewProjection().Mul(unscaled)
	if !mvp.(math.Mat4).Compare(want, 1e-5) {
		t.Fatalf("gizmo must ignore scale: got %v, want %v", mvp, want.Data)
	}

	b.Reset()
	s.Select(nil)
	s.DrawOverlay(main)
	if b.Count("DrawArrays") != 0 || b.Count("DrawElements") != 2 {
		t.Fatalf("without a selection only the frustums are drawn: %v", b.CallNames())
	}
}

func TestDrawOverlaySingleCamera(t *testing.T) {
	sm, b := newTestSystems(t)
	s := newTestScene(t, sm)
	e, cam := cameraEntity("main", 10)
	s.AddEntity(e)

	b.Reset()
	s.DrawOverlay(cam)
	names := b.CallNames()
	if len(names) == 0 || names[0] != "ClearDepth" {
		t.Fatalf("overlay must start by clearing depth: %v", names)
	}
	if b.Count("DrawElements") != 1 || b.Count("DrawArrays") != 0 {
		t.Fatalf("the drawing camera still gets its frustum: %v", names)
	}
}

func TestUpdateRunsEnabledBehaviors(t *testing.T) {
	sm, _ := newTestSystems(t)
	s := newTestScene(t, sm)

	spinning := components.NewEntity("spinning")
	spinning.AddBehavior(components.NewRotate())
	paused := components.NewEntity("paused")
	paused.AddBehavior(components.NewRotate()).SetEnabled(false)
	s.AddEntity(spinning)
	s.AddEntity(paused)

	s.Update(1)
	if spinning.Transform.LocalRotation().Compare(math.NewQuatIdentity(), 1e-6) {
		t.Fatal("enabled rotate did not run")
	}
	if !paused.Transform.LocalRotation().Compare(math.NewQuatIdentity(), 1e-6) {
		t.Fatal("disabled rotate ran")
	}
}

func TestLookupsAndStaleLists(t *testing.T) {
	sm, _ := newTestSystems(t)
	s := newTestScene(t, sm)

	e, cam := cameraEntity("camera", 0)
	s.AddEntity(e)
	if s.ActiveCamera() != cam || len(s.Cameras()) != 1 {
		t.Fatal("first camera must become active")
	}
	if got, ok := s.FindByName("camera"); !ok || got != e {
		t.Fatal("FindByName")
	}
	if got, ok := s.FindByID(e.ID); !ok || got != e {
		t.Fatal("FindByID")
	}
	if _, ok := s.FindByName("nobody"); ok {
		t.Fatal("unknown name found")
	}

	// lights added after the entity joined the scene are not indexed
	e.AddBehavior(components.NewLight(components.LIGHT_TYPE_POINT))
	if len(s.Lights()) != 0 {
		t.Fatal("light list must only reflect AddEntity time")
	}
}

func TestDestroyReleasesVertexArrays(t *testing.T) {
	sm, b := newTestSystems(t)
	s := newTestScene(t, sm)
	s.AddEntity(meshEntity(t, sm, "a", "red"))
	s.AddEntity(meshEntity(t, sm, "b", "blue"))
	s.Destroy()
	if c, d := b.Count("VertexArrayCreate"), b.Count("VertexArrayDestroy"); c != d || c != 4 {
		t.Fatalf("%d vertex arrays created, %d destroyed", c, d)
	}
}

const testScene = `
name = "demo"
selected = "moon"

[[entity]]
name = "camera"
position = [0.0, 2.0, 8.0]

[[entity.behavior]]
type = "camera"
fov = 45.0
clear_color = [0.1, 0.1, 0.1]

[[entity.behavior]]
type = "free_fly"
speed = 2.0

[[entity]]
name = "lamp"
position = [0.0, 5.0, 0.0]

[[entity.behavior]]
type = "light"
kind = "point"

[[entity]]
name = "planet"

[[entity.behavior]]
type = "mesh_renderer"
mesh = "cube"
material = "red"

[[entity.behavior]]
type = "rotate"
speed = 90.0

[[entity]]
name = "moon"
parent = "planet"
position = [3.0, 0.0, 0.0]
scale = [0.5, 0.5, 0.5]

[[entity.behavior]]
type = "mesh_renderer"
mesh = "quad"
material = "red"
instance = true
`

func TestBuild(t *testing.T) {
	sm, _ := newTestSystems(t)
	desc, err := loaders.ParseScene([]byte(testScene))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Build(desc, sm, nil)
	if err != nil {
		t.Fatal(err)
	}

	if s.Name != "demo" || len(s.Entities()) != 4 || len(s.Cameras()) != 1 || len(s.Lights()) != 1 {
		t.Fatalf("scene %s: %d entities, %d cameras, %d lights", s.Name, len(s.Entities()), len(s.Cameras()), len(s.Lights()))
	}
	cam := s.ActiveCamera()
	if cam.FOV() != 45 || !cam.ClearColor.Compare(math.NewVec3(0.1, 0.1, 0.1), 1e-6) {
		t.Fatalf("camera fov %v clear %+v", cam.FOV(), cam.ClearColor)
	}
	if s.Lights()[0].Type != components.LIGHT_TYPE_POINT {
		t.Fatal("lamp must be a point light")
	}

	planet, _ := s.FindByName("planet")
	moon, _ := s.FindByName("moon")
	if s.Selected() != moon || moon.Parent() != planet {
		t.Fatal("selection or parent not applied")
	}
	shared, _ := components.GetBehavior[*components.MeshRenderer](planet)
	own, _ := components.GetBehavior[*components.MeshRenderer](moon)
	if shared.Material == own.Material {
		t.Fatal("instance renderer must get its own material")
	}

	// a quarter turn of the planet carries the moon from +x to -z
	s.Update(1)
	if got := moon.Transform.WorldPosition(); !got.Compare(math.NewVec3(0, 0, -3), 1e-4) {
		t.Fatalf("moon at %+v", got)
	}
}

func TestBuildUnknownReferences(t *testing.T) {
	sm, _ := newTestSystems(t)
	tests := []struct {
		name string
		desc metadata.SceneConfig
	}{
		{"mesh", metadata.SceneConfig{Entities: []metadata.EntityConfig{{
			Name:      "a",
			Behaviors: []metadata.BehaviorConfig{{Type: "mesh_renderer", Mesh: "nope", Material: "red"}},
		}}}},
		{"material", metadata.SceneConfig{Entities: []metadata.EntityConfig{{
			Name:      "a",
			Behaviors: []metadata.BehaviorConfig{{Type: "mesh_renderer", Mesh: "cube", Material: "nope"}},
		}}}},
		{"light kind", metadata.SceneConfig{Entities: []metadata.EntityConfig{{
			Name:      "a",
			Behaviors: []metadata.BehaviorConfig{{Type: "light", Kind: "spot"}},
		}}}},
		{"parent", metadata.SceneConfig{Entities: []metadata.EntityConfig{{Name: "a", Parent: "b"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(&tt.desc, sm, nil); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestBuildRejectsDuplicateNames(t *testing.T) {
	sm, _ := newTestSystems(t)
	desc := metadata.SceneConfig{
		Selected: "a",
		Entities: []metadata.EntityConfig{{Name: "a"}, {Name: "b"}, {Name: "a"}},
	}
	if _, err := Build(&desc, sm, nil); !errors.Is(err, core.ErrInvalidAsset) {
		t.Fatalf("expected invalid asset, got %v", err)
	}
}

func TestBuildFailureReleasesVertexArrays(t *testing.T) {
	sm, b := newTestSystems(t)
	desc := metadata.SceneConfig{Entities: []metadata.EntityConfig{
		{
			Name:      "ok",
			Behaviors: []metadata.BehaviorConfig{{Type: "mesh_renderer", Mesh: "cube", Material: "red"}},
		},
		{
			// the renderer is built before the light fails
			Name: "broken",
			Behaviors: []metadata.BehaviorConfig{
				{Type: "mesh_renderer", Mesh: "cube", Material: "blue"},
				{Type: "light", Kind: "spot"},
			},
		},
	}}
	b.Reset()
	if _, err := Build(&desc, sm, nil); err == nil {
		t.Fatal("expected an error")
	}
	c, d := b.Count("VertexArrayCreate"), b.Count("VertexArrayDestroy")
	if c == 0 || c != d {
		t.Fatalf("%d vertex arrays created, %d destroyed", c, d)
	}
}
