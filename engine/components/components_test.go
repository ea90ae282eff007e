package components

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
	"github.com/spaghettifunk/kalsengi/engine/renderer/metadata"
)

const tolerance float32 = 1e-4

func TestEntityBehaviors(t *testing.T) {
	e := NewEntity("player")
	other := NewEntity("other")
	if e.ID == other.ID || e.ID == 0 {
		t.Fatalf("ids must be unique and non zero: %d %d", e.ID, other.ID)
	}
	if e.Transform.Owner() != e {
		t.Fatal("transform owner not set")
	}

	cam := NewCamera(16.0 / 9.0)
	e.AddBehavior(NewRotate())
	e.AddBehavior(cam)
	if cam.Entity() != e {
		t.Fatal("behavior back reference not set")
	}

	got, ok := GetBehavior[*Camera](e)
	if !ok || got != cam {
		t.Fatal("camera lookup failed")
	}
	if _, ok := GetBehavior[*Light](e); ok {
		t.Fatal("unexpected light")
	}
	if len(e.Behaviors()) != 2 {
		t.Fatalf("%d behaviors", len(e.Behaviors()))
	}
}

func TestEntityParent(t *testing.T) {
	parent := NewEntity("parent")
	child := NewEntity("child")
	if err := child.SetParent(parent); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != parent {
		t.Fatal("parent lookup failed")
	}
	if err := parent.SetParent(child); err == nil {
		t.Fatal("cycle must be rejected")
	}
}

func TestCameraProjection(t *testing.T) {
	cam := NewCamera(16.0 / 9.0)
	want := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.01, 1000)
	if got := cam.Projection(); !got.Compare(math.Mat4{Data: [16]float32(want)}, tolerance) {
		t.Fatalf("default projection: %v", got.Data)
	}

	tests := []struct {
		name string
		set  func(c *Camera)
		want mgl32.Mat4
	}{
		{"fov", func(c *Camera) { c.SetFOV(90) }, mgl32.Perspective(mgl32.DegToRad(90), 16.0/9.0, 0.01, 1000)},
		{"aspect", func(c *Camera) { c.SetAspectRatio(1) }, mgl32.Perspective(mgl32.DegToRad(60), 1, 0.01, 1000)},
		{"near", func(c *Camera) { c.SetNear(0.5) }, mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.5, 1000)},
		{"far", func(c *Camera) { c.SetFar(50) }, mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.01, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(16.0 / 9.0)
			_ = c.Projection()
			tt.set(c)
			if got := c.Projection(); !got.Compare(math.Mat4{Data: [16]float32(tt.want)}, tolerance) {
				t.Fatalf("stale projection: %v", got.Data)
			}
		})
	}
}

func TestCameraViewProjectionFollowsParent(t *testing.T) {
	rig := NewEntity("rig")
	e := NewEntity("camera")
	cam := NewCamera(1)
	e.AddBehavior(cam)
	_ = e.SetParent(rig)

	first := cam.ViewProjection()
	rig.Transform.SetLocalPosition(math.NewVec3(0, 0, 10))
	second := cam.ViewProjection()
	if second == first {
		t.Fatal("view projection did not refresh after the parent moved")
	}
	want := cam.Projection().Mul(math.NewMat4Translation(math.NewVec3(0, 0, -10)))
	if !second.Compare(want, tolerance) {
		t.Fatalf("got %v, want %v", second.Data, want.Data)
	}

	cam.SetFOV(30)
	if third := cam.ViewProjection(); third == second {
		t.Fatal("view projection did not refresh after the projection changed")
	}
}

func TestLightPositionOrDirection(t *testing.T) {
	tests := []struct {
		name  string
		kind  LightType
		setup func(tr *math.Transform)
		want  math.Vec4
	}{
		{
			name: "directional facing -z",
			kind: LIGHT_TYPE_DIRECTIONAL,
			setup: func(tr *math.Transform) {
				tr.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3Up(), math.K_PI, false))
			},
			want: math.NewVec4(0, 0, 1, 0),
		},
		{
			name:  "directional ignores position",
			kind:  LIGHT_TYPE_DIRECTIONAL,
			setup: func(tr *math.Transform) { tr.SetLocalPosition(math.NewVec3(4, 5, 6)) },
			want:  math.NewVec4(0, 0, -1, 0),
		},
		{
			name:  "point",
			kind:  LIGHT_TYPE_POINT,
			setup: func(tr *math.Transform) { tr.SetLocalPosition(math.NewVec3(1, 2, 3)) },
			want:  math.NewVec4(1, 2, 3, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntity("light")
			l := NewLight(tt.kind)
			e.AddBehavior(l)
			tt.setup(e.Transform)
			if got := l.PositionOrDirection(); !got.Compare(tt.want, tolerance) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRotateUpdate(t *testing.T) {
	e := NewEntity("spinner")
	r := NewRotate()
	e.AddBehavior(r)
	r.Update(2)

	want := math.NewQuatFromEuler(math.NewVec3(0, 30, 0))
	if got := e.Transform.LocalRotation(); !got.Compare(want, tolerance) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

type keys map[core.KeyCode]bool

func (k keys) IsKeyDown(key core.KeyCode) bool {
	return k[key]
}

func TestFreeFlyCamera(t *testing.T) {
	tests := []struct {
		name    string
		pressed keys
		dt      float64
		want    math.Vec3
	}{
		{"idle", keys{}, 0.1, math.NewVec3Zero()},
		{"forward", keys{core.KEY_W: true}, 0.1, math.NewVec3(0, 0, -0.5)},
		{"strafe", keys{core.KEY_D: true}, 0.1, math.NewVec3(0.5, 0, 0)},
		{"opposite keys cancel", keys{core.KEY_Q: true, core.KEY_E: true}, 0.1, math.NewVec3Zero()},
		{"dt is capped", keys{core.KEY_E: true}, 5, math.NewVec3(0, 0.5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEntity("camera")
			f := NewFreeFlyCamera(tt.pressed)
			e.AddBehavior(f)
			f.Update(tt.dt)
			if got := e.Transform.LocalPosition(); !got.Compare(tt.want, tolerance) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFreeFlyCameraLocalAndWorldAxes(t *testing.T) {
	yawed := func() *Entity {
		e := NewEntity("camera")
		e.Transform.SetLocalRotation(math.NewQuatFromAxisAngle(math.NewVec3Up(), math.K_HALF_PI, false))
		return e
	}

	local := yawed()
	f := NewFreeFlyCamera(keys{core.KEY_W: true})
	local.AddBehavior(f)
	f.Update(0.1)
	// forward of a +90 yaw is +x, moving forward goes to -x
	if got := local.Transform.LocalPosition(); !got.Compare(math.NewVec3(-0.5, 0, 0), tolerance) {
		t.Fatalf("local: %+v", got)
	}

	world := yawed()
	g := NewFreeFlyCamera(keys{core.KEY_W: true, core.KEY_LCONTROL: true})
	world.AddBehavior(g)
	g.Update(0.1)
	if got := world.Transform.LocalPosition(); !got.Compare(math.NewVec3(0, 0, -0.5), tolerance) {
		t.Fatalf("world: %+v", got)
	}
}

func TestFreeFlyCameraRotation(t *testing.T) {
	e := NewEntity("camera")
	f := NewFreeFlyCamera(keys{core.KEY_J: true})
	e.AddBehavior(f)
	f.Update(0.1)
	want := math.NewQuatFromEuler(math.NewVec3(0, 3, 0))
	if got := e.Transform.LocalRotation(); !got.Compare(want, tolerance) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

const colorVertex = `#version 410 core
layout (location = 0) in vec3 pos;
layout (location = 1) in vec3 normal;
layout (location = 2) in vec3 color;
uniform mat4 mvp;
void main() { gl_Position = mvp * vec4(pos, 1.0); }
`

const colorFragment = `#version 410 core
out vec4 frag;
void main() { frag = vec4(1.0); }
`

func TestMeshRendererDisablesMissingAttributes(t *testing.T) {
	b := headless.New()
	shader, err := renderer.NewShader(b, "color", colorVertex, colorFragment)
	if err != nil {
		t.Fatal(err)
	}
	material, err := renderer.NewMaterial("color", shader)
	if err != nil {
		t.Fatal(err)
	}
	mesh, err := renderer.NewMesh(b, &metadata.MeshConfig{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Colors:    []float32{1, 0, 0, 0, 1, 0, 0, 0, 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	b.Reset()
	r := NewMeshRenderer(b, mesh, material)

	enabled := map[uint32]bool{}
	disabled := map[uint32]bool{}
	for _, c := range b.Calls() {
		switch c.Name {
		case "VertexAttribEnable":
			enabled[c.Args[0].(uint32)] = true
		case "VertexAttribDisable":
			disabled[c.Args[0].(uint32)] = true
		}
	}
	if !enabled[0] || !enabled[2] || len(enabled) != 2 {
		t.Fatalf("enabled: %v", enabled)
	}
	if !disabled[1] || len(disabled) != 1 {
		t.Fatalf("disabled: %v", disabled)
	}

	b.Reset()
	r.Render()
	if b.Count("DrawArrays") != 1 {
		t.Fatalf("calls: %v", b.CallNames())
	}
	r.Destroy()
	if r.VAO() != 0 {
		t.Fatal("vao not released")
	}
}
