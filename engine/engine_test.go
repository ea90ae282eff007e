package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/kalsengi/engine/components"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
	"github.com/spaghettifunk/kalsengi/engine/scene"
	"github.com/spaghettifunk/kalsengi/engine/systems"
)

func testConfig(t *testing.T) *ApplicationConfig {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Renderer = "headless"
	cfg.AssetsDir = t.TempDir()
	cfg.MeshCacheDir = ""
	cfg.HotReload = false
	return cfg
}

func newTestEngine(t *testing.T, g *Game) (*Engine, *headless.Backend) {
	t.Helper()
	b := headless.New()
	e, err := NewWithBackend(g, b)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, b
}

func TestFrameOrder(t *testing.T) {
	var order []string
	g := &Game{ApplicationConfig: testConfig(t)}
	g.FnInitialize = func() error {
		s, err := scene.New("frame", g.SystemManager)
		if err != nil {
			return err
		}
		cam := components.NewEntity("camera")
		c := components.NewCamera(1)
		c.ClearColor = math.NewVec3(0.2, 0.3, 0.4)
		cam.AddBehavior(c)
		s.AddEntity(cam)

		mesh, _ := g.SystemManager.MeshSystem.Get(systems.PRIMITIVE_CUBE)
		material, _ := g.SystemManager.MaterialSystem.Get("default")
		box := components.NewEntity("box")
		box.AddBehavior(components.NewMeshRenderer(g.SystemManager.Backend(), mesh, material))
		s.AddEntity(box)
		g.Scene = s
		return nil
	}
	g.FnUpdate = func(dt float64) error {
		order = append(order, "update")
		g.Scene.Update(dt)
		return nil
	}
	g.FnRender = func(dt float64) error {
		order = append(order, "render")
		g.Scene.DrawScene(g.Scene.ActiveCamera())
		return nil
	}
	g.FnShutdown = func() error {
		g.Scene.Destroy()
		return nil
	}

	e, b := newTestEngine(t, g)
	b.Reset()
	if err := e.Frame(1.0 / 60.0); err != nil {
		t.Fatal(err)
	}

	if len(order) != 2 || order[0] != "update" || order[1] != "render" {
		t.Fatalf("hook order: %v", order)
	}
	names := b.CallNames()
	if len(names) < 3 || names[0] != "BeginFrame" || names[len(names)-1] != "EndFrame" {
		t.Fatalf("frame calls: %v", names)
	}
	clear := b.Calls()[0].Args[0].(math.Vec3)
	if !clear.Compare(math.NewVec3(0.2, 0.3, 0.4), 1e-6) {
		t.Fatalf("clear color %+v", clear)
	}
	if b.LastFrame().DrawCalls != 1 {
		t.Fatalf("draw calls: %d", b.LastFrame().DrawCalls)
	}
	if e.Metrics().Frames() != 1 {
		t.Fatalf("metrics frames: %d", e.Metrics().Frames())
	}
}

func TestFrameReloadsDirtyShaders(t *testing.T) {
	g := &Game{ApplicationConfig: testConfig(t)}
	e, _ := newTestEngine(t, g)

	dir := filepath.Join(g.ApplicationConfig.AssetsDir, "shaders")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	vs := filepath.Join(dir, "plain.vert")
	fs := filepath.Join(dir, "plain.frag")
	vertex := "#version 410 core\nlayout(location = 0) in vec3 pos;\nuniform mat4 mvp;\nvoid main() { gl_Position = mvp * vec4(pos, 1.0); }\n"
	fragment := "#version 410 core\nout vec4 c;\nvoid main() { c = vec4(1.0); }\n"
	if err := os.WriteFile(vs, []byte(vertex), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fs, []byte(fragment), 0o644); err != nil {
		t.Fatal(err)
	}
	shader, err := g.SystemManager.ShaderSystem.Load("plain", vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	before := shader.Generation()

	// the watcher goroutine does this on a write event
	done := make(chan struct{})
	go func() {
		g.SystemManager.ShaderSystem.MarkDirty(fs)
		close(done)
	}()
	<-done

	if err := e.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	if shader.Generation() != before+1 {
		t.Fatalf("generation %d, want %d", shader.Generation(), before+1)
	}
	if err := e.Frame(0.016); err != nil {
		t.Fatal(err)
	}
	if shader.Generation() != before+1 {
		t.Fatal("dirty flag consumed twice")
	}
}

func TestResizeSuspendsAndForwards(t *testing.T) {
	var sizes [][2]uint32
	updates := 0
	g := &Game{
		ApplicationConfig: testConfig(t),
		FnOnResize: func(w, h uint32) error {
			sizes = append(sizes, [2]uint32{w, h})
			return nil
		},
		FnUpdate: func(float64) error {
			updates++
			return nil
		},
	}
	e, b := newTestEngine(t, g)

	resize := func(w, h uint32) {
		e.Events().Fire(core.EventContext{Type: core.EVENT_CODE_RESIZED, Data: &core.ResizeEvent{Width: w, Height: h}})
	}

	resize(0, 0)
	_ = e.Frame(0.016)
	if updates != 0 {
		t.Fatal("a minimized window must not update")
	}

	resize(640, 480)
	_ = e.Frame(0.016)
	if updates != 1 {
		t.Fatal("restored window did not resume")
	}
	if w, h := b.Size(); w != 640 || h != 480 {
		t.Fatalf("viewport %dx%d", w, h)
	}
	// one call from Initialize, one from the restore
	if len(sizes) != 2 || sizes[1] != [2]uint32{640, 480} {
		t.Fatalf("resize hook calls: %v", sizes)
	}
}

func TestRunStopsOnQuitAndCancel(t *testing.T) {
	t.Run("quit event", func(t *testing.T) {
		frames := 0
		g := &Game{ApplicationConfig: testConfig(t)}
		var e *Engine
		g.FnUpdate = func(float64) error {
			frames++
			if frames == 3 {
				e.Events().Fire(core.EventContext{Type: core.EVENT_CODE_KEY_PRESSED, Data: &core.KeyEvent{KeyCode: core.KEY_ESCAPE}})
			}
			return nil
		}
		e, _ = newTestEngine(t, g)
		if err := e.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
		if frames != 3 || e.IsRunning() {
			t.Fatalf("frames %d running %v", frames, e.IsRunning())
		}
	})

	t.Run("context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		frames := 0
		g := &Game{ApplicationConfig: testConfig(t)}
		g.FnUpdate = func(float64) error {
			frames++
			if frames == 5 {
				cancel()
			}
			return nil
		}
		e, _ := newTestEngine(t, g)
		if err := e.Run(ctx); err != nil {
			t.Fatal(err)
		}
		if frames != 5 {
			t.Fatalf("frames %d", frames)
		}
	})

	t.Run("update error", func(t *testing.T) {
		boom := errors.New("boom")
		g := &Game{ApplicationConfig: testConfig(t)}
		g.FnUpdate = func(float64) error { return boom }
		e, _ := newTestEngine(t, g)
		if err := e.Run(context.Background()); !errors.Is(err, boom) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestRunRequiresInitialize(t *testing.T) {
	e, err := NewWithBackend(&Game{ApplicationConfig: testConfig(t)}, headless.New())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
}
