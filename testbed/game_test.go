package testbed

import (
	"testing"

	"github.com/spaghettifunk/kalsengi/engine"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
)

func newHeadlessTestbed(t *testing.T) (*TestGame, *engine.Engine, *headless.Backend) {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Renderer = "headless"
	cfg.AssetsDir = "../assets"
	cfg.MeshCacheDir = ""
	cfg.HotReload = false

	tg := NewTestGame(cfg)
	b := headless.New()
	e, err := engine.NewWithBackend(tg.Game, b)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := e.Shutdown(); err != nil {
			t.Error(err)
		}
	})
	return tg, e, b
}

func TestSampleSceneLoads(t *testing.T) {
	tg, _, _ := newHeadlessTestbed(t)
	s := tg.Scene
	if s == nil {
		t.Fatal("no scene")
	}
	if len(s.Entities()) != 7 || len(s.Cameras()) != 2 || len(s.Lights()) != 1 {
		t.Fatalf("%d entities, %d cameras, %d lights", len(s.Entities()), len(s.Cameras()), len(s.Lights()))
	}
	if s.Selected() == nil || s.Selected().Name != "planet" {
		t.Fatal("planet should start selected")
	}
	for _, c := range s.Cameras() {
		if !math.FloatEqual(c.AspectRatio(), 1280.0/720.0, 1e-5) {
			t.Fatalf("camera aspect %v", c.AspectRatio())
		}
	}
}

func TestSampleSceneFrame(t *testing.T) {
	tg, e, b := newHeadlessTestbed(t)
	moon, _ := tg.Scene.FindByName("moon")
	before := moon.Transform.WorldPosition()

	if err := e.Frame(0.5); err != nil {
		t.Fatal(err)
	}
	// four meshes, the selection gizmo and one frustum per camera
	if got := b.LastFrame().DrawCalls; got != 7 {
		t.Fatalf("draw calls: %d", got)
	}
	if moon.Transform.WorldPosition().Compare(before, 1e-4) {
		t.Fatal("the planet's rotation should carry the moon")
	}
}

func TestKeysCycleCameraAndSelection(t *testing.T) {
	tg, e, _ := newHeadlessTestbed(t)
	press := func(key core.KeyCode) {
		tg.Input.ProcessKey(key, true)
		_ = e.Frame(0.016)
		tg.Input.ProcessKey(key, false)
		_ = e.Frame(0.016)
	}

	first := tg.Scene.ActiveCamera()
	press(core.KEY_C)
	if tg.Scene.ActiveCamera() == first {
		t.Fatal("C did not switch camera")
	}

	selected := tg.Scene.Selected()
	press(core.KEY_TAB)
	if tg.Scene.Selected() == selected {
		t.Fatal("TAB did not move the selection")
	}

	state := tg.State.(*gameState)
	press(core.KEY_F1)
	if state.showOverlay {
		t.Fatal("F1 did not hide the overlay")
	}
}
