package testbed

import (
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/scene"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	width  uint32
	height uint32

	showOverlay bool
	cameraIndex int
	selectIndex int
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				showOverlay: true,
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	config := g.ApplicationConfig

	if config.MaterialsPath != "" {
		if err := g.SystemManager.LoadMaterials(config.MaterialsPath); err != nil {
			core.LogError("failed to load materials from %s", config.MaterialsPath)
			return err
		}
	}

	s, err := scene.Load(config.ScenePath, g.SystemManager, g.Input)
	if err != nil {
		core.LogError("failed to load scene %s", config.ScenePath)
		return err
	}
	g.Scene = s
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	input := g.Input

	// F1 toggles gizmos and camera frusta
	if input.IsKeyUp(core.KEY_F1) && input.WasKeyDown(core.KEY_F1) {
		state.showOverlay = !state.showOverlay
	}

	// C cycles through the scene cameras
	if input.IsKeyUp(core.KEY_C) && input.WasKeyDown(core.KEY_C) {
		if cameras := g.Scene.Cameras(); len(cameras) > 0 {
			state.cameraIndex = (state.cameraIndex + 1) % len(cameras)
			g.Scene.SetActiveCamera(cameras[state.cameraIndex])
			g.Scene.ActiveCamera().SetAspectRatio(aspect(state.width, state.height))
		}
	}

	// TAB moves the selection to the next entity
	if input.IsKeyUp(core.KEY_TAB) && input.WasKeyDown(core.KEY_TAB) {
		if entities := g.Scene.Entities(); len(entities) > 0 {
			state.selectIndex = (state.selectIndex + 1) % len(entities)
			g.Scene.Select(entities[state.selectIndex])
			core.LogInfo("selected %s", entities[state.selectIndex].Name)
		}
	}

	if input.IsKeyUp(core.KEY_P) && input.WasKeyDown(core.KEY_P) {
		if cam := g.Scene.ActiveCamera(); cam != nil {
			t := cam.Entity().Transform
			pos := t.WorldPosition()
			rot := t.LocalEulerAngles()
			core.LogDebug("Pos:[%.2f, %.2f, %.2f] Rot:[%.2f, %.2f, %.2f]", pos.X, pos.Y, pos.Z, rot.X, rot.Y, rot.Z)
		}
	}

	g.Scene.Update(deltaTime)
	return nil
}

func (g *TestGame) Render(deltaTime float64) error {
	state := g.State.(*gameState)
	cam := g.Scene.ActiveCamera()
	g.Scene.DrawScene(cam)
	if state.showOverlay {
		g.Scene.DrawOverlay(cam)
	}
	return nil
}

// OnResize keeps every camera's aspect ratio in line with the framebuffer.
func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	if g.Scene == nil {
		return nil
	}
	for _, c := range g.Scene.Cameras() {
		c.SetAspectRatio(aspect(width, height))
	}
	return nil
}

func (g *TestGame) Shutdown() error {
	if g.Scene != nil {
		g.Scene.Destroy()
		g.Scene = nil
	}
	return nil
}

func aspect(width, height uint32) float32 {
	if width == 0 || height == 0 {
		return scene.DEFAULT_ASPECT_RATIO
	}
	return float32(width) / float32(height)
}
