package engine

import (
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/scene"
	"github.com/spaghettifunk/kalsengi/engine/systems"
)

// Game is the set of hooks the engine drives. The engine fills
// SystemManager and Input before FnInitialize runs; the game is expected
// to set Scene there.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	Input             *core.InputState
	Scene             *scene.Scene
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
