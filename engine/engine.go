package engine

import (
	"context"
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine/assets"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
	"github.com/spaghettifunk/kalsengi/engine/platform"
	"github.com/spaghettifunk/kalsengi/engine/renderer"
	"github.com/spaghettifunk/kalsengi/engine/renderer/headless"
	"github.com/spaghettifunk/kalsengi/engine/renderer/opengl"
	"github.com/spaghettifunk/kalsengi/engine/systems"
)

var (
	_ renderer.Backend = (*headless.Backend)(nil)
	_ renderer.Backend = (*opengl.Backend)(nil)
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Clear color used when the game has no active camera.
var defaultClearColor = math.NewVec3(0.1, 0.1, 0.1)

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	config        *ApplicationConfig
	isRunning     bool
	isSuspended   bool
	platform      *platform.Platform
	renderer      *renderer.Renderer
	systemManager *systems.SystemManager
	watcher       *assets.Watcher
	events        *core.Events
	input         *core.InputState
	clock         *core.Clock
	metrics       *core.FrameMetrics
	width         uint32
	height        uint32
	lastTime      float64
}

// New picks the backend named by the game's config. The window, if any, is
// only opened by Initialize.
func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultConfig()
	}
	cfg := g.ApplicationConfig
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	core.SetLogLevel(cfg.LogLevel)

	events := core.NewEvents()
	input := core.NewInputState(events)

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		config:       cfg,
		events:       events,
		input:        input,
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		width:        cfg.StartWidth,
		height:       cfg.StartHeight,
	}

	rt, _ := renderer.ParseRendererType(cfg.Renderer)
	switch rt {
	case renderer.Headless:
		e.renderer = renderer.New(headless.New(headless.WithCallLog(false)))
	default:
		e.platform = platform.New(events, input)
		e.renderer = renderer.New(opengl.New(e.platform))
	}
	return e, nil
}

// NewWithBackend builds an engine without a window around an existing backend.
func NewWithBackend(g *Game, backend renderer.Backend) (*Engine, error) {
	e, err := New(g)
	if err != nil {
		return nil, err
	}
	e.platform = nil
	e.renderer = renderer.New(backend)
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.config

	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e.onResized)

	if e.platform != nil {
		if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight, cfg.VSync); err != nil {
			return err
		}
		// the framebuffer can be larger than the window on high density displays
		if w, h := e.platform.FramebufferSize(); w != 0 && h != 0 {
			e.width, e.height = w, h
		}
	}

	if err := e.renderer.Initialize(cfg.Name, e.width, e.height); err != nil {
		core.LogError("failed to initialize the renderer: %s", err)
		return err
	}

	sm, err := systems.NewSystemManager(e.renderer.Backend(), systems.SystemManagerConfig{
		AssetBasePath: cfg.AssetsDir,
		MeshCacheDir:  cfg.MeshCacheDir,
	})
	if err != nil {
		core.LogError(err.Error())
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm
	e.gameInstance.Input = e.input

	if cfg.HotReload {
		dir := sm.ResourceSystem.Path(cfg.ShaderDir)
		w, err := assets.NewWatcher(dir, sm.ShaderSystem.MarkDirty)
		if err != nil {
			// reload is a convenience, keep running without it
			core.LogWarn("shader hot reload disabled: %s", err)
		} else {
			e.watcher = w
			core.LogInfo("watching %s for shader changes", dir)
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}

	e.currentStage = EngineStageInitialized
	e.isRunning = true
	return nil
}

// Frame runs one frame: input, shader reload, update, draw and present.
func (e *Engine) Frame(deltaTime float64) error {
	if e.platform != nil {
		e.platform.PollEvents()
	}
	// recompilation needs the context, so it happens here and not in the watcher
	if n := e.systemManager.ShaderSystem.ReloadDirty(); n > 0 {
		core.LogInfo("reloaded %d shaders", n)
	}
	if e.isSuspended || !e.isRunning {
		return nil
	}

	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(deltaTime); err != nil {
			core.LogError("game update failed: %s", err)
			return err
		}
	}

	err := e.renderer.DrawFrame(e.clearColor(), func() error {
		if e.gameInstance.FnRender == nil {
			return nil
		}
		return e.gameInstance.FnRender(deltaTime)
	})
	if err != nil {
		return err
	}

	// NOTE: Input update/state copying should always be handled
	// after any input should be recorded; I.E. before this line.
	e.input.Update()
	e.metrics.Update(e.clock.Elapsed(), deltaTime)
	return nil
}

func (e *Engine) clearColor() math.Vec3 {
	if s := e.gameInstance.Scene; s != nil {
		if c := s.ActiveCamera(); c != nil {
			return c.ClearColor
		}
	}
	return defaultClearColor
}

// Run steps frames until the window closes, a quit event fires or ctx is
// cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine not initialized: %w", core.ErrUnknown)
	}
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		select {
		case <-ctx.Done():
			core.LogInfo("context cancelled, shutting down")
			e.isRunning = false
			return nil
		default:
		}
		if e.platform != nil && e.platform.ShouldClose() {
			e.isRunning = false
			break
		}

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		if err := e.Frame(currentTime - e.lastTime); err != nil {
			e.isRunning = false
			return err
		}
		e.lastTime = currentTime
	}
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err)
		}
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			core.LogWarn(err.Error())
		}
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := e.renderer.Shutdown(); err != nil {
		return err
	}
	e.events.Shutdown()
	if e.platform != nil {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageUninitialized
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Events() *core.Events {
	return e.events
}

func (e *Engine) Metrics() *core.FrameMetrics {
	return e.metrics
}

func (e *Engine) Backend() renderer.Backend {
	return e.renderer.Backend()
}

func (e *Engine) IsRunning() bool {
	return e.isRunning
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT recieved, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	re, ok := context.Data.(*core.ResizeEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := re.Width, re.Height
	if width == e.width && height == e.height && !e.isSuspended {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if err := e.renderer.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError(err.Error())
		}
	}
	return true
}
