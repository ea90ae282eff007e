package renderer

import (
	"fmt"

	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/engine/math"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	Headless
)

func (t RendererType) String() string {
	switch t {
	case Headless:
		return "headless"
	default:
		return "opengl"
	}
}

// ParseRendererType maps a config value to a RendererType.
func ParseRendererType(s string) (RendererType, error) {
	switch s {
	case "", "opengl", "gl":
		return OpenGL, nil
	case "headless":
		return Headless, nil
	}
	return OpenGL, fmt.Errorf("unknown renderer %q: %w", s, core.ErrUnknown)
}

// Renderer sequences a frame on top of a Backend.
type Renderer struct {
	backend Backend
	width   uint32
	height  uint32
}

func New(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Backend() Backend {
	return r.backend
}

func (r *Renderer) Initialize(appName string, appWidth, appHeight uint32) error {
	r.width, r.height = appWidth, appHeight
	return r.backend.Initialize(appName, appWidth, appHeight)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	r.width, r.height = width, height
	return r.backend.Resized(width, height)
}

// Size returns the last known framebuffer size.
func (r *Renderer) Size() (uint32, uint32) {
	return r.width, r.height
}

// DrawFrame clears the frame, runs draw and presents the result.
func (r *Renderer) DrawFrame(clearColor math.Vec3, draw func() error) error {
	if err := r.backend.BeginFrame(clearColor); err != nil {
		core.LogError(err.Error())
		return err
	}
	if draw != nil {
		if err := draw(); err != nil {
			core.LogError("render failed: %s", err)
			return err
		}
	}
	if err := r.backend.EndFrame(); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return nil
}
