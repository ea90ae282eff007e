package platform

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/kalsengi/engine/containers"
	"github.com/spaghettifunk/kalsengi/engine/core"
)

// Number of window events buffered between two PollEvents calls.
const EVENT_QUEUE_SIZE = 256

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

type eventKind uint8

const (
	eventKey eventKind = iota
	eventResize
	eventClose
)

type windowEvent struct {
	kind    eventKind
	key     core.KeyCode
	pressed bool
	width   uint32
	height  uint32
}

// Platform owns the window and its OpenGL context. GLFW callbacks only
// queue events; PollEvents hands them to the input state and event bus.
type Platform struct {
	Window *glfw.Window

	events *core.Events
	input  *core.InputState
	queue  *containers.RingQueue[windowEvent]
}

func New(events *core.Events, input *core.InputState) *Platform {
	return &Platform{
		events: events,
		input:  input,
		queue:  containers.NewRingQueue[windowEvent](EVENT_QUEUE_SIZE),
	}
}

// Startup creates the window with an OpenGL 4.1 core context and makes the
// context current on the calling thread.
func (p *Platform) Startup(applicationName string, x, y, width, height uint32, vsync bool) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

// FramebufferSize is the drawable size in pixels, which differs from the
// window size on high density displays.
func (p *Platform) FramebufferSize() (uint32, uint32) {
	if p.Window == nil {
		return 0, 0
	}
	w, h := p.Window.GetFramebufferSize()
	return uint32(w), uint32(h)
}

func (p *Platform) SwapBuffers() {
	if p.Window != nil {
		p.Window.SwapBuffers()
	}
}

// PollEvents pumps the OS message loop and dispatches the queued events.
func (p *Platform) PollEvents() {
	glfw.PollEvents()
	p.dispatch()
}

func (p *Platform) ShouldClose() bool {
	return p.Window == nil || p.Window.ShouldClose()
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *Platform) push(ev windowEvent) {
	if err := p.queue.Enqueue(ev); err != nil {
		core.LogWarn("dropping window event: %s", err)
	}
}

func (p *Platform) dispatch() {
	for !p.queue.IsEmpty() {
		ev, err := p.queue.Dequeue()
		if err != nil {
			return
		}
		switch ev.kind {
		case eventKey:
			if p.input != nil {
				p.input.ProcessKey(ev.key, ev.pressed)
			}
		case eventResize:
			if p.events != nil {
				p.events.Fire(core.EventContext{
					Type: core.EVENT_CODE_RESIZED,
					Data: &core.ResizeEvent{Width: ev.width, Height: ev.height},
				})
			}
		case eventClose:
			if p.events != nil {
				p.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
			}
		}
	}
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// repeats do not change the key state
	if action == glfw.Repeat {
		return
	}
	code, ok := translateKey(key)
	if !ok {
		return
	}
	p.push(windowEvent{kind: eventKey, key: code, pressed: action == glfw.Press})
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.push(windowEvent{kind: eventResize, width: uint32(width), height: uint32(height)})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.push(windowEvent{kind: eventClose})
}

// GetAbsoluteTime returns seconds since GLFW was initialized.
func GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

var keyMap = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyF1:           core.KEY_F1,
	glfw.KeyF2:           core.KEY_F2,
	glfw.KeyF3:           core.KEY_F3,
	glfw.KeyF4:           core.KEY_F4,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
}

// translateKey maps a GLFW key to the engine's key codes.
func translateKey(key glfw.Key) (core.KeyCode, bool) {
	// GLFW letters share their ASCII values with ours
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return core.KeyCode(key), true
	}
	code, ok := keyMap[key]
	return code, ok
}
