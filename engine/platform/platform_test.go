package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/kalsengi/engine/core"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		key  glfw.Key
		want core.KeyCode
		ok   bool
	}{
		{glfw.KeyA, core.KEY_A, true},
		{glfw.KeyW, core.KEY_W, true},
		{glfw.KeyZ, core.KEY_Z, true},
		{glfw.KeyEscape, core.KEY_ESCAPE, true},
		{glfw.KeyLeftControl, core.KEY_LCONTROL, true},
		{glfw.KeyF12, 0, false},
	}
	for _, tt := range tests {
		got, ok := translateKey(tt.key)
		if ok != tt.ok || got != tt.want {
			t.Errorf("key %d: got %v %v, want %v %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDispatchDrainsQueue(t *testing.T) {
	events := core.NewEvents()
	input := core.NewInputState(events)
	p := New(events, input)

	var pressed []core.KeyCode
	var resized *core.ResizeEvent
	quit := false
	events.Register(core.EVENT_CODE_KEY_PRESSED, func(ctx core.EventContext) bool {
		pressed = append(pressed, ctx.Data.(*core.KeyEvent).KeyCode)
		return false
	})
	events.Register(core.EVENT_CODE_RESIZED, func(ctx core.EventContext) bool {
		resized = ctx.Data.(*core.ResizeEvent)
		return true
	})
	events.Register(core.EVENT_CODE_APPLICATION_QUIT, func(ctx core.EventContext) bool {
		quit = true
		return true
	})

	p.keyCallback(nil, glfw.KeyW, 0, glfw.Press, 0)
	p.keyCallback(nil, glfw.KeyW, 0, glfw.Repeat, 0)
	p.keyCallback(nil, glfw.KeyA, 0, glfw.Press, 0)
	p.keyCallback(nil, glfw.KeyA, 0, glfw.Release, 0)
	p.framebufferSizeCallback(nil, 800, 600)
	p.closeCallback(nil)

	if input.IsKeyDown(core.KEY_W) {
		t.Fatal("events must not apply before dispatch")
	}
	p.dispatch()

	if !input.IsKeyDown(core.KEY_W) || input.IsKeyDown(core.KEY_A) {
		t.Fatal("key state not applied in order")
	}
	if len(pressed) != 2 || pressed[0] != core.KEY_W || pressed[1] != core.KEY_A {
		t.Fatalf("pressed events: %v", pressed)
	}
	if resized == nil || resized.Width != 800 || resized.Height != 600 {
		t.Fatalf("resize event: %+v", resized)
	}
	if !quit {
		t.Fatal("close did not request quit")
	}
	if !p.queue.IsEmpty() {
		t.Fatal("queue not drained")
	}
}
