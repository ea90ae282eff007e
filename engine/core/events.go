package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data is *KeyEvent.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data is *KeyEvent.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Resized/resolution changed from the OS. Data is *ResizeEvent.
	EVENT_CODE_RESIZED EventCode = 0x08
	// A watched asset changed on disk. Data is *AssetEvent.
	EVENT_CODE_ASSET_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type ResizeEvent struct {
	Width  uint32
	Height uint32
}

type AssetEvent struct {
	Path string
}

// Should return true if handled.
type FnOnEvent func(ctx EventContext) bool

// Events dispatches events synchronously to registered listeners in
// registration order. Registration may happen from any goroutine but
// handlers run on the goroutine calling Fire.
type Events struct {
	mu         sync.RWMutex
	registered map[EventCode][]FnOnEvent
}

func NewEvents() *Events {
	return &Events{registered: make(map[EventCode][]FnOnEvent)}
}

// Register listens for events with the provided code.
func (e *Events) Register(code EventCode, onEvent FnOnEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registered[code] = append(e.registered[code], onEvent)
}

// Fire sends the event to listeners of its code. If a handler returns true the
// event is considered handled and is not passed on to any more listeners.
func (e *Events) Fire(ctx EventContext) bool {
	e.mu.RLock()
	listeners := e.registered[ctx.Type]
	e.mu.RUnlock()
	for _, cb := range listeners {
		if cb(ctx) {
			return true
		}
	}
	return false
}

// Shutdown drops every listener.
func (e *Events) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registered = make(map[EventCode][]FnOnEvent)
}
