package input

import (
	"time"

	"github.com/valerio/go-gameboj/gameboj/input/action"
	"github.com/valerio/go-gameboj/gameboj/input/event"
	"github.com/valerio/go-gameboj/gameboj/memory"
)

const (
	// debounceDuration is the minimum time between two presses of the same
	// emulator action
	debounceDuration = 300 * time.Millisecond
)

// Event is an action reported by a backend.
type Event struct {
	Action action.Action
	Type   event.Type
}

// Joypad receives the Game Boy button actions.
type Joypad interface {
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
}

var joypadKeys = map[action.Action]memory.JoypadKey{
	action.GBButtonA:      memory.JoypadA,
	action.GBButtonB:      memory.JoypadB,
	action.GBButtonStart:  memory.JoypadStart,
	action.GBButtonSelect: memory.JoypadSelect,
	action.GBDPadUp:       memory.JoypadUp,
	action.GBDPadDown:     memory.JoypadDown,
	action.GBDPadLeft:     memory.JoypadLeft,
	action.GBDPadRight:    memory.JoypadRight,
}

// Manager routes input actions: Game Boy buttons go straight to the joypad,
// everything else to the registered callbacks.
type Manager struct {
	handlers    map[action.Action]map[event.Type][]func()
	lastPressed map[action.Action]time.Time
	joypad      Joypad
	now         func() time.Time
}

func NewManager(j Joypad) *Manager {
	return &Manager{
		handlers:    make(map[action.Action]map[event.Type][]func()),
		lastPressed: make(map[action.Action]time.Time),
		joypad:      j,
		now:         time.Now,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Handle triggers every event in order.
func (m *Manager) Handle(events []Event) {
	for _, e := range events {
		m.Trigger(e.Action, e.Type)
	}
}

// Trigger handles the given action and event type. Repeated presses of
// emulator actions within debounceDuration are dropped; joypad buttons and
// other event types are never debounced.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if key, ok := joypadKeys[act]; ok {
		if m.joypad == nil {
			return
		}
		switch evt {
		case event.Press:
			m.joypad.Press(key)
		case event.Release:
			m.joypad.Release(key)
		}
		return
	}

	if evt == event.Press {
		now := m.now()
		if last, ok := m.lastPressed[act]; ok && now.Sub(last) < debounceDuration {
			return
		}
		m.lastPressed[act] = now
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
