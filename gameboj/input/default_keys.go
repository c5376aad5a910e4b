package input

import "github.com/valerio/go-gameboj/gameboj/input/action"

// DefaultKeyMap provides default key mappings that work across backends.
// Backends can use these mappings as a base and override/extend as needed.
var DefaultKeyMap = map[string]action.Action{
	// Game Boy controls
	"s":     action.GBButtonA,
	"a":     action.GBButtonB,
	"d":     action.GBButtonStart,
	"Space": action.GBButtonSelect,
	"Up":    action.GBDPadUp,
	"Down":  action.GBDPadDown,
	"Left":  action.GBDPadLeft,
	"Right": action.GBDPadRight,

	// Emulator controls
	"p":      action.EmulatorPauseToggle,
	"o":      action.EmulatorStepFrame,
	"F9":     action.EmulatorSnapshot,
	"F10":    action.EmulatorDebugToggle,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
