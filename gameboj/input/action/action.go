package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Game Boy hardware controls
	GBButtonA Action = iota
	GBButtonB
	GBButtonStart
	GBButtonSelect
	GBDPadUp
	GBDPadDown
	GBDPadLeft
	GBDPadRight

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorQuit

	actionCount
)

var names = [actionCount]string{
	GBButtonA:           "A",
	GBButtonB:           "B",
	GBButtonStart:       "Start",
	GBButtonSelect:      "Select",
	GBDPadUp:            "Up",
	GBDPadDown:          "Down",
	GBDPadLeft:          "Left",
	GBDPadRight:         "Right",
	EmulatorDebugToggle: "Toggle debug panel",
	EmulatorSnapshot:    "Snapshot",
	EmulatorPauseToggle: "Pause/resume",
	EmulatorStepFrame:   "Step frame",
	EmulatorQuit:        "Quit",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "Unknown"
	}
	return names[a]
}

// IsGameBoy reports whether a is a button of the emulated joypad.
func (a Action) IsGameBoy() bool {
	return a >= GBButtonA && a <= GBDPadRight
}
