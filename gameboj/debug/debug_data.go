package debug

import (
	"github.com/valerio/go-gameboj/gameboj/cpu"
	"github.com/valerio/go-gameboj/gameboj/video"
)

// Data contains the machine state shown by debug displays.
type Data struct {
	CPU         cpu.State
	Halted      bool
	Cycles      uint64
	Frames      uint64
	Mode        video.Mode
	LY          uint8
	Disassembly []DisasmLine
	State       DebuggerState
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepFrame:
		return "step"
	}
	return "unknown"
}
