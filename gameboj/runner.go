package gameboj

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-gameboj/gameboj/backend"
	"github.com/valerio/go-gameboj/gameboj/debug"
	"github.com/valerio/go-gameboj/gameboj/input"
	"github.com/valerio/go-gameboj/gameboj/input/action"
	"github.com/valerio/go-gameboj/gameboj/input/event"
	"github.com/valerio/go-gameboj/gameboj/timing"
)

// RunnerConfig configures the frame loop.
type RunnerConfig struct {
	Title         string
	ShowDebug     bool
	SnapshotDir   string // snapshots go to the working directory when empty
	SnapshotScale int
	LogLevel      slog.Level
}

// Runner drives a GameBoy one frame at a time, presenting each frame on a
// backend and feeding the backend's input back into the machine.
type Runner struct {
	gb      *GameBoy
	backend backend.Backend
	limiter timing.Limiter
	input   *input.Manager
	config  RunnerConfig

	state   debug.DebuggerState
	running bool
}

func NewRunner(gb *GameBoy, b backend.Backend, limiter timing.Limiter, config RunnerConfig) *Runner {
	if config.SnapshotScale < 1 {
		config.SnapshotScale = 1
	}
	r := &Runner{
		gb:      gb,
		backend: b,
		limiter: limiter,
		input:   input.NewManager(gb.Joypad()),
		config:  config,
	}

	r.input.On(action.EmulatorQuit, event.Press, func() { r.running = false })
	r.input.On(action.EmulatorPauseToggle, event.Press, r.togglePause)
	r.input.On(action.EmulatorStepFrame, event.Press, r.stepFrame)
	r.input.On(action.EmulatorSnapshot, event.Press, r.snapshot)
	for _, act := range []action.Action{
		action.EmulatorDebugToggle, action.EmulatorSnapshot, action.EmulatorPauseToggle,
		action.EmulatorStepFrame, action.EmulatorQuit,
	} {
		act := act // per-iteration copy; go directive is 1.21 (pre-loopvar semantics)
		r.input.On(act, event.Press, func() { r.backend.HandleAction(act) })
	}
	return r
}

// Run loops until the backend asks to quit or fails.
func (r *Runner) Run() error {
	err := r.backend.Init(backend.Config{
		Title:         r.config.Title,
		ShowDebug:     r.config.ShowDebug,
		DebugProvider: r.debugData,
		LogLevel:      r.config.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer func() {
		if err := r.backend.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	r.running = true
	for r.running {
		if r.state != debug.DebuggerPaused {
			r.gb.RunFrames(1)
			if r.state == debug.DebuggerStepFrame {
				r.state = debug.DebuggerPaused
			}
		}

		events, err := r.backend.Update(r.gb.CurrentImage())
		if err != nil {
			return fmt.Errorf("updating backend: %w", err)
		}
		r.input.Handle(events)

		r.limiter.WaitForNextFrame()
	}
	slog.Info("Emulation stopped", "cycles", r.gb.Cycles(), "frames", r.gb.LCD().Frames())
	return nil
}

// State returns whether the loop is running, paused or stepping.
func (r *Runner) State() debug.DebuggerState {
	return r.state
}

func (r *Runner) debugData() *debug.Data {
	data := r.gb.DebugData()
	data.State = r.state
	return data
}

func (r *Runner) togglePause() {
	if r.state == debug.DebuggerRunning {
		r.state = debug.DebuggerPaused
		slog.Info("Paused", "cycle", r.gb.Cycles())
		return
	}
	r.state = debug.DebuggerRunning
	r.limiter.Reset()
	slog.Info("Resumed")
}

func (r *Runner) stepFrame() {
	if r.state != debug.DebuggerPaused {
		return
	}
	r.state = debug.DebuggerStepFrame
}

func (r *Runner) snapshot() {
	_, err := debug.SaveFramePNG(r.gb.CurrentImage(), "gameboj_snapshot", r.config.SnapshotDir, r.config.SnapshotScale)
	if err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}
