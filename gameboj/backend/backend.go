package backend

import (
	"log/slog"

	"github.com/valerio/go-gameboj/gameboj/debug"
	"github.com/valerio/go-gameboj/gameboj/input"
	"github.com/valerio/go-gameboj/gameboj/input/action"
	"github.com/valerio/go-gameboj/gameboj/video"
)

// Backend represents a presentation platform (rendering + input).
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, PNG files, etc.)
// - Translating platform-specific input events to input.Events
// - Handling backend-specific features (debug panels, log views)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config Config) error

	// Update renders the frame and returns the input events collected since
	// the previous call.
	Update(frame video.Image) ([]input.Event, error)

	// HandleAction is called for emulator actions after the runner handled
	// them. Backends ignore the ones they don't support.
	HandleAction(act action.Action)

	// Cleanup resources when shutting down
	Cleanup() error
}

// DebugDataProvider returns the machine state for debug displays.
type DebugDataProvider func() *debug.Data

// Config holds configuration for backends
type Config struct {
	Title         string
	ShowDebug     bool // Backends may ignore unsupported features
	DebugProvider DebugDataProvider
	LogLevel      slog.Level // minimum level shown by backends that display logs
}
