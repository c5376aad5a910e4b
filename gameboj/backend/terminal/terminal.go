// Package terminal renders the emulator in a terminal with tcell, two pixels
// per character cell, next to optional CPU and log panels.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-gameboj/gameboj/backend"
	"github.com/valerio/go-gameboj/gameboj/backend/terminal/render"
	"github.com/valerio/go-gameboj/gameboj/input"
	"github.com/valerio/go-gameboj/gameboj/input/action"
	"github.com/valerio/go-gameboj/gameboj/input/event"
	"github.com/valerio/go-gameboj/gameboj/video"
)

const (
	gameAreaWidth  = video.Width
	gameAreaHeight = video.Height / 2
	registerHeight = 10
	disasmHeight   = 9
	minTermWidth   = gameAreaWidth + 2
	minTermHeight  = gameAreaHeight + 2
	logCapacity    = 200
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals only report key presses, so a held key is one that keeps
// repeating.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	newScreen func() (tcell.Screen, error)
	now       func() time.Time

	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	prevLogger *slog.Logger

	config     backend.Config
	eventQueue []input.Event
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		newScreen: tcell.NewScreen,
		now:       time.Now,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.Config) error {
	t.config = config
	t.logLevel = config.LogLevel
	t.eventQueue = nil
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	screen, err := t.newScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	t.screen = screen

	// logging to stderr would tear the screen apart
	t.logBuffer = render.NewLogBuffer(logCapacity)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame video.Image) ([]input.Event, error) {
	now := t.now()

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.eventQueue = append(t.eventQueue, input.Event{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	events := t.joypadEvents(now)
	for _, evt := range t.eventQueue {
		slog.Debug("UI event", "action", evt.Action, "type", evt.Type)
	}
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	t.render(frame)
	t.screen.Show()

	return events, nil
}

// joypadEvents turns the tracked key timestamps into press, hold and
// release events.
func (t *Backend) joypadEvents(now time.Time) []input.Event {
	var events []input.Event
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}
		currentlyActive[act] = true
		if t.activeKeys[act] {
			events = append(events, input.Event{Action: act, Type: event.Hold})
		} else {
			slog.Debug("Key press", "action", act)
			events = append(events, input.Event{Action: act, Type: event.Press})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, input.Event{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	if act != action.EmulatorDebugToggle {
		return
	}
	t.config.ShowDebug = !t.config.ShowDebug
	if t.config.ShowDebug {
		slog.Info("Debug display enabled")
	} else {
		slog.Info("Debug display disabled")
	}
}

// Cleanup restores the terminal and the previous logger.
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
	}
	if t.screen != nil {
		t.screen.Fini()
		t.screen = nil
	}
	return nil
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
}

func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	}
	return tcellKeyNameMap[ev.Key()]
}

var dpad = []action.Action{action.GBDPadUp, action.GBDPadDown, action.GBDPadLeft, action.GBDPadRight}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := input.GetDefaultMapping(keyName(ev))
	if ev.Key() == tcell.KeyCtrlC {
		act, ok = action.EmulatorQuit, true
	}
	if !ok {
		return
	}

	if !act.IsGameBoy() {
		t.eventQueue = append(t.eventQueue, input.Event{Action: act, Type: event.Press})
		return
	}

	// a terminal reports one arrow at a time, so directions are exclusive
	for _, d := range dpad {
		if act == d {
			for _, other := range dpad {
				delete(t.keyStates, other)
			}
			break
		}
	}
	t.keyStates[act] = now
}
