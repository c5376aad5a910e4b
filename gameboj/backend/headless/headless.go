package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-gameboj/gameboj/backend"
	"github.com/valerio/go-gameboj/gameboj/debug"
	"github.com/valerio/go-gameboj/gameboj/input"
	"github.com/valerio/go-gameboj/gameboj/input/action"
	"github.com/valerio/go-gameboj/gameboj/input/event"
	"github.com/valerio/go-gameboj/gameboj/video"
)

// progressInterval is how often, in frames, progress is logged.
const progressInterval = 60

// Backend runs a fixed number of frames without any display, for automated
// testing and batch processing.
type Backend struct {
	config         backend.Config
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig

	lastHash     uint64
	repeated     int
	uniqueHashes map[uint64]struct{}
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
	Scale     int    // Integer upscale factor of the PNGs
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	if snapshotConfig.Scale < 1 {
		snapshotConfig.Scale = 1
	}
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
		uniqueHashes:   make(map[uint64]struct{}),
	}
}

func (h *Backend) Init(config backend.Config) error {
	if h.maxFrames <= 0 {
		return fmt.Errorf("headless mode needs a positive frame count, got %d", h.maxFrames)
	}
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)
	return nil
}

// Update fingerprints the frame, saves snapshots and asks to quit once the
// frame budget is spent.
func (h *Backend) Update(frame video.Image) ([]input.Event, error) {
	h.frameCount++
	h.trackHash(frame.Hash())

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%progressInterval == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames, "hash", fmt.Sprintf("%016x", h.lastHash))
	}

	if h.frameCount < h.maxFrames {
		return nil, nil
	}

	// Save final snapshot if enabled and we haven't just saved one
	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		h.saveSnapshot(frame)
	}

	slog.Info("Headless execution completed",
		"frames", h.frameCount,
		"final_hash", fmt.Sprintf("%016x", h.lastHash),
		"unique_frames", len(h.uniqueHashes),
		"png_snapshots_saved_to", h.snapshotConfig.Directory)

	return []input.Event{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

func (h *Backend) trackHash(hash uint64) {
	if h.frameCount > 1 && hash == h.lastHash {
		h.repeated++
	} else {
		if h.repeated > 0 {
			slog.Debug("Frame repeated", "hash", fmt.Sprintf("%016x", h.lastHash), "times", h.repeated)
		}
		h.repeated = 0
	}
	h.lastHash = hash
	h.uniqueHashes[hash] = struct{}{}
}

// FrameCount returns the number of frames received so far.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

// LastHash returns the hash of the last frame received.
func (h *Backend) LastHash() uint64 {
	return h.lastHash
}

// UniqueFrames returns how many distinct frames were received.
func (h *Backend) UniqueFrames() int {
	return len(h.uniqueHashes)
}

// HandleAction is a no-op, there is nobody pressing keys.
func (h *Backend) HandleAction(action.Action) {}

func (h *Backend) Cleanup() error {
	return nil
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string, scale int) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
		Scale:    scale,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "gameboj-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("creating snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, fmt.Errorf("creating snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

// saveSnapshot saves a PNG snapshot for the current frame
func (h *Backend) saveSnapshot(frame video.Image) {
	name := fmt.Sprintf("%s_frame_%d.png", h.snapshotConfig.ROMName, h.frameCount)

	if _, err := debug.SaveFramePNGAs(frame, name, h.snapshotConfig.Directory, h.snapshotConfig.Scale); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
	}
}
