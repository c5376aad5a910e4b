package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/urfave/cli"

	"github.com/valerio/go-gameboj/gameboj"
	"github.com/valerio/go-gameboj/gameboj/backend"
	"github.com/valerio/go-gameboj/gameboj/backend/headless"
	"github.com/valerio/go-gameboj/gameboj/backend/terminal"
	"github.com/valerio/go-gameboj/gameboj/memory"
	"github.com/valerio/go-gameboj/gameboj/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "Gameboj"
	app.Description = "A cycle driven Game Boy emulator"
	app.Usage = "gameboj [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (.gb, or a .gz, .zip or .7z archive holding one)",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a 256 byte DMG boot ROM, the machine starts in post-boot state without one",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory in headless mode, working directory otherwise)",
		},
		cli.IntFlag{
			Name:  "snapshot-scale",
			Usage: "Integer upscale factor of saved snapshots",
			Value: 1,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the CPU and disassembly panel in the terminal",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction (very slow, needs --log-level debug)",
		},
		cli.BoolFlag{
			Name:  "serial-timing",
			Usage: "Complete serial transfers after the hardware transfer time instead of at once",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Minimum log level: debug, info, warn or error",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "cpuprofile",
			Usage: "Write a CPU profile to this directory",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(handler))
	return l, nil
}

func runEmulator(c *cli.Context) error {
	logLevel, err := setupLogging(c.String("log-level"))
	if err != nil {
		return err
	}

	if dir := c.String("cpuprofile"); dir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir), profile.NoShutdownHook).Stop()
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	gb, err := newGameBoy(c, romPath)
	if err != nil {
		return err
	}

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	config := gameboj.RunnerConfig{
		Title:         romName,
		ShowDebug:     c.Bool("debug"),
		SnapshotDir:   c.String("snapshot-dir"),
		SnapshotScale: c.Int("snapshot-scale"),
		LogLevel:      logLevel,
	}

	var (
		b       backend.Backend
		limiter timing.Limiter
	)
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return errors.New("headless mode requires --frames option with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath, c.Int("snapshot-scale"))
		if err != nil {
			return err
		}
		b = headless.New(frames, snapshots)
		limiter = timing.NewNoOpLimiter()
	} else {
		b = terminal.New()
		limiter = timing.NewAdaptiveLimiter()
	}

	return gameboj.NewRunner(gb, b, limiter, config).Run()
}

func newGameBoy(c *cli.Context, romPath string) (*gameboj.GameBoy, error) {
	data, err := memory.LoadROM(romPath)
	if err != nil {
		return nil, err
	}
	cart, err := memory.NewCartridge(data)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge %s: %w", romPath, err)
	}

	var opts []gameboj.Option
	if path := c.String("boot-rom"); path != "" {
		boot, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading boot ROM: %w", err)
		}
		opts = append(opts, gameboj.WithBootROM(boot))
	}
	if c.Bool("trace") {
		opts = append(opts, gameboj.WithTracing())
	}
	if c.Bool("serial-timing") {
		opts = append(opts, gameboj.WithSerialTiming())
	}

	return gameboj.New(cart, opts...)
}
