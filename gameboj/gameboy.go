// Package gameboj wires the emulated components of a DMG together and drives
// them from a single cycle counter.
package gameboj

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bus"
	"github.com/valerio/go-gameboj/gameboj/cpu"
	"github.com/valerio/go-gameboj/gameboj/debug"
	"github.com/valerio/go-gameboj/gameboj/memory"
	"github.com/valerio/go-gameboj/gameboj/video"
)

const (
	// CyclesPerSecond is the machine cycle rate (4194304 Hz clock / 4).
	CyclesPerSecond = 1 << 20
	// CyclesPerFrame is the length of one LCD frame.
	CyclesPerFrame = video.FrameCycles

	disassemblyLines = 16
)

type config struct {
	bootROM      []uint8
	serialTiming bool
	tracing      bool
}

// Option configures a GameBoy.
type Option func(*config)

// WithBootROM maps a 256 byte boot image over the cartridge and starts
// execution from it.
func WithBootROM(data []uint8) Option {
	return func(c *config) { c.bootROM = data }
}

// WithSerialTiming makes serial transfers take as long as on hardware
// instead of completing at once.
func WithSerialTiming() Option {
	return func(c *config) { c.serialTiming = true }
}

// WithTracing logs every executed instruction at debug level.
func WithTracing() Option {
	return func(c *config) { c.tracing = true }
}

// GameBoy owns the bus and every component attached to it.
type GameBoy struct {
	bus    *bus.Bus
	cpu    *cpu.CPU
	lcd    *video.LCDController
	timer  *memory.Timer
	joypad *memory.Joypad
	serial *memory.SerialLogSink

	clocked []bus.Clocked
	cycles  uint64
}

// New builds a machine around cartridge. Without a boot ROM the machine
// starts in the state the boot ROM leaves behind.
func New(cartridge bus.Component, opts ...Option) (*GameBoy, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var cpuOpts []cpu.Option
	if cfg.tracing {
		cpuOpts = append(cpuOpts, cpu.WithTracing())
	}
	var serialOpts []memory.SerialOption
	if cfg.serialTiming {
		serialOpts = append(serialOpts, memory.WithSerialTiming())
	}

	g := &GameBoy{
		bus: bus.New(),
		cpu: cpu.New(cpuOpts...),
	}
	g.lcd = video.NewLCDController(g.cpu)
	g.timer = memory.NewTimer(g.cpu)
	g.joypad = memory.NewJoypad(g.cpu)
	g.serial = memory.NewSerialLogSink(g.cpu, serialOpts...)

	workRAM := memory.NewRAM(addr.WorkRAMSize)
	g.bus.Attach(memory.NewRAMController(workRAM, addr.WorkRAMStart, addr.WorkRAMEnd))
	g.bus.Attach(memory.NewRAMController(workRAM, addr.EchoRAMStart, addr.EchoRAMEnd))
	g.cpu.AttachTo(g.bus)
	g.lcd.AttachTo(g.bus)

	if cfg.bootROM != nil {
		boot, err := memory.NewBootROMController(cartridge, cfg.bootROM)
		if err != nil {
			return nil, fmt.Errorf("mapping boot ROM: %w", err)
		}
		g.bus.Attach(boot)
	} else {
		g.bus.Attach(cartridge)
	}

	g.bus.Attach(g.timer)
	g.bus.Attach(g.joypad)
	g.bus.Attach(g.serial)

	g.clocked = []bus.Clocked{g.timer, g.lcd, g.cpu, g.serial}

	if cfg.bootROM == nil {
		g.skipBoot()
	}
	return g, nil
}

func (g *GameBoy) skipBoot() {
	g.cpu.SkipBoot()
	g.bus.Write(addr.LCDC, 0x91)
	g.bus.Write(addr.BGP, 0xFC)
	g.bus.Write(addr.OBP0, 0xFF)
	g.bus.Write(addr.OBP1, 0xFF)
	slog.Debug("Boot ROM skipped", "pc", fmt.Sprintf("%#04x", g.cpu.State().PC))
}

// RunUntil advances every clocked component up to, but not including,
// cycle. Going backwards panics.
func (g *GameBoy) RunUntil(cycle uint64) {
	if cycle < g.cycles {
		panic(fmt.Sprintf("gameboj: cannot run backwards from cycle %d to %d", g.cycles, cycle))
	}
	for g.cycles < cycle {
		for _, c := range g.clocked {
			c.Cycle(g.cycles)
		}
		g.cycles++
	}
}

// RunFrames advances by n frames worth of cycles. A negative n panics.
func (g *GameBoy) RunFrames(n int) {
	if n < 0 {
		panic(fmt.Sprintf("gameboj: cannot run a negative number of frames (%d)", n))
	}
	g.RunUntil(g.cycles + uint64(n)*CyclesPerFrame)
}

// Cycles returns the next cycle to be executed.
func (g *GameBoy) Cycles() uint64 {
	return g.cycles
}

// CurrentImage returns the last frame completed by the LCD.
func (g *GameBoy) CurrentImage() video.Image {
	return g.lcd.CurrentImage()
}

func (g *GameBoy) Bus() *bus.Bus                 { return g.bus }
func (g *GameBoy) CPU() *cpu.CPU                 { return g.cpu }
func (g *GameBoy) LCD() *video.LCDController     { return g.lcd }
func (g *GameBoy) Joypad() *memory.Joypad        { return g.joypad }
func (g *GameBoy) Serial() *memory.SerialLogSink { return g.serial }

// DebugData snapshots the CPU and LCD state and disassembles the code at PC.
func (g *GameBoy) DebugData() *debug.Data {
	state := g.cpu.State()
	return &debug.Data{
		CPU:         state,
		Halted:      g.cpu.Halted(),
		Cycles:      g.cycles,
		Frames:      g.lcd.Frames(),
		Mode:        g.lcd.Mode(),
		LY:          g.lcd.LY(),
		Disassembly: debug.Disassemble(g.bus.Read, state.PC, disassemblyLines),
	}
}
