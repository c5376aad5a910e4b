// Package video implements the LCD controller and the bit plane image model
// it renders into.
package video

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/bus"
	"github.com/valerio/go-gameboj/gameboj/memory"
	"github.com/valerio/go-gameboj/gameboj/register"
)

// Mode is the LCD phase reported in STAT bits 0-1.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Transfer
)

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OAMScan:
		return "OAMScan"
	case Transfer:
		return "Transfer"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// mode lengths in machine cycles
const (
	oamScanCycles  = 20
	transferCycles = 43
	hblankCycles   = 51
	lineCycles     = oamScanCycles + transferCycles + hblankCycles

	vblankLines = 10
	lastLine    = Height + vblankLines - 1

	// FrameCycles is the length of one full frame.
	FrameCycles = lineCycles * (Height + vblankLines)
)

const never = math.MaxUint64

// LCDC bits
const (
	lcdcBG         = 0
	lcdcOBJ        = 1
	lcdcOBJSize    = 2
	lcdcBGArea     = 3
	lcdcTileSource = 4
	lcdcWindow     = 5
	lcdcWindowArea = 6
	lcdcEnable     = 7
)

// STAT bits above the two mode bits
const (
	statLYCMatch   = 2
	statIntHBlank  = 3
	statIntVBlank  = 4
	statIntOAMScan = 5
	statIntLYC     = 6
)

type lcdReg uint8

const (
	regLCDC lcdReg = iota
	regSTAT
	regSCY
	regSCX
	regLY
	regLYC
	regDMA
	regBGP
	regOBP0
	regOBP1
	regWY
	regWX
)

var allLCDRegs = []lcdReg{regLCDC, regSTAT, regSCY, regSCX, regLY, regLYC, regDMA, regBGP, regOBP0, regOBP1, regWY, regWX}

var lcdRegTable = [...]struct {
	address uint16
	name    string
}{
	regLCDC: {addr.LCDC, "LCDC"},
	regSTAT: {addr.STAT, "STAT"},
	regSCY:  {addr.SCY, "SCY"},
	regSCX:  {addr.SCX, "SCX"},
	regLY:   {addr.LY, "LY"},
	regLYC:  {addr.LYC, "LYC"},
	regDMA:  {addr.DMA, "DMA"},
	regBGP:  {addr.BGP, "BGP"},
	regOBP0: {addr.OBP0, "OBP0"},
	regOBP1: {addr.OBP1, "OBP1"},
	regWY:   {addr.WY, "WY"},
	regWX:   {addr.WX, "WX"},
}

// Index is the register's offset from the start of the LCD register block.
func (r lcdReg) Index() int {
	if int(r) >= len(lcdRegTable) {
		return -1
	}
	return int(lcdRegTable[r].address - addr.LCDRegsStart)
}

func (r lcdReg) String() string {
	if int(r) >= len(lcdRegTable) {
		return fmt.Sprintf("lcdReg(%d)", uint8(r))
	}
	return lcdRegTable[r].name
}

func lcdRegAt(address uint16) (lcdReg, bool) {
	for _, r := range allLCDRegs {
		if lcdRegTable[r].address == address {
			return r, true
		}
	}
	return 0, false
}

// LCDController owns video RAM, OAM and the LCD registers. It steps through
// the scanline modes, renders one line each time pixel transfer ends and
// publishes a finished Image at the start of vertical blank.
type LCDController struct {
	irq  bus.InterruptRequester
	bus  *bus.Bus
	regs *register.File[lcdReg]
	vram *memory.RAM
	oam  *memory.RAM

	nextNonIdleCycle uint64
	winY             int

	dmaActive bool
	dmaIndex  int

	builder *ImageBuilder
	image   Image
	frames  uint64
}

func NewLCDController(irq bus.InterruptRequester) *LCDController {
	return &LCDController{
		irq:              irq,
		regs:             register.NewFile(allLCDRegs),
		vram:             memory.NewRAM(addr.VRAMSize),
		oam:              memory.NewRAM(addr.OAMSize),
		nextNonIdleCycle: never,
		image:            NewBlankImage(Width, Height),
	}
}

// AttachTo maps the controller on b and lets OAM DMA read through it.
func (l *LCDController) AttachTo(b *bus.Bus) {
	l.bus = b
	b.Attach(l)
}

// CurrentImage returns the last completed frame, or a blank image before the
// first one.
func (l *LCDController) CurrentImage() Image {
	return l.image
}

// Frames counts completed frames.
func (l *LCDController) Frames() uint64 {
	return l.frames
}

func (l *LCDController) Mode() Mode {
	return Mode(l.regs.Get(regSTAT) & 0b11)
}

func (l *LCDController) LY() uint8 {
	return l.regs.Get(regLY)
}

func (l *LCDController) enabled() bool {
	return l.regs.TestBit(regLCDC, lcdcEnable)
}

func (l *LCDController) Read(address uint16) (uint8, bool) {
	switch {
	case address >= addr.VRAMStart && address < addr.VRAMEnd:
		return l.vram.Read(int(address - addr.VRAMStart)), true
	case address >= addr.OAMStart && address < addr.OAMEnd:
		return l.oam.Read(int(address - addr.OAMStart)), true
	}
	if r, ok := lcdRegAt(address); ok {
		return l.regs.Get(r), true
	}
	return 0, false
}

func (l *LCDController) Write(address uint16, value uint8) {
	switch {
	case address >= addr.VRAMStart && address < addr.VRAMEnd:
		l.vram.Write(int(address-addr.VRAMStart), value)
		return
	case address >= addr.OAMStart && address < addr.OAMEnd:
		l.oam.Write(int(address-addr.OAMStart), value)
		return
	}

	r, ok := lcdRegAt(address)
	if !ok {
		return
	}
	switch r {
	case regLCDC:
		if !bit.IsSet(lcdcEnable, value) && l.enabled() {
			l.changeMode(HBlank)
			l.setLYOrLYC(regLY, 0)
			l.nextNonIdleCycle = never
			slog.Debug("LCD off")
		}
		l.regs.Set(regLCDC, value)
	case regSTAT:
		l.regs.Set(regSTAT, value&0xF8|l.regs.Get(regSTAT)&0x07)
	case regLY:
		// read only
	case regLYC:
		l.setLYOrLYC(regLYC, value)
	case regDMA:
		l.regs.Set(regDMA, value)
		l.dmaActive = true
		l.dmaIndex = 0
	default:
		l.regs.Set(r, value)
	}
}

// Cycle advances the OAM DMA copy by one byte, powers the screen on when
// LCDC bit 7 was set and handles the mode change due at this cycle.
func (l *LCDController) Cycle(cycle uint64) {
	if l.dmaActive {
		l.stepDMA()
	}

	if l.nextNonIdleCycle == never && l.enabled() {
		l.changeMode(OAMScan)
		// the power-on cycle counts as the first cycle of the scan
		l.nextNonIdleCycle = cycle + oamScanCycles - 1
		slog.Debug("LCD on", "cycle", cycle)
	}

	if l.nextNonIdleCycle == cycle {
		l.step()
	}
}

func (l *LCDController) stepDMA() {
	if l.bus == nil {
		panic("video: OAM DMA started on a controller that is not attached to a bus")
	}
	source := uint16(l.regs.Get(regDMA))<<8 + uint16(l.dmaIndex)
	l.oam.Write(l.dmaIndex, l.bus.Read(source))
	l.dmaIndex++
	if l.dmaIndex == addr.OAMSize {
		l.dmaActive = false
		l.dmaIndex = 0
	}
}

// step performs the work attached to the end of the current mode, then
// moves to the next one.
func (l *LCDController) step() {
	ly := l.regs.Get(regLY)

	switch mode := l.Mode(); {
	case mode == OAMScan && ly == 0:
		l.builder = NewImageBuilder(Width, Height)
	case mode == VBlank && ly == Height:
		l.image = l.builder.Build()
		l.builder = nil
		l.frames++
		l.winY = 0
	case mode == Transfer:
		l.builder.SetLine(int(ly), l.computeLine(ly))
	}

	l.nextMode(ly)
}

func (l *LCDController) nextMode(ly uint8) {
	switch l.Mode() {
	case OAMScan:
		l.changeMode(Transfer)
		l.nextNonIdleCycle += transferCycles
	case Transfer:
		l.changeMode(HBlank)
		l.nextNonIdleCycle += hblankCycles
	case HBlank:
		if ly < Height-1 {
			l.changeMode(OAMScan)
			l.nextNonIdleCycle += oamScanCycles
		} else {
			l.changeMode(VBlank)
			l.nextNonIdleCycle += lineCycles
		}
		l.setLYOrLYC(regLY, ly+1)
	case VBlank:
		if ly < lastLine {
			l.nextNonIdleCycle += lineCycles
			l.setLYOrLYC(regLY, ly+1)
		} else {
			l.changeMode(OAMScan)
			l.nextNonIdleCycle += oamScanCycles
			l.setLYOrLYC(regLY, 0)
		}
	}
}

func (l *LCDController) setLYOrLYC(r lcdReg, value uint8) {
	l.regs.Set(r, value)
	match := l.regs.Get(regLY) == l.regs.Get(regLYC)
	l.regs.SetBit(regSTAT, statLYCMatch, match)
	if match && l.regs.TestBit(regSTAT, statIntLYC) && l.enabled() {
		l.irq.RequestInterrupt(addr.LCDSTATInterrupt)
	}
}

func (l *LCDController) changeMode(m Mode) {
	l.regs.Set(regSTAT, l.regs.Get(regSTAT)&^0b11|uint8(m))
	if m <= OAMScan && l.regs.TestBit(regSTAT, statIntHBlank+uint8(m)) && l.enabled() {
		l.irq.RequestInterrupt(addr.LCDSTATInterrupt)
	}
	if m == VBlank {
		l.irq.RequestInterrupt(addr.VBlankInterrupt)
	}
}

func (l *LCDController) computeLine(ly uint8) Line {
	lcdc := l.regs.Get(regLCDC)
	bgp := l.regs.Get(regBGP)
	unsignedTiles := bit.IsSet(lcdcTileSource, lcdc)

	line := NewEmptyLine(Width)

	if bit.IsSet(lcdcBG, lcdc) {
		bg := l.tileLine(tileMapArea(lcdc, lcdcBGArea), int(ly)+int(l.regs.Get(regSCY)), unsignedTiles)
		line = bg.MapColors(bgp).ExtractWrapped(int(l.regs.Get(regSCX)), Width)
	}

	wx := int(l.regs.Get(regWX)) - 7
	if bit.IsSet(lcdcWindow, lcdc) && wx < Width && l.regs.Get(regWY) <= ly {
		wx = max(wx, 0)
		win := l.tileLine(tileMapArea(lcdc, lcdcWindowArea), l.winY, unsignedTiles).
			MapColors(bgp).
			ExtractWrapped(0, Width).
			Shift(wx)
		l.winY++
		line = line.Join(win, wx)
	}

	if bit.IsSet(lcdcOBJ, lcdc) {
		behind, front := NewEmptyLine(Width), NewEmptyLine(Width)
		for _, s := range spritesOnLine(l.oam, int(ly), l.spriteHeight()) {
			sl := l.spriteLine(s, int(ly))
			if s.BehindBG {
				behind = sl.Below(behind)
			} else {
				front = sl.Below(front)
			}
		}
		line = line.BelowWith(behind, behind.Opacity().And(line.Opacity().Not())).Below(front)
	}

	return line
}

func tileMapArea(lcdc uint8, areaBit uint8) uint16 {
	if bit.IsSet(areaBit, lcdc) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// tileLine samples row index (mod 256) of the 256x256 bitmap described by
// the tile map at area.
func (l *LCDController) tileLine(area uint16, index int, unsignedTiles bool) Line {
	row := index % 256
	tileRow, rowInTile := row/8, row%8

	b := NewLineBuilder(256)
	for x := 0; x < 32; x++ {
		code := l.vramAt(area + uint16(tileRow*32+x))
		address := tileDataAddress(code, unsignedTiles) + uint16(rowInTile*2)
		lsb, msb := l.vramAt(address), l.vramAt(address+1)
		b.SetBytes(x, bit.Reverse8(msb), bit.Reverse8(lsb))
	}
	return b.Build()
}

// tileDataAddress resolves a tile code. In the 0x8800 addressing mode codes
// below 0x80 live at 0x9000.
func tileDataAddress(code uint8, unsignedTiles bool) uint16 {
	if unsignedTiles || code >= 0x80 {
		return addr.TileData0 + uint16(code)*16
	}
	return addr.TileData2 + uint16(code)*16
}

func (l *LCDController) spriteHeight() int {
	if l.regs.TestBit(regLCDC, lcdcOBJSize) {
		return 16
	}
	return 8
}

func (l *LCDController) spriteLine(s Sprite, ly int) Line {
	height := l.spriteHeight()
	row := ly - s.Top()
	if s.FlipY {
		row = height - 1 - row
	}
	tile := s.TileIndex
	if height == 16 {
		tile &^= 1
	}

	address := addr.TileData0 + uint16(tile)*16 + uint16(row*2)
	lsb, msb := l.vramAt(address), l.vramAt(address+1)
	if !s.FlipX {
		lsb, msb = bit.Reverse8(lsb), bit.Reverse8(msb)
	}

	palette := l.regs.Get(regOBP0)
	if s.PaletteOBP1 {
		palette = l.regs.Get(regOBP1)
	}

	return NewLineBuilder(Width).
		SetBytes(0, msb, lsb).
		Build().
		Shift(s.Left()).
		MapColors(palette)
}

func (l *LCDController) vramAt(address uint16) uint8 {
	return l.vram.Read(int(address - addr.VRAMStart))
}
