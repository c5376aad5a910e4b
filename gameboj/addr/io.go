package addr

// memory map
const (
	// BootROMStart is the first address shadowed by the boot ROM while it is mapped.
	BootROMStart uint16 = 0x0000
	// BootROMEnd is one past the last boot ROM address.
	BootROMEnd uint16 = 0x0100
	// BootROMSize is the size of the DMG boot image.
	BootROMSize = int(BootROMEnd - BootROMStart)

	// CartridgeROMEnd is one past the last address of the cartridge ROM window.
	CartridgeROMEnd uint16 = 0x8000

	// VRAMStart is the start of video RAM (tile data and tile maps).
	VRAMStart uint16 = 0x8000
	// VRAMEnd is one past the end of video RAM.
	VRAMEnd  uint16 = 0xA000
	VRAMSize        = int(VRAMEnd - VRAMStart)

	// ExternalRAMStart is the start of the cartridge RAM window.
	ExternalRAMStart uint16 = 0xA000
	// ExternalRAMEnd is one past the end of the cartridge RAM window.
	ExternalRAMEnd uint16 = 0xC000

	// WorkRAMStart is the start of the internal work RAM.
	WorkRAMStart uint16 = 0xC000
	// WorkRAMEnd is one past the end of work RAM.
	WorkRAMEnd  uint16 = 0xE000
	WorkRAMSize        = int(WorkRAMEnd - WorkRAMStart)

	// EchoRAMStart mirrors work RAM, backed by the same storage.
	EchoRAMStart uint16 = 0xE000
	// EchoRAMEnd is one past the end of the mirror, which is shorter than work RAM.
	EchoRAMEnd  uint16 = 0xFE00
	EchoRAMSize        = int(EchoRAMEnd - EchoRAMStart)

	// OAMStart is the start of OAM memory (40 sprites * 4 bytes each)
	OAMStart uint16 = 0xFE00
	// OAMEnd is one past the end of OAM memory.
	OAMEnd  uint16 = 0xFEA0
	OAMSize        = int(OAMEnd - OAMStart)

	// IOStart is the base of the high page addressed by LDH instructions.
	IOStart uint16 = 0xFF00

	// HRAMStart is the start of high RAM, owned by the CPU.
	HRAMStart uint16 = 0xFF80
	// HRAMEnd is one past the end of high RAM.
	HRAMEnd  uint16 = 0xFFFF
	HRAMSize        = int(HRAMEnd - HRAMStart)
)

// gpu registers
const (
	// LCD Control register.
	LCDC uint16 = 0xFF40
	// LCDC Status register.
	STAT uint16 = 0xFF41
	// Scroll Y (SCY) register.
	SCY uint16 = 0xFF42
	// Scroll X (SCX) register.
	SCX uint16 = 0xFF43
	// LCDC Y-Coordinate (readonly) register.
	LY uint16 = 0xFF44
	// LY Compare register.
	LYC uint16 = 0xFF45
	// DMA Transfer and Start register.
	DMA uint16 = 0xFF46
	// BG Palette register.
	BGP uint16 = 0xFF47
	// Object Palette 0 register.
	OBP0 uint16 = 0xFF48
	// Object Palette 1 register.
	OBP1 uint16 = 0xFF49
	// Window Y Position register.
	WY uint16 = 0xFF4A
	// Window X Position register.
	WX uint16 = 0xFF4B

	// LCDRegsStart and LCDRegsEnd bound the contiguous LCD register block.
	LCDRegsStart = LCDC
	LCDRegsEnd   = WX + 1
)

// tile data and tile maps
const (
	// TileData0 is the start of unsigned tile data (tiles 0-255)
	TileData0 uint16 = 0x8000
	// TileData1 is the start of signed tile data region (tiles -128 to -1)
	TileData1 uint16 = 0x8800
	// TileData2 is the continuation of signed tile data (tiles 0-127)
	TileData2 uint16 = 0x9000

	// TileMap0 is background/window tile map 0
	TileMap0 uint16 = 0x9800
	// TileMap1 is background/window tile map 1
	TileMap1 uint16 = 0x9C00
)

// interrupts
const (
	// IF is the address for the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the address for the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// joypad
const (
	// P1 is used to read the Joypad state.
	P1 uint16 = 0xFF00
)

// serial I/O
const (
	// SB (Serial transfer data, 0xFF01)
	SB uint16 = 0xFF01
	// SC (Serial transfer control, 0xFF02)
	//  - Bit 7 (Start): Writing 1 starts an 8-bit transfer; hardware clears to 0 when done.
	//  - Bit 0 (Clock): 1=internal clock, 0=external clock.
	SC uint16 = 0xFF02
)

// timers
const (
	// DIV is the divider register. Reads the top byte of the main counter, writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter register. Generates an interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo register. When TIMA overflows, this data will be loaded.
	TMA uint16 = 0xFF06
	// TAC is the timer control register. Used to start/stop and control the timer clock.
	TAC uint16 = 0xFF07
)

// BootROMDisable unmaps the boot ROM on any write.
const BootROMDisable uint16 = 0xFF50

// Interrupt identifies one of the five interrupt sources. The numeric value is
// the bit index in IE/IF; the ordering is also the servicing priority.
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the LCD enters vertical blank.
	VBlankInterrupt Interrupt = iota
	// LCDSTATInterrupt is fired based on one of the conditions in the STAT register.
	LCDSTATInterrupt
	// TimerInterrupt is fired when TIMA overflows.
	TimerInterrupt
	// SerialInterrupt is fired when a serial transfer has completed.
	SerialInterrupt
	// JoypadInterrupt is fired when the visible joypad register changes.
	JoypadInterrupt
)

// Interrupts lists every source in priority order.
var Interrupts = [...]Interrupt{
	VBlankInterrupt,
	LCDSTATInterrupt,
	TimerInterrupt,
	SerialInterrupt,
	JoypadInterrupt,
}

var interruptVectors = [...]uint16{
	VBlankInterrupt:  0x40,
	LCDSTATInterrupt: 0x48,
	TimerInterrupt:   0x50,
	SerialInterrupt:  0x58,
	JoypadInterrupt:  0x60,
}

var interruptNames = [...]string{
	VBlankInterrupt:  "VBLANK",
	LCDSTATInterrupt: "LCD_STAT",
	TimerInterrupt:   "TIMER",
	SerialInterrupt:  "SERIAL",
	JoypadInterrupt:  "JOYPAD",
}

// Mask returns the IE/IF bit for the interrupt.
func (i Interrupt) Mask() uint8 {
	return 1 << i
}

// Vector returns the address the CPU jumps to when servicing the interrupt.
func (i Interrupt) Vector() uint16 {
	return interruptVectors[i]
}

func (i Interrupt) String() string {
	if int(i) >= len(interruptNames) {
		return "UNKNOWN"
	}
	return interruptNames[i]
}

// RSTVector returns the fixed call target for RST n, n in [0, 7].
func RSTVector(n uint8) uint16 {
	if n > 7 {
		panic("addr: RST index out of range")
	}
	return uint16(n) * 8
}
