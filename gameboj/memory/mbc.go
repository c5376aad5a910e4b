package memory

import (
	"fmt"

	"github.com/valerio/go-gameboj/gameboj/addr"
)

const (
	mbc0ROMSize = 0x8000
	romBankSize = 0x4000
	ramBankSize = 0x2000
)

// MBC0 represents cartridges with no memory banking capabilities. The 32KB
// image is mapped directly at 0x0000-0x7FFF and writes are ignored.
type MBC0 struct {
	rom *ROM
}

// NewMBC0 requires an image of exactly 32KB.
func NewMBC0(rom *ROM) (*MBC0, error) {
	if rom.Size() != mbc0ROMSize {
		return nil, fmt.Errorf("%w: ROM only cartridge must be %d bytes, got %d", ErrInvalidROMSize, mbc0ROMSize, rom.Size())
	}
	return &MBC0{rom: rom}, nil
}

func (m *MBC0) Read(address uint16) (uint8, bool) {
	if address >= addr.CartridgeROMEnd {
		return 0, false
	}
	return m.rom.Read(int(address)), true
}

func (m *MBC0) Write(address uint16, value uint8) {}

// MBC1 is the first and most common MBC chip. Features include:
//   - Bank 0 mapped to 0x0000-0x3FFF
//   - Switchable ROM bank at 0x4000-0x7FFF, bank 0 selects bank 1
//   - Optional RAM banking at 0xA000-0xBFFF, disabled until 0x0A is written
//     to 0x0000-0x1FFF
//   - Two banking modes: mode 0 routes 0x4000-0x5FFF writes to the upper ROM
//     bank bits, mode 1 routes them to the RAM bank
type MBC1 struct {
	rom         *ROM
	ram         *RAM
	romBank     uint8
	ramBank     uint8
	ramEnabled  bool
	bankingMode uint8
}

// NewMBC1 creates a controller with ramSize bytes of external RAM.
func NewMBC1(rom *ROM, ramSize int) *MBC1 {
	return &MBC1{
		rom:     rom,
		ram:     NewRAM(ramSize),
		romBank: 1,
	}
}

func (m *MBC1) Read(address uint16) (uint8, bool) {
	switch {
	case address < romBankSize:
		return m.rom.Read(int(address) % m.rom.Size()), true
	case address < addr.CartridgeROMEnd:
		offset := int(m.romBank)*romBankSize + int(address-romBankSize)
		return m.rom.Read(offset % m.rom.Size()), true
	case address >= addr.ExternalRAMStart && address < addr.ExternalRAMEnd:
		if !m.ramEnabled || m.ram.Size() == 0 {
			return 0xFF, true
		}
		return m.ram.Read(m.ramOffset(address)), true
	}
	return 0, false
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case address < 0x4000:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBank = (m.romBank & 0x60) | bank
	case address < 0x6000:
		if m.bankingMode == 0 {
			m.romBank = (m.romBank & 0x1F) | ((value & 0x03) << 5)
		} else {
			m.ramBank = value & 0x03
		}
	case address < 0x8000:
		m.bankingMode = value & 0x01
		if m.bankingMode == 1 {
			m.romBank &= 0x1F
		} else {
			m.ramBank = 0
		}
	case address >= addr.ExternalRAMStart && address < addr.ExternalRAMEnd:
		if !m.ramEnabled || m.ram.Size() == 0 {
			return
		}
		m.ram.Write(m.ramOffset(address), value)
	}
}

func (m *MBC1) ramOffset(address uint16) int {
	offset := int(m.ramBank)*ramBankSize + int(address-addr.ExternalRAMStart)
	return offset % m.ram.Size()
}
