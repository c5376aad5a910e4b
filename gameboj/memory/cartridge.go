package memory

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/bus"
)

const titleLength = 16

const (
	titleAddress          = 0x134
	cartridgeTypeAddress  = 0x147
	romSizeAddress        = 0x148
	ramSizeAddress        = 0x149
	versionNumberAddress  = 0x14C
	headerChecksumAddress = 0x14D
	globalChecksumAddress = 0x14E
	headerEnd             = 0x150
)

var (
	// ErrUnsupportedCartridge is returned for controller types other than
	// ROM only and MBC1.
	ErrUnsupportedCartridge = errors.New("unsupported cartridge type")
	// ErrInvalidROMSize is returned when the image size does not match what
	// the controller requires.
	ErrInvalidROMSize = errors.New("invalid ROM size")
)

// ramSizes maps the header RAM size code to external RAM bytes.
var ramSizes = [...]int{0, 2048, 8192, 32768}

// Header holds the cartridge metadata stored at 0x134-0x14F.
type Header struct {
	Title          string
	CartridgeType  uint8
	ROMSizeCode    uint8
	RAMSizeCode    uint8
	Version        uint8
	HeaderChecksum uint8
	GlobalChecksum uint16
}

// ParseHeader extracts the header from a ROM image.
func ParseHeader(data []uint8) (Header, error) {
	if len(data) < headerEnd {
		return Header{}, fmt.Errorf("%w: %d bytes is too short for a header", ErrInvalidROMSize, len(data))
	}
	return Header{
		Title:          cleanTitle(data[titleAddress : titleAddress+titleLength]),
		CartridgeType:  data[cartridgeTypeAddress],
		ROMSizeCode:    data[romSizeAddress],
		RAMSizeCode:    data[ramSizeAddress],
		Version:        data[versionNumberAddress],
		HeaderChecksum: data[headerChecksumAddress],
		GlobalChecksum: bit.Combine(data[globalChecksumAddress], data[globalChecksumAddress+1]),
	}, nil
}

// ComputedHeaderChecksum recomputes the checksum over 0x134-0x14C.
func ComputedHeaderChecksum(data []uint8) uint8 {
	var sum uint8
	for _, b := range data[titleAddress:headerChecksumAddress] {
		sum = sum - b - 1
	}
	return sum
}

// cleanTitle replaces NUL padding with spaces, non printable characters
// with '?', and trims the result.
func cleanTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))
	for _, b := range titleBytes {
		r := rune(b)
		if r == 0 {
			r = ' '
		} else if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}
	return title
}

// Cartridge is the bus component for the game pak. Reads and writes are
// delegated to its memory bank controller.
type Cartridge struct {
	Header Header
	mbc    bus.Component
}

// NewCartridge picks a memory bank controller from the header of data.
func NewCartridge(data []uint8) (*Cartridge, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	rom := NewROM(data)
	var mbc bus.Component
	switch header.CartridgeType {
	case 0x00:
		mbc, err = NewMBC0(rom)
	case 0x01, 0x02, 0x03:
		if int(header.RAMSizeCode) >= len(ramSizes) {
			return nil, fmt.Errorf("%w: MBC1 with RAM size code %#02x", ErrUnsupportedCartridge, header.RAMSizeCode)
		}
		mbc = NewMBC1(rom, ramSizes[header.RAMSizeCode])
	default:
		return nil, fmt.Errorf("%w: %#02x", ErrUnsupportedCartridge, header.CartridgeType)
	}
	if err != nil {
		return nil, err
	}

	if ComputedHeaderChecksum(data) != header.HeaderChecksum {
		slog.Warn("Cartridge header checksum mismatch", "title", header.Title)
	}
	slog.Info("Loaded cartridge",
		"title", header.Title,
		"type", fmt.Sprintf("%#02x", header.CartridgeType),
		"rom_bytes", len(data),
		"ram_code", header.RAMSizeCode)

	return &Cartridge{Header: header, mbc: mbc}, nil
}

func (c *Cartridge) Read(address uint16) (uint8, bool) {
	return c.mbc.Read(address)
}

func (c *Cartridge) Write(address uint16, value uint8) {
	c.mbc.Write(address, value)
}

// BootROMController shadows the start of the cartridge with the boot image
// until any value is written to the boot ROM disable register.
type BootROMController struct {
	cartridge bus.Component
	bootROM   *ROM
	active    bool
}

// NewBootROMController maps bootROM, which must be exactly 256 bytes, over
// the cartridge.
func NewBootROMController(cartridge bus.Component, bootROM []uint8) (*BootROMController, error) {
	if len(bootROM) != addr.BootROMSize {
		return nil, fmt.Errorf("boot ROM must be %d bytes, got %d", addr.BootROMSize, len(bootROM))
	}
	return &BootROMController{
		cartridge: cartridge,
		bootROM:   NewROM(bootROM),
		active:    true,
	}, nil
}

// Active reports whether the boot image is still mapped.
func (b *BootROMController) Active() bool {
	return b.active
}

func (b *BootROMController) Read(address uint16) (uint8, bool) {
	if b.active && address < addr.BootROMEnd {
		return b.bootROM.Read(int(address)), true
	}
	return b.cartridge.Read(address)
}

func (b *BootROMController) Write(address uint16, value uint8) {
	if address == addr.BootROMDisable && b.active {
		b.active = false
		slog.Debug("Boot ROM disabled")
	}
	b.cartridge.Write(address, value)
}
