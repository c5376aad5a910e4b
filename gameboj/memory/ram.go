package memory

import "fmt"

// RAM is a plain byte store addressed from zero.
type RAM struct {
	data []uint8
}

func NewRAM(size int) *RAM {
	if size < 0 {
		panic(fmt.Sprintf("memory: negative RAM size %d", size))
	}
	return &RAM{data: make([]uint8, size)}
}

func (r *RAM) Size() int {
	return len(r.data)
}

func (r *RAM) Read(index int) uint8 {
	return r.data[index]
}

func (r *RAM) Write(index int, value uint8) {
	r.data[index] = value
}

// ROM is a read-only byte store addressed from zero.
type ROM struct {
	data []uint8
}

// NewROM copies data into a new ROM.
func NewROM(data []uint8) *ROM {
	rom := &ROM{data: make([]uint8, len(data))}
	copy(rom.data, data)
	return rom
}

func (r *ROM) Size() int {
	return len(r.data)
}

func (r *ROM) Read(index int) uint8 {
	return r.data[index]
}

// RAMController maps a RAM into [start, end) of the address space. Several
// controllers may share one RAM, each one being a window over the same
// storage; work RAM and its echo are built this way.
type RAMController struct {
	ram        *RAM
	start, end uint16
}

// NewRAMController maps ram at [start, end). The window may be shorter than
// the RAM but never longer.
func NewRAMController(ram *RAM, start, end uint16) *RAMController {
	if end < start || int(end-start) > ram.Size() {
		panic(fmt.Sprintf("memory: invalid RAM window [%04X, %04X) for %d bytes", start, end, ram.Size()))
	}
	return &RAMController{ram: ram, start: start, end: end}
}

func (c *RAMController) Read(address uint16) (uint8, bool) {
	if address < c.start || address >= c.end {
		return 0, false
	}
	return c.ram.Read(int(address - c.start)), true
}

func (c *RAMController) Write(address uint16, value uint8) {
	if address < c.start || address >= c.end {
		return
	}
	c.ram.Write(int(address-c.start), value)
}
