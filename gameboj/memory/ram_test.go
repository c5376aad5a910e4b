package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-gameboj/gameboj/addr"
)

func TestRAMController_window(t *testing.T) {
	c := NewRAMController(NewRAM(0x10), 0x100, 0x110)

	_, ok := c.Read(0x0FF)
	assert.False(t, ok)
	_, ok = c.Read(0x110)
	assert.False(t, ok)

	c.Write(0x105, 0x42)
	c.Write(0x110, 0x99) // ignored
	v, ok := c.Read(0x105)
	assert.True(t, ok)
	assert.Equal(t, uint8(0x42), v)
}

func TestRAMController_echoSharesStorage(t *testing.T) {
	work := NewRAM(addr.WorkRAMSize)
	main := NewRAMController(work, addr.WorkRAMStart, addr.WorkRAMEnd)
	echo := NewRAMController(work, addr.EchoRAMStart, addr.EchoRAMEnd)

	main.Write(0xC123, 0xAB)
	v, ok := echo.Read(0xE123)
	assert.True(t, ok)
	assert.Equal(t, uint8(0xAB), v)

	echo.Write(0xFDFF, 0xCD)
	v, _ = main.Read(0xDDFF)
	assert.Equal(t, uint8(0xCD), v)

	// the echo window stops short of the last 512 bytes of work RAM
	_, ok = echo.Read(0xFE00)
	assert.False(t, ok)
}

func TestRAMController_rejectsOversizedWindow(t *testing.T) {
	assert.Panics(t, func() { NewRAMController(NewRAM(4), 0, 5) })
	assert.Panics(t, func() { NewRAMController(NewRAM(4), 5, 4) })
}

func TestROM_copiesData(t *testing.T) {
	data := []uint8{1, 2, 3}
	rom := NewROM(data)
	data[0] = 9

	assert.Equal(t, 3, rom.Size())
	assert.Equal(t, uint8(1), rom.Read(0))
}
