package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bus"
	"github.com/valerio/go-gameboj/gameboj/memory"
)

// newTestCPU attaches a CPU and a flat RAM covering the whole address space
// below IE, with program loaded at address 0.
func newTestCPU(program ...uint8) (*CPU, *memory.RAM) {
	b := bus.New()
	c := New()
	c.AttachTo(b)

	ram := memory.NewRAM(0xFFFF)
	b.Attach(memory.NewRAMController(ram, 0x0000, 0xFFFF))
	for i, v := range program {
		ram.Write(i, v)
	}
	return c, ram
}

func load(ram *memory.RAM, address int, code ...uint8) {
	for i, v := range code {
		ram.Write(address+i, v)
	}
}

func run(c *CPU, cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		c.Cycle(i)
	}
}

func TestCPU_programs(t *testing.T) {
	testCases := []struct {
		desc    string
		program []uint8
		cycles  uint64
		check   func(t *testing.T, s State, ram *memory.RAM)
	}{
		{
			desc:    "add then complement carry",
			program: []uint8{0x06, 0x08, 0x3E, 0x48, 0x80, 0x3F},
			cycles:  2*2 + 1 + 1,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x50), s.A)
				assert.Equal(t, uint8(0x10), s.F)
				assert.Equal(t, uint16(6), s.PC)
			},
		},
		{
			desc:    "swap",
			program: []uint8{0x06, 0x81, 0xCB, 0x30},
			cycles:  4,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x18), s.B)
				assert.Equal(t, uint16(4), s.PC)
			},
		},
		{
			desc:    "decrement SP",
			program: []uint8{0x31, 0x08, 0x00, 0x3B},
			cycles:  5,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint16(7), s.SP)
			},
		},
		{
			desc:    "call",
			program: []uint8{0x31, 0xFF, 0xFF, 0x3E, 0x0B, 0xCD, 0x0A, 0x00},
			cycles:  9,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint16(0x0A), s.PC)
				assert.Equal(t, uint16(0xFFFD), s.SP)
				assert.Equal(t, uint8(11), s.A)
			},
		},
		{
			desc:    "decimal adjust after add",
			program: []uint8{0x3E, 0x15, 0x06, 0x27, 0x80, 0x27},
			cycles:  6,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x42), s.A)
				assert.Equal(t, uint8(0x00), s.F)
			},
		},
		{
			desc:    "pop AF clears the low flag bits",
			program: []uint8{0x31, 0x00, 0xD0, 0x01, 0xFF, 0x12, 0xC5, 0xF1},
			cycles:  13,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x12), s.A)
				assert.Equal(t, uint8(0xF0), s.F)
				assert.Equal(t, uint16(0xD000), s.SP)
			},
		},
		{
			desc:    "high page load and store",
			program: []uint8{0x3E, 0x42, 0xE0, 0x80, 0x3E, 0x00, 0xF0, 0x80},
			cycles:  10,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x42), s.A)
			},
		},
		{
			desc:    "bit operations on (HL)",
			program: []uint8{0x21, 0x00, 0xC0, 0x36, 0xF0, 0xCB, 0x46, 0xCB, 0xC6, 0xCB, 0xBE, 0x34},
			cycles:  3 + 3 + 3 + 4 + 4 + 3,
			check: func(t *testing.T, s State, ram *memory.RAM) {
				assert.Equal(t, uint8(0x72), ram.Read(0xC000))
				assert.Equal(t, uint8(0x00), s.F)
				assert.Equal(t, uint16(12), s.PC)
			},
		},
		{
			desc:    "add signed immediate to SP",
			program: []uint8{0x31, 0xF8, 0xFF, 0xE8, 0x08},
			cycles:  7,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint16(0x0000), s.SP)
				assert.Equal(t, uint8(0x30), s.F)
			},
		},
		{
			desc:    "load SP plus negative offset into HL",
			program: []uint8{0x31, 0x00, 0x01, 0xF8, 0xFF},
			cycles:  6,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x00), s.H)
				assert.Equal(t, uint8(0xFF), s.L)
				assert.Equal(t, uint16(0x0100), s.SP)
				assert.Equal(t, uint8(0x00), s.F)
			},
		},
		{
			desc:    "restart",
			program: []uint8{0x31, 0x00, 0xD0, 0xEF},
			cycles:  7,
			check: func(t *testing.T, s State, ram *memory.RAM) {
				assert.Equal(t, uint16(0x28), s.PC)
				assert.Equal(t, uint16(0xCFFE), s.SP)
				assert.Equal(t, uint8(0x04), ram.Read(0xCFFE))
				assert.Equal(t, uint8(0x00), ram.Read(0xCFFF))
			},
		},
		{
			desc:    "relative jump to itself",
			program: []uint8{0x18, 0xFE},
			cycles:  9,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint16(0), s.PC)
			},
		},
		{
			desc:    "complement",
			program: []uint8{0x3E, 0x35, 0x2F},
			cycles:  3,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0xCA), s.A)
				assert.Equal(t, uint8(0x60), s.F)
			},
		},
		{
			desc:    "set then complement carry",
			program: []uint8{0x37, 0x3F},
			cycles:  2,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x00), s.F)
			},
		},
		{
			desc:    "rotate accumulator never sets zero",
			program: []uint8{0x3E, 0x80, 0x17},
			cycles:  3,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x00), s.A)
				assert.Equal(t, uint8(0x10), s.F)
			},
		},
		{
			desc:    "add to HL",
			program: []uint8{0x21, 0xFF, 0x0F, 0x01, 0x01, 0x00, 0x09},
			cycles:  8,
			check: func(t *testing.T, s State, _ *memory.RAM) {
				assert.Equal(t, uint8(0x10), s.H)
				assert.Equal(t, uint8(0x00), s.L)
				assert.Equal(t, uint8(0x20), s.F)
			},
		},
		{
			desc:    "load and increment HL",
			program: []uint8{0x21, 0x00, 0xC0, 0x3E, 0x99, 0x22, 0x22, 0x3A},
			cycles:  3 + 2 + 2 + 2 + 2,
			check: func(t *testing.T, s State, ram *memory.RAM) {
				assert.Equal(t, uint8(0x99), ram.Read(0xC000))
				assert.Equal(t, uint8(0x99), ram.Read(0xC001))
				assert.Equal(t, uint8(0x00), s.A, "reads the untouched byte at 0xC002")
				assert.Equal(t, uint8(0xC0), s.H)
				assert.Equal(t, uint8(0x01), s.L)
			},
		},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, ram := newTestCPU(tC.program...)
			run(c, tC.cycles)
			tC.check(t, c.State(), ram)
		})
	}
}

func TestCPU_conditionalCost(t *testing.T) {
	testCases := []struct {
		desc       string
		program    []uint8
		flags      uint8
		wantCycles uint8
		wantPC     uint16
	}{
		{desc: "JR NZ taken", program: []uint8{0x20, 0x05}, flags: 0x00, wantCycles: 3, wantPC: 7},
		{desc: "JR NZ not taken", program: []uint8{0x20, 0x05}, flags: 0x80, wantCycles: 2, wantPC: 2},
		{desc: "JP C taken", program: []uint8{0xDA, 0x34, 0x12}, flags: 0x10, wantCycles: 4, wantPC: 0x1234},
		{desc: "CALL Z not taken", program: []uint8{0xCC, 0x34, 0x12}, flags: 0x00, wantCycles: 3, wantPC: 3},
		{desc: "CALL NC taken", program: []uint8{0xD4, 0x34, 0x12}, flags: 0x00, wantCycles: 6, wantPC: 0x1234},
		{desc: "RET NC not taken", program: []uint8{0xD0}, flags: 0x10, wantCycles: 2, wantPC: 1},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c, _ := newTestCPU(tC.program...)
			c.sp = 0xD000
			c.regs.Set(regF, tC.flags)

			got := c.dispatch(c.fetch())
			assert.Equal(t, tC.wantCycles, got)
			assert.Equal(t, tC.wantPC, c.pc)
		})
	}
}

func TestCPU_interrupts(t *testing.T) {
	t.Run("EI then serviced before the next instruction", func(t *testing.T) {
		c, ram := newTestCPU(0x31, 0xFF, 0xFF, 0xFB, 0x0E, 0x10)
		load(ram, int(addr.LCDSTATInterrupt.Vector()), 0x06, 0x08, 0xD9)
		c.Write(addr.IE, 0x02)
		c.Write(addr.IF, 0x02)

		run(c, 9)
		s := c.State()
		assert.Equal(t, uint16(0x48), s.PC)
		assert.Equal(t, uint16(0xFFFD), s.SP)
		assert.Equal(t, uint8(0x00), s.IF)
		assert.False(t, s.IME)

		c2, ram2 := newTestCPU(0x31, 0xFF, 0xFF, 0xFB, 0x0E, 0x10)
		load(ram2, int(addr.LCDSTATInterrupt.Vector()), 0x06, 0x08, 0xD9)
		c2.Write(addr.IE, 0x02)
		c2.Write(addr.IF, 0x02)

		run(c2, 16)
		s = c2.State()
		assert.Equal(t, uint16(6), s.PC)
		assert.Equal(t, uint16(0xFFFF), s.SP)
		assert.Equal(t, uint8(8), s.B)
		assert.Equal(t, uint8(0x10), s.C)
		assert.True(t, s.IME)
	})

	t.Run("interrupts disabled by default", func(t *testing.T) {
		c, _ := newTestCPU(0x00, 0x00)
		c.Write(addr.IE, 0x01)
		c.RequestInterrupt(addr.VBlankInterrupt)

		run(c, 2)
		assert.Equal(t, uint16(2), c.State().PC)
		assert.Equal(t, uint8(0x01), c.State().IF)
	})

	t.Run("priority order", func(t *testing.T) {
		c, _ := newTestCPU()
		c.sp = 0xD000
		c.ime = true
		c.Write(addr.IE, 0x1F)
		c.RequestInterrupt(addr.JoypadInterrupt)
		c.RequestInterrupt(addr.SerialInterrupt)
		c.RequestInterrupt(addr.TimerInterrupt)

		c.Cycle(0)
		s := c.State()
		assert.Equal(t, addr.TimerInterrupt.Vector(), s.PC)
		assert.Equal(t, uint8(0x18), s.IF)
		assert.False(t, s.IME)
	})

	t.Run("DI disables interrupts", func(t *testing.T) {
		c, _ := newTestCPU(0xF3)
		c.ime = true
		c.Write(addr.IE, 0x01)

		c.Cycle(0)
		c.RequestInterrupt(addr.VBlankInterrupt)
		c.Cycle(1)
		assert.False(t, c.State().IME)
		assert.NotEqual(t, addr.VBlankInterrupt.Vector(), c.State().PC)
	})

	t.Run("halt waits for an enabled interrupt", func(t *testing.T) {
		c, _ := newTestCPU(0x76, 0x00, 0x00)
		c.Write(addr.IE, addr.TimerInterrupt.Mask())

		run(c, 10)
		assert.True(t, c.Halted())
		assert.Equal(t, uint16(1), c.State().PC)

		c.RequestInterrupt(addr.SerialInterrupt)
		c.Cycle(10)
		assert.True(t, c.Halted(), "serial is not enabled")

		c.RequestInterrupt(addr.TimerInterrupt)
		c.Cycle(11)
		assert.False(t, c.Halted())
		assert.Equal(t, uint16(2), c.State().PC)
	})
}

func TestCPU_memoryMap(t *testing.T) {
	c, _ := newTestCPU()

	c.Write(addr.HRAMStart, 0x12)
	c.Write(addr.HRAMEnd-1, 0x34)
	v, ok := c.Read(addr.HRAMStart)
	require.True(t, ok)
	assert.Equal(t, uint8(0x12), v)
	v, _ = c.Read(addr.HRAMEnd - 1)
	assert.Equal(t, uint8(0x34), v)

	c.Write(addr.IE, 0x05)
	v, _ = c.Read(addr.IE)
	assert.Equal(t, uint8(0x05), v)

	_, ok = c.Read(addr.WorkRAMStart)
	assert.False(t, ok)
}

func TestCPU_failures(t *testing.T) {
	c, _ := newTestCPU(0x10, 0x00)
	assert.PanicsWithValue(t, "STOP is not implemented", func() { c.Cycle(0) })

	c, _ = newTestCPU(0xD3)
	assert.Panics(t, func() { c.Cycle(0) })
}

func TestCPU_SkipBoot(t *testing.T) {
	c := New()
	c.SkipBoot()

	s := c.State()
	assert.Equal(t, uint16(0x0100), s.PC)
	assert.Equal(t, uint16(0xFFFE), s.SP)
	assert.Equal(t, uint8(0x01), s.A)
	assert.Equal(t, uint8(0xB0), s.F)
	assert.Equal(t, uint8(0x13), s.C)
	assert.Equal(t, uint8(0xD8), s.E)
	assert.Equal(t, uint8(0x01), s.H)
	assert.Equal(t, uint8(0x4D), s.L)
	assert.Equal(t, "Z-HC", s.FlagString())
}
