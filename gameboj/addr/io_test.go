package addr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptTable(t *testing.T) {
	testCases := []struct {
		irq    Interrupt
		mask   uint8
		vector uint16
		name   string
	}{
		{VBlankInterrupt, 0x01, 0x40, "VBLANK"},
		{LCDSTATInterrupt, 0x02, 0x48, "LCD_STAT"},
		{TimerInterrupt, 0x04, 0x50, "TIMER"},
		{SerialInterrupt, 0x08, 0x58, "SERIAL"},
		{JoypadInterrupt, 0x10, 0x60, "JOYPAD"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.mask, tc.irq.Mask())
			assert.Equal(t, tc.vector, tc.irq.Vector())
			assert.Equal(t, tc.name, tc.irq.String())
		})
	}
}

func TestInterruptsArePriorityOrdered(t *testing.T) {
	for i := 1; i < len(Interrupts); i++ {
		assert.Less(t, Interrupts[i-1].Vector(), Interrupts[i].Vector())
	}
}

func TestRSTVector(t *testing.T) {
	for n := uint8(0); n < 8; n++ {
		assert.Equal(t, uint16(n)*8, RSTVector(n))
	}
	assert.Panics(t, func() { RSTVector(8) })
}

func TestRegionSizes(t *testing.T) {
	assert.Equal(t, 0x2000, WorkRAMSize)
	assert.Equal(t, 0x1E00, EchoRAMSize)
	assert.Equal(t, 160, OAMSize)
	assert.Equal(t, 127, HRAMSize)
	assert.Equal(t, 256, BootROMSize)
}
