package memory

import (
	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/bus"
)

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// JoypadKeys lists every key.
var JoypadKeys = [...]JoypadKey{
	JoypadRight, JoypadLeft, JoypadUp, JoypadDown,
	JoypadA, JoypadB, JoypadSelect, JoypadStart,
}

var joypadKeyNames = [...]string{
	JoypadRight:  "Right",
	JoypadLeft:   "Left",
	JoypadUp:     "Up",
	JoypadDown:   "Down",
	JoypadA:      "A",
	JoypadB:      "B",
	JoypadSelect: "Select",
	JoypadStart:  "Start",
}

func (k JoypadKey) String() string {
	if int(k) >= len(joypadKeyNames) {
		return "Unknown"
	}
	return joypadKeyNames[k]
}

// line returns the key line (0 for directions, 1 for buttons) and the bit
// the key occupies in it.
func (k JoypadKey) line() (int, uint8) {
	if k > JoypadStart {
		panic("memory: invalid joypad key")
	}
	return int(k) / 4, uint8(k) % 4
}

// Joypad implements the P1 register. Internally the register is kept active
// high (1 = selected/pressed); reads return its complement.
//
// Bit 4 selects the direction line, bit 5 the button line. When both are
// selected the lines are ORed together.
type Joypad struct {
	irq   bus.InterruptRequester
	p1    uint8
	lines [2]uint8
}

func NewJoypad(irq bus.InterruptRequester) *Joypad {
	return &Joypad{irq: irq}
}

func (j *Joypad) Read(address uint16) (uint8, bool) {
	if address != addr.P1 {
		return 0, false
	}
	return ^j.p1, true
}

// Write only accepts the two line select bits.
func (j *Joypad) Write(address uint16, value uint8) {
	if address != addr.P1 {
		return
	}
	j.p1 = (^value & 0x30) | (j.p1 & 0xCF)
	j.update()
}

// Press marks key as held. Pressing a held key is a no-op.
func (j *Joypad) Press(key JoypadKey) {
	line, index := key.line()
	j.lines[line] = bit.Set(index, j.lines[line])
	j.update()
}

// Release marks key as released. Releasing a released key is a no-op.
func (j *Joypad) Release(key JoypadKey) {
	line, index := key.line()
	j.lines[line] = bit.Clear(index, j.lines[line])
	j.update()
}

// update refreshes the key bits of P1. Any visible change raises the joypad
// interrupt, releases included.
func (j *Joypad) update() {
	next := j.p1
	switch j.p1 & 0x30 {
	case 0x10:
		next = j.p1&0xF0 | j.lines[0]
	case 0x20:
		next = j.p1&0xF0 | j.lines[1]
	case 0x30:
		next = j.p1&0xF0 | j.lines[0] | j.lines[1]
	}

	if next != j.p1 {
		j.p1 = next
		j.irq.RequestInterrupt(addr.JoypadInterrupt)
	}
}
