package cpu

import (
	"fmt"

	"github.com/valerio/go-gameboj/gameboj/bit"
)

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// RotDir is the direction of a rotation.
type RotDir uint8

const (
	RotateLeft RotDir = iota
	RotateRight
)

// Packed holds an ALU result: the value in the upper bits and the flag
// byte in the lowest 8. The low nibble of the flags is always zero.
type Packed uint32

// Value returns the result value.
func (p Packed) Value() uint16 {
	return uint16(p >> 8)
}

// Value8 returns the result value as a byte, for 8 bit operations.
func (p Packed) Value8() uint8 {
	return uint8(p >> 8)
}

// Flags returns the flag byte.
func (p Packed) Flags() uint8 {
	return uint8(p)
}

// MaskZNHC builds a flag byte from the four flag values.
func MaskZNHC(z, n, h, c bool) uint8 {
	var mask uint8
	if z {
		mask |= uint8(zeroFlag)
	}
	if n {
		mask |= uint8(subFlag)
	}
	if h {
		mask |= uint8(halfCarryFlag)
	}
	if c {
		mask |= uint8(carryFlag)
	}
	return mask
}

func pack(v uint16, z, n, h, c bool) Packed {
	return Packed(uint32(v)<<8 | uint32(MaskZNHC(z, n, h, c)))
}

func b2u(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// Add computes l + r + carry.
func Add(l, r uint8, carry bool) Packed {
	c := b2u(carry)
	sum := uint16(l) + uint16(r) + c
	h := uint16(l&0xF)+uint16(r&0xF)+c > 0xF
	v := sum & 0xFF
	return pack(v, v == 0, false, h, sum > 0xFF)
}

// Add16L adds two 16 bit values, with half carry and carry taken from the
// low byte. Z and N are always cleared.
func Add16L(l, r uint16) Packed {
	h := l&0xF+r&0xF > 0xF
	c := l&0xFF+r&0xFF > 0xFF
	return pack(l+r, false, false, h, c)
}

// Add16H adds two 16 bit values, with half carry and carry taken from the
// high byte. Z and N are always cleared.
func Add16H(l, r uint16) Packed {
	carry := b2u(l&0xFF+r&0xFF > 0xFF)
	h := (l>>8)&0xF+(r>>8)&0xF+carry > 0xF
	c := uint32(l)+uint32(r) > 0xFFFF
	return pack(l+r, false, false, h, c)
}

// Sub computes l - r - borrow.
func Sub(l, r uint8, borrow bool) Packed {
	b := b2u(borrow)
	c := uint16(l) < uint16(r)+b
	h := uint16(l&0xF) < uint16(r&0xF)+b
	v := (uint16(l) - uint16(r) - b) & 0xFF
	return pack(v, v == 0, true, h, c)
}

// BCDAdjust corrects v after a BCD addition or subtraction, given the N, H
// and C flags the operation produced.
func BCDAdjust(v uint8, n, h, c bool) Packed {
	fixL := h || (!n && v&0xF > 9)
	fixH := c || (!n && v > 0x99)
	var fix uint8
	if fixH {
		fix |= 0x60
	}
	if fixL {
		fix |= 0x06
	}
	adjusted := v + fix
	if n {
		adjusted = v - fix
	}
	return pack(uint16(adjusted), adjusted == 0, n, false, fixH)
}

func And(l, r uint8) Packed {
	v := l & r
	return pack(uint16(v), v == 0, false, true, false)
}

func Or(l, r uint8) Packed {
	v := l | r
	return pack(uint16(v), v == 0, false, false, false)
}

func Xor(l, r uint8) Packed {
	v := l ^ r
	return pack(uint16(v), v == 0, false, false, false)
}

// ShiftLeft shifts v left by one, bit 7 goes to carry.
func ShiftLeft(v uint8) Packed {
	r := v << 1
	return pack(uint16(r), r == 0, false, false, bit.IsSet(7, v))
}

// ShiftRightA shifts v right by one keeping the sign bit, bit 0 goes to carry.
func ShiftRightA(v uint8) Packed {
	r := uint8(int8(v) >> 1)
	return pack(uint16(r), r == 0, false, false, bit.IsSet(0, v))
}

// ShiftRightL shifts v right by one filling with zero, bit 0 goes to carry.
func ShiftRightL(v uint8) Packed {
	r := v >> 1
	return pack(uint16(r), r == 0, false, false, bit.IsSet(0, v))
}

// Rotate rotates v by one in direction d. The bit moving across the edge
// is copied to carry.
func Rotate(d RotDir, v uint8) Packed {
	var r uint8
	var c bool
	if d == RotateLeft {
		r, c = v<<1|v>>7, bit.IsSet(7, v)
	} else {
		r, c = v>>1|v<<7, bit.IsSet(0, v)
	}
	return pack(uint16(r), r == 0, false, false, c)
}

// RotateThroughCarry rotates the 9 bit value formed by carry and v.
func RotateThroughCarry(d RotDir, v uint8, carry bool) Packed {
	nine := uint16(v) | b2u(carry)<<8
	if d == RotateLeft {
		nine = (nine<<1 | nine>>8) & 0x1FF
	} else {
		nine = (nine>>1 | nine<<8) & 0x1FF
	}
	r := nine & 0xFF
	return pack(r, r == 0, false, false, nine&0x100 != 0)
}

// Swap exchanges the nibbles of v.
func Swap(v uint8) Packed {
	r := v<<4 | v>>4
	return pack(uint16(r), r == 0, false, false, false)
}

// TestBit returns a zero value whose Z flag is set when bit index of v is
// clear. H is always set.
func TestBit(v uint8, index uint8) Packed {
	if index > 7 {
		panic(fmt.Sprintf("cpu: bit index %d out of range", index))
	}
	return pack(0, !bit.IsSet(index, v), false, true, false)
}
