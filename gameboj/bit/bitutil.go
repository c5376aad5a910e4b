package bit

import "math/bits"

// Combine combines two 8 bit values into a single 16 bit value.
// The high byte will be the most significant one.
func Combine(high, low uint8) uint16 {
	return (uint16(high) << 8) | uint16(low)
}

// IsSet will check if the bit at the specified index is Set to 1 or not.
func IsSet(index, byte uint8) bool {
	return ((byte >> index) & 1) == 1
}

// Clear will return the passed byte with the bit at the specified index Set to 0.
func Clear(index, byte uint8) uint8 {
	return byte & ^(1 << index)
}

// Set will return the passed byte with the bit at the specified index Set to 1.
func Set(index, byte uint8) uint8 {
	return byte | (1 << index)
}

// SetTo sets or clears the bit at index depending on value.
func SetTo(index, byte uint8, value bool) uint8 {
	if value {
		return Set(index, byte)
	}
	return Clear(index, byte)
}

// Low returns the low (LSB) part of a 16 bit number.
func Low(value uint16) uint8 {
	return uint8(value)
}

// High returns the high (MSB) part of a 16 bit number.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Extract returns size bits of value starting at bit start.
// Example: Extract(0b11010110, 4, 3) -> 0b101 (bits 6, 5, 4)
func Extract(value uint8, start, size uint8) uint8 {
	return (value >> start) & uint8((1<<size)-1)
}

// Reverse8 mirrors the bit order of a byte, so bit 7 becomes bit 0.
func Reverse8(b uint8) uint8 {
	return bits.Reverse8(b)
}

// SignExtend8 interprets b as a two's complement value.
func SignExtend8(b uint8) int {
	return int(int8(b))
}

// Bool converts a flag into 0 or 1.
func Bool(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
