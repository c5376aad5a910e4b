package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-gameboj/gameboj/bit"
)

// lineOf builds a line whose first pixels have the given color indices.
func lineOf(size int, colors ...uint8) Line {
	msb := make([]uint8, size/8)
	lsb := make([]uint8, size/8)
	for x, c := range colors {
		if bit.IsSet(1, c) {
			msb[x/8] = bit.Set(uint8(x%8), msb[x/8])
		}
		if bit.IsSet(0, c) {
			lsb[x/8] = bit.Set(uint8(x%8), lsb[x/8])
		}
	}
	b := NewLineBuilder(size)
	for i := range msb {
		b.SetBytes(i, msb[i], lsb[i])
	}
	return b.Build()
}

func colorsOf(l Line, n int) []uint8 {
	out := make([]uint8, n)
	for x := range out {
		out[x] = l.Color(x)
	}
	return out
}

func opaqueOf(l Line, n int) []bool {
	out := make([]bool, n)
	for x := range out {
		out[x] = l.Opacity().TestBit(x)
	}
	return out
}

func repeatColor(c uint8, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func TestLineBuilder(t *testing.T) {
	l := NewLineBuilder(32).SetBytes(0, 0b0000_1010, 0b0000_1100).Build()

	assert.Equal(t, 32, l.Size())
	assert.Equal(t, []uint8{0, 2, 1, 3, 0}, colorsOf(l, 5))
	assert.Equal(t, []bool{false, true, true, true, false}, opaqueOf(l, 5))
}

func TestLineBuilderIsSingleUse(t *testing.T) {
	b := NewLineBuilder(32)
	b.Build()

	assert.Panics(t, func() { b.Build() })
	assert.Panics(t, func() { b.SetBytes(0, 1, 1) })
}

func TestNewLineRejectsMismatchedPlanes(t *testing.T) {
	assert.Panics(t, func() {
		NewLine(bit.NewZeroVector(32), bit.NewZeroVector(64), bit.NewZeroVector(32))
	})
	assert.NotPanics(t, func() {
		NewLine(bit.NewZeroVector(64), bit.NewZeroVector(64), bit.NewZeroVector(64))
	})
}

func TestLineMapColorsIdentity(t *testing.T) {
	lines := []Line{
		NewEmptyLine(32),
		lineOf(32, 0, 1, 2, 3),
		lineOf(64, 3, 3, 0, 2, 1, 1, 0, 3, 2),
		NewLine(bit.NewVector(0xDEADBEEF), bit.NewVector(0x12345678), bit.NewVector(0xFFFF0000)),
	}
	for _, l := range lines {
		assert.True(t, l.MapColors(0b11_10_01_00).Equal(l))
	}
}

func TestLineMapColors(t *testing.T) {
	l := lineOf(32, 0, 1, 2, 3)

	testCases := []struct {
		desc    string
		palette uint8
		want    []uint8
	}{
		{"reversed", 0x1B, []uint8{3, 2, 1, 0}},
		{"all black", 0xFF, []uint8{3, 3, 3, 3}},
		{"all white", 0x00, []uint8{0, 0, 0, 0}},
		{"boot palette", 0xFC, []uint8{0, 3, 3, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			mapped := l.MapColors(tc.palette)
			assert.Equal(t, tc.want, colorsOf(mapped, 4))
			assert.True(t, mapped.Opacity().Equal(l.Opacity()), "opacity is not remapped")
		})
	}

	twice := l.MapColors(0x1B).MapColors(0x1B)
	assert.True(t, twice.Equal(l))
}

func TestLineBelow(t *testing.T) {
	base := lineOf(32, 1, 1, 1, 1)
	above := lineOf(32, 0, 2, 0, 3, 2)

	got := base.Below(above)
	assert.Equal(t, []uint8{1, 2, 1, 3, 2, 0}, colorsOf(got, 6))
	assert.Equal(t, []bool{true, true, true, true, true, false}, opaqueOf(got, 6))
}

func TestLineBelowWith(t *testing.T) {
	base := lineOf(32, 0, 1)
	above := lineOf(32, 3, 3)

	got := base.BelowWith(above, bit.NewVector(0b01))
	assert.Equal(t, []uint8{3, 1}, colorsOf(got, 2))
	assert.Equal(t, []bool{true, true, false}, opaqueOf(got, 3))

	assert.Panics(t, func() { base.Below(lineOf(64)) })
}

func TestLineJoin(t *testing.T) {
	left := lineOf(32, repeatColor(1, 32)...)
	rightColors := repeatColor(2, 32)
	rightColors[5] = 0
	right := lineOf(32, rightColors...)

	got := left.Join(right, 4)

	assert.Equal(t, []uint8{1, 1, 1, 1, 2, 0, 2}, colorsOf(got, 7))
	assert.Equal(t, []bool{true, true, true, true, true, false, true}, opaqueOf(got, 7))
	assert.True(t, left.Join(right, 0).Equal(right))
	assert.True(t, left.Join(right, 32).Equal(left))

	assert.Panics(t, func() { left.Join(right, 33) })
	assert.Panics(t, func() { left.Join(right, -1) })
	assert.Panics(t, func() { left.Join(lineOf(64), 4) })
}

func TestLineShiftAndExtract(t *testing.T) {
	l := lineOf(32, 1, 2, 3)

	shifted := l.Shift(2)
	assert.Equal(t, []uint8{0, 0, 1, 2, 3, 0}, colorsOf(shifted, 6))
	assert.Equal(t, []bool{false, false, true, true, true, false}, opaqueOf(shifted, 6))
	assert.True(t, shifted.Shift(-2).Equal(l))

	colors := make([]uint8, 32)
	colors[0], colors[31] = 1, 3
	wrapped := lineOf(32, colors...).ExtractWrapped(31, 64)
	assert.Equal(t, 64, wrapped.Size())
	assert.Equal(t, []uint8{3, 1}, colorsOf(wrapped, 2))
	assert.Equal(t, uint8(3), wrapped.Color(32))
	assert.Equal(t, uint8(1), wrapped.Color(33))
}
