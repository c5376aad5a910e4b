package video

import (
	"fmt"

	"github.com/valerio/go-gameboj/gameboj/bit"
)

// identityPalette maps every color index onto itself.
const identityPalette uint8 = 0b11_10_01_00

// Line is one row of pixels stored as three bit planes of equal size: the
// high and low bits of each pixel's 2-bit color index, and an opacity plane.
// Pixel x is bit x of every plane. Lines are immutable.
type Line struct {
	msb, lsb, opacity bit.Vector
}

// NewLine panics if the planes differ in size.
func NewLine(msb, lsb, opacity bit.Vector) Line {
	if msb.Size() != lsb.Size() || msb.Size() != opacity.Size() {
		panic(fmt.Sprintf("video: line planes differ in size (%d, %d, %d)", msb.Size(), lsb.Size(), opacity.Size()))
	}
	return Line{msb: msb, lsb: lsb, opacity: opacity}
}

// NewEmptyLine returns a transparent line of color 0.
func NewEmptyLine(size int) Line {
	zero := bit.NewZeroVector(size)
	return Line{msb: zero, lsb: zero, opacity: zero}
}

func (l Line) Size() int           { return l.msb.Size() }
func (l Line) Msb() bit.Vector     { return l.msb }
func (l Line) Lsb() bit.Vector     { return l.lsb }
func (l Line) Opacity() bit.Vector { return l.opacity }

// Color returns the 2-bit color index of pixel x.
func (l Line) Color(x int) uint8 {
	return bit.Bool(l.msb.TestBit(x))<<1 | bit.Bool(l.lsb.TestBit(x))
}

// Shift moves every plane by distance pixels, see bit.Vector.Shift.
func (l Line) Shift(distance int) Line {
	return Line{
		msb:     l.msb.Shift(distance),
		lsb:     l.lsb.Shift(distance),
		opacity: l.opacity.Shift(distance),
	}
}

// ExtractWrapped returns size pixels starting at index, wrapping around the
// line's edges.
func (l Line) ExtractWrapped(index, size int) Line {
	return Line{
		msb:     l.msb.ExtractWrapped(index, size),
		lsb:     l.lsb.ExtractWrapped(index, size),
		opacity: l.opacity.ExtractWrapped(index, size),
	}
}

// MapColors replaces each color index k with bits 2k..2k+1 of palette.
// Opacity is left unchanged.
func (l Line) MapColors(palette uint8) Line {
	if palette == identityPalette {
		return l
	}

	msb := bit.NewZeroVector(l.Size())
	lsb := msb
	for color := uint8(0); color < 4; color++ {
		pixels := l.pixelsOfColor(color)
		mapped := bit.Extract(palette, 2*color, 2)
		if bit.IsSet(1, mapped) {
			msb = msb.Or(pixels)
		}
		if bit.IsSet(0, mapped) {
			lsb = lsb.Or(pixels)
		}
	}
	return Line{msb: msb, lsb: lsb, opacity: l.opacity}
}

func (l Line) pixelsOfColor(color uint8) bit.Vector {
	msb, lsb := l.msb, l.lsb
	if !bit.IsSet(1, color) {
		msb = msb.Not()
	}
	if !bit.IsSet(0, color) {
		lsb = lsb.Not()
	}
	return msb.And(lsb)
}

// Below places l underneath above, wherever above is opaque.
func (l Line) Below(above Line) Line {
	return l.BelowWith(above, above.opacity)
}

// BelowWith places l underneath above wherever opacity is set. The result is
// opaque where either opacity or l is.
func (l Line) BelowWith(above Line, opacity bit.Vector) Line {
	l.checkSize(above)
	return Line{
		msb:     choose(opacity, above.msb, l.msb),
		lsb:     choose(opacity, above.lsb, l.lsb),
		opacity: opacity.Or(l.opacity),
	}
}

// Join keeps the pixels of l left of index and takes those of other from
// index to the right edge, opacity included.
func (l Line) Join(other Line, index int) Line {
	l.checkSize(other)
	if index < 0 || index > l.Size() {
		panic(fmt.Sprintf("video: join index %d out of range [0, %d]", index, l.Size()))
	}
	mask := bit.NewOnesVector(l.Size()).Shift(index)
	return Line{
		msb:     choose(mask, other.msb, l.msb),
		lsb:     choose(mask, other.lsb, l.lsb),
		opacity: choose(mask, other.opacity, l.opacity),
	}
}

// Equal reports whether all three planes match.
func (l Line) Equal(other Line) bool {
	return l.msb.Equal(other.msb) && l.lsb.Equal(other.lsb) && l.opacity.Equal(other.opacity)
}

func (l Line) checkSize(other Line) {
	if l.Size() != other.Size() {
		panic(fmt.Sprintf("video: line size mismatch %d != %d", l.Size(), other.Size()))
	}
}

// choose takes bits of a where mask is set and bits of b elsewhere.
func choose(mask, a, b bit.Vector) bit.Vector {
	return a.And(mask).Or(b.And(mask.Not()))
}

// LineBuilder assembles a Line from pairs of plane bytes. Pixels are opaque
// unless their color index is 0. A builder can be built only once.
type LineBuilder struct {
	msb, lsb *bit.VectorBuilder
}

func NewLineBuilder(size int) *LineBuilder {
	return &LineBuilder{
		msb: bit.NewVectorBuilder(size),
		lsb: bit.NewVectorBuilder(size),
	}
}

// SetBytes stores the plane bytes covering pixels 8*index..8*index+7.
func (b *LineBuilder) SetBytes(index int, msb, lsb uint8) *LineBuilder {
	b.msb.SetByte(index, msb)
	b.lsb.SetByte(index, lsb)
	return b
}

func (b *LineBuilder) Build() Line {
	msb, lsb := b.msb.Build(), b.lsb.Build()
	return Line{msb: msb, lsb: lsb, opacity: msb.Or(lsb)}
}
