package video

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash"
)

const (
	// Width and Height of the LCD in pixels.
	Width  = 160
	Height = 144
)

// Image is an immutable frame of Lines, each pixel a 2-bit color index.
type Image struct {
	width, height int
	lines         []Line
}

// NewImage panics unless there are exactly height lines, each width pixels wide.
func NewImage(width, height int, lines []Line) Image {
	if len(lines) != height {
		panic(fmt.Sprintf("video: image has %d lines, want %d", len(lines), height))
	}
	for i, l := range lines {
		if l.Size() != width {
			panic(fmt.Sprintf("video: line %d has size %d, want %d", i, l.Size(), width))
		}
	}
	cp := make([]Line, height)
	copy(cp, lines)
	return Image{width: width, height: height, lines: cp}
}

// NewBlankImage returns an image of transparent color-0 pixels.
func NewBlankImage(width, height int) Image {
	return NewImageBuilder(width, height).Build()
}

func (i Image) Width() int  { return i.width }
func (i Image) Height() int { return i.height }

// Line returns row y.
func (i Image) Line(y int) Line {
	return i.lines[y]
}

// Get returns the color index of pixel (x, y).
func (i Image) Get(x, y int) uint8 {
	if x < 0 || x >= i.width || y < 0 || y >= i.height {
		panic(fmt.Sprintf("video: pixel (%d, %d) outside %dx%d image", x, y, i.width, i.height))
	}
	return i.lines[y].Color(x)
}

func (i Image) Equal(other Image) bool {
	if i.width != other.width || i.height != other.height {
		return false
	}
	for y := range i.lines {
		if !i.lines[y].Equal(other.lines[y]) {
			return false
		}
	}
	return true
}

// Hash fingerprints the color and opacity planes. Equal images hash equally.
func (i Image) Hash() uint64 {
	buf := make([]byte, 0, i.height*3*i.width/8)
	for _, l := range i.lines {
		for _, plane := range [...][]uint32{l.msb.Words(), l.lsb.Words(), l.opacity.Words()} {
			for _, w := range plane {
				buf = binary.BigEndian.AppendUint32(buf, w)
			}
		}
	}
	return xxhash.Sum64(buf)
}

// ImageBuilder collects the lines of a frame as they are rendered. Lines not
// set stay blank. A builder can be built only once.
type ImageBuilder struct {
	width, height int
	lines         []Line
}

func NewImageBuilder(width, height int) *ImageBuilder {
	lines := make([]Line, height)
	for y := range lines {
		lines[y] = NewEmptyLine(width)
	}
	return &ImageBuilder{width: width, height: height, lines: lines}
}

// SetLine replaces row index.
func (b *ImageBuilder) SetLine(index int, line Line) *ImageBuilder {
	if b.lines == nil {
		panic("video: image builder used after Build")
	}
	if index < 0 || index >= b.height {
		panic(fmt.Sprintf("video: line index %d out of range [0, %d)", index, b.height))
	}
	if line.Size() != b.width {
		panic(fmt.Sprintf("video: line size %d, want %d", line.Size(), b.width))
	}
	b.lines[index] = line
	return b
}

func (b *ImageBuilder) Build() Image {
	if b.lines == nil {
		panic("video: image builder already built")
	}
	img := Image{width: b.width, height: b.height, lines: b.lines}
	b.lines = nil
	return img
}
