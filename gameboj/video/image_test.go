package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageBuilder(t *testing.T) {
	img := NewImageBuilder(32, 3).
		SetLine(1, lineOf(32, 0, 3, 2)).
		Build()

	require.Equal(t, 32, img.Width())
	require.Equal(t, 3, img.Height())
	assert.Equal(t, uint8(3), img.Get(1, 1))
	assert.Equal(t, uint8(2), img.Get(2, 1))
	assert.Equal(t, uint8(0), img.Get(1, 0))
	assert.Equal(t, uint8(0), img.Get(31, 2))
	assert.True(t, img.Line(0).Equal(NewEmptyLine(32)))
}

func TestImageBuilderMisuse(t *testing.T) {
	b := NewImageBuilder(32, 2)

	assert.Panics(t, func() { b.SetLine(2, NewEmptyLine(32)) })
	assert.Panics(t, func() { b.SetLine(-1, NewEmptyLine(32)) })
	assert.Panics(t, func() { b.SetLine(0, NewEmptyLine(64)) })

	b.Build()
	assert.Panics(t, func() { b.Build() })
	assert.Panics(t, func() { b.SetLine(0, NewEmptyLine(32)) })
}

func TestImageGetOutOfRange(t *testing.T) {
	img := NewBlankImage(Width, Height)

	assert.Panics(t, func() { img.Get(Width, 0) })
	assert.Panics(t, func() { img.Get(0, Height) })
	assert.Panics(t, func() { img.Get(-1, 0) })
}

func TestNewImage(t *testing.T) {
	lines := []Line{lineOf(32, 1), lineOf(32, 2)}
	img := NewImage(32, 2, lines)

	lines[0] = lineOf(32, 3)
	assert.Equal(t, uint8(1), img.Get(0, 0), "lines are copied")

	assert.Panics(t, func() { NewImage(32, 3, lines) })
	assert.Panics(t, func() { NewImage(64, 2, lines) })
}

func TestImageEqualAndHash(t *testing.T) {
	a := NewImageBuilder(Width, Height).SetLine(10, lineOf(Width, 1, 2, 3)).Build()
	b := NewImageBuilder(Width, Height).SetLine(10, lineOf(Width, 1, 2, 3)).Build()
	c := NewImageBuilder(Width, Height).SetLine(11, lineOf(Width, 1, 2, 3)).Build()
	blank := NewBlankImage(Width, Height)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.NotEqual(t, a.Hash(), blank.Hash())

	assert.False(t, blank.Equal(NewBlankImage(Width, 2)))
}
