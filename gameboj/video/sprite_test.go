package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-gameboj/gameboj/addr"
	"github.com/valerio/go-gameboj/gameboj/memory"
)

func writeSprite(oam *memory.RAM, index int, y, x, tile, flags uint8) {
	base := index * spriteBytes
	oam.Write(base, y)
	oam.Write(base+1, x)
	oam.Write(base+2, tile)
	oam.Write(base+3, flags)
}

func TestReadSprite(t *testing.T) {
	oam := memory.NewRAM(addr.OAMSize)
	writeSprite(oam, 0, 50+16, 80+8, 0x42, 0xE0)
	writeSprite(oam, 1, 100+16, 20+8, 0x10, 0x10)

	sprite0 := readSprite(oam, 0)
	assert.Equal(t, 50, sprite0.Top())
	assert.Equal(t, 80, sprite0.Left())
	assert.Equal(t, uint8(0x42), sprite0.TileIndex)
	assert.True(t, sprite0.FlipX, "FlipX should be set")
	assert.True(t, sprite0.FlipY, "FlipY should be set")
	assert.True(t, sprite0.BehindBG, "BehindBG should be set")
	assert.False(t, sprite0.PaletteOBP1, "Should use OBP0")

	sprite1 := readSprite(oam, 1)
	assert.Equal(t, 1, sprite1.OAMIndex)
	assert.Equal(t, 100, sprite1.Top())
	assert.Equal(t, 20, sprite1.Left())
	assert.False(t, sprite1.FlipX)
	assert.False(t, sprite1.FlipY)
	assert.False(t, sprite1.BehindBG)
	assert.True(t, sprite1.PaletteOBP1, "Should use OBP1")
}

func oamIndices(sprites []Sprite) []int {
	out := make([]int, len(sprites))
	for i, s := range sprites {
		out[i] = s.OAMIndex
	}
	return out
}

func TestSpritesOnLine(t *testing.T) {
	oam := memory.NewRAM(addr.OAMSize)
	writeSprite(oam, 0, 10+16, 20+8, 0, 0)
	writeSprite(oam, 1, 20+16, 40+8, 0, 0)
	writeSprite(oam, 2, 20+16, 30+8, 0, 0)
	writeSprite(oam, 3, 20+16, 30+8, 0, 0)
	writeSprite(oam, 4, 50+16, 50+8, 0, 0)

	testCases := []struct {
		desc   string
		line   int
		height int
		want   []int
	}{
		{"single sprite", 10, 8, []int{0}},
		{"last covered line", 17, 8, []int{0}},
		{"below 8x8 sprite", 18, 8, []int{}},
		{"below 8x8 sprite in 8x16 mode", 18, 16, []int{0}},
		{"sorted by x then index", 20, 8, []int{2, 3, 1}},
		{"nothing", 100, 16, []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, oamIndices(spritesOnLine(oam, tc.line, tc.height)))
		})
	}
}

func TestSpritesOnLineLimit(t *testing.T) {
	oam := memory.NewRAM(addr.OAMSize)
	for i := 0; i < 12; i++ {
		writeSprite(oam, i, 16, uint8(100-i), 0, 0)
	}

	got := spritesOnLine(oam, 0, 8)
	assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, oamIndices(got))
}
