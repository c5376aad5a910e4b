package video

import (
	"cmp"
	"slices"

	"github.com/valerio/go-gameboj/gameboj/bit"
	"github.com/valerio/go-gameboj/gameboj/memory"
)

const (
	spriteCount       = 40
	spriteBytes       = 4
	maxSpritesPerLine = 10
)

// Sprite is one OAM entry. Y and X keep the hardware offsets of 16 and 8.
type Sprite struct {
	Y         uint8
	X         uint8
	TileIndex uint8
	Flags     uint8
	OAMIndex  int

	// parsed attribute flags
	PaletteOBP1 bool // false = OBP0, true = OBP1
	FlipX       bool
	FlipY       bool
	BehindBG    bool // drawn only where the background is transparent
}

func readSprite(oam *memory.RAM, index int) Sprite {
	base := index * spriteBytes
	s := Sprite{
		Y:         oam.Read(base),
		X:         oam.Read(base + 1),
		TileIndex: oam.Read(base + 2),
		Flags:     oam.Read(base + 3),
		OAMIndex:  index,
	}
	s.parseFlags()
	return s
}

func (s *Sprite) parseFlags() {
	s.PaletteOBP1 = bit.IsSet(4, s.Flags)
	s.FlipX = bit.IsSet(5, s.Flags)
	s.FlipY = bit.IsSet(6, s.Flags)
	s.BehindBG = bit.IsSet(7, s.Flags)
}

// Top is the first screen line covered by the sprite.
func (s Sprite) Top() int { return int(s.Y) - 16 }

// Left is the screen column of the sprite's leftmost pixel.
func (s Sprite) Left() int { return int(s.X) - 8 }

// spritesOnLine scans OAM in index order and returns the first ten sprites
// covering line, ordered by X with the OAM index breaking ties. Earlier
// sprites in the result have priority.
func spritesOnLine(oam *memory.RAM, line, height int) []Sprite {
	sprites := make([]Sprite, 0, maxSpritesPerLine)
	for i := 0; i < spriteCount && len(sprites) < maxSpritesPerLine; i++ {
		s := readSprite(oam, i)
		if s.Top() <= line && line < s.Top()+height {
			sprites = append(sprites, s)
		}
	}

	slices.SortFunc(sprites, func(a, b Sprite) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.OAMIndex, b.OAMIndex)
	})
	return sprites
}
