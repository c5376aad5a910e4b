package video

import (
	"image"
	"image/color"
)

// Color is a packed 0xAARRGGBB value.
type Color uint32

const (
	WhiteColor     Color = 0xFFFFFFFF
	LightGreyColor Color = 0xFFD3D3D3
	DarkGreyColor  Color = 0xFFA9A9A9
	BlackColor     Color = 0xFF000000
)

var shades = [4]Color{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// Shade maps a 2-bit color index to its display color.
func Shade(index uint8) Color {
	return shades[index&0b11]
}

// RGBA unpacks c.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}
}

// ToRGBA converts a frame to a Go image, one pixel per dot.
func ToRGBA(img Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			out.SetRGBA(x, y, Shade(img.Get(x, y)).RGBA())
		}
	}
	return out
}
