package render

import "github.com/valerio/go-gameboj/gameboj/video"

// HalfBlock packs two vertically adjacent pixels into one terminal cell.
// The upper half block is drawn in the top pixel's color over the bottom
// one's; equal pixels use a full block.
func HalfBlock(top, bottom uint8) (ch rune, fg, bg video.Color) {
	if top == bottom {
		return '█', video.Shade(top), video.Shade(bottom)
	}
	return '▀', video.Shade(top), video.Shade(bottom)
}

// Truncate cuts s to width runes, ending with an ellipsis when it was cut
// and there is room for one.
func Truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	if width <= 0 {
		return ""
	}
	return string(runes[:width])
}
