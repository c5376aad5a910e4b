package video

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// WritePNG encodes img as a PNG, each pixel blown up to a scale x scale block.
func WritePNG(w io.Writer, img Image, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid png scale %d", scale)
	}

	var out image.Image = ToRGBA(img)
	if scale > 1 {
		src := out
		dst := image.NewRGBA(image.Rect(0, 0, img.Width()*scale, img.Height()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		out = dst
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}
