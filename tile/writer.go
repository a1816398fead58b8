package tile

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

// Encode writes the Image m to w as a PNG. If colors is positive the image is
// first reduced to a palette of no more than that many colors.
func Encode(w io.Writer, m image.Image, colors int) error {
	if colors <= 0 {
		return png.Encode(w, m)
	}
	if colors > maxColors {
		return errors.New("tile: a PNG palette holds at most 256 colors")
	}

	pm, _ := m.(*image.Paletted)
	if pm != nil && len(pm.Palette) <= colors {
		return png.Encode(w, pm)
	}

	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)

	return png.Encode(w, pm)
}
