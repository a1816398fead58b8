package tile

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// ScaledSize returns the bounds of b enlarged by factor, anchored at the
// origin.
func ScaledSize(b image.Rectangle, factor int) (image.Rectangle, error) {
	if factor < 1 {
		return image.Rectangle{}, ErrScaleFactor
	}
	// Divide rather than multiply so a huge factor can't overflow
	if b.Dx() > MaxScaledSize/factor || b.Dy() > MaxScaledSize/factor {
		return image.Rectangle{}, fmt.Errorf("%dx%d by %d: %w", b.Dx(), b.Dy(), factor, ErrTooLarge)
	}
	return image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor), nil
}

// Scale returns m enlarged by factor in both dimensions using
// nearest-neighbor sampling, so every output pixel is a copy of an input
// pixel and hard pixel-art edges survive.
func Scale(m image.Image, factor int) (image.Image, error) {
	b := m.Bounds()
	r, err := ScaledSize(b, factor)
	if err != nil {
		return nil, err
	}

	// Partially transparent pixels don't survive a trip through
	// premultiplied color, so non-premultiplied sources are copied across
	// as-is
	switch src := m.(type) {
	case *image.Paletted:
		dst := image.NewPaletted(r, src.Palette)
		xdraw.NearestNeighbor.Scale(dst, r, src, b, xdraw.Src, nil)
		return dst, nil
	case *image.NRGBA:
		dst := image.NewNRGBA(r)
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				dst.SetNRGBA(x, y, src.NRGBAAt(b.Min.X+x/factor, b.Min.Y+y/factor))
			}
		}
		return dst, nil
	case *image.NRGBA64:
		dst := image.NewNRGBA64(r)
		for y := 0; y < r.Dy(); y++ {
			for x := 0; x < r.Dx(); x++ {
				dst.SetNRGBA64(x, y, src.NRGBA64At(b.Min.X+x/factor, b.Min.Y+y/factor))
			}
		}
		return dst, nil
	case *image.RGBA64:
		dst := image.NewRGBA64(r)
		xdraw.NearestNeighbor.Scale(dst, r, src, b, xdraw.Src, nil)
		return dst, nil
	case *image.Gray16:
		dst := image.NewGray16(r)
		xdraw.NearestNeighbor.Scale(dst, r, src, b, xdraw.Src, nil)
		return dst, nil
	default:
		dst := image.NewRGBA(r)
		xdraw.NearestNeighbor.Scale(dst, r, m, b, xdraw.Src, nil)
		return dst, nil
	}
}
