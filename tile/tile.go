/*
Package tile implements the grid geometry used to slice a sprite sheet into
fixed size tiles, plus the per tile operations needed by the asset pipeline:
cropping, transparency detection, nearest-neighbor upscaling and encoding.

A sheet of W by H pixels split into tiles of TW by TH pixels has W/TW columns
and H/TH rows, rounded down. Any pixels left over at the right or bottom edge
belong to no tile.
*/
package tile

import (
	"errors"
	"image"
	"image/draw"
)

const (
	// DefaultSize is the width and height of a tile unless told otherwise
	DefaultSize = 32
	// MaxScaledSize is the largest width or height Scale will produce
	MaxScaledSize = 1 << 15
)

var (
	// ErrTileSize is returned for a zero or negative tile dimension
	ErrTileSize = errors.New("tile: tile size must be positive")
	// ErrScaleFactor is returned for a scale factor less than one
	ErrScaleFactor = errors.New("tile: scale factor must be at least 1")
	// ErrTooLarge is returned when a scaled image would exceed MaxScaledSize
	ErrTooLarge = errors.New("tile: scaled image too large")
)

// Grid describes how an image of Bounds is partitioned into tiles.
type Grid struct {
	Bounds     image.Rectangle
	TileWidth  int
	TileHeight int
}

// NewGrid returns the grid for an image with the given bounds.
func NewGrid(bounds image.Rectangle, tileWidth, tileHeight int) (Grid, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return Grid{}, ErrTileSize
	}
	return Grid{
		Bounds:     bounds,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
	}, nil
}

// Cols returns the number of whole tiles across.
func (g Grid) Cols() int {
	return g.Bounds.Dx() / g.TileWidth
}

// Rows returns the number of whole tiles down.
func (g Grid) Rows() int {
	return g.Bounds.Dy() / g.TileHeight
}

// Len returns the total number of tiles.
func (g Grid) Len() int {
	return g.Cols() * g.Rows()
}

// Rect returns the pixel rectangle of the tile at row, col. It is relative to
// the origin of Bounds, which isn't necessarily (0, 0).
func (g Grid) Rect(row, col int) image.Rectangle {
	x := g.Bounds.Min.X + col*g.TileWidth
	y := g.Bounds.Min.Y + row*g.TileHeight
	return image.Rect(x, y, x+g.TileWidth, y+g.TileHeight)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop returns the part of m inside r. Where possible the result shares pixels
// with m rather than copying them.
func Crop(m image.Image, r image.Rectangle) image.Image {
	if s, ok := m.(subImager); ok {
		return s.SubImage(r)
	}
	dup := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dup, dup.Bounds(), m, r.Min, draw.Src)
	return dup
}

// Empty reports whether every pixel of m is fully transparent, i.e. the alpha
// extrema are (0, 0). An image without an alpha channel is never empty.
func Empty(m image.Image) bool {
	b := m.Bounds()
	if n, ok := m.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := n.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
				if n.Pix[i+3] != 0 {
					return false
				}
			}
		}
		return true
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a != 0 {
				return false
			}
		}
	}
	return true
}
