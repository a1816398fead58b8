package spritekit

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/talesmud/spritekit/catalog"
	"github.com/talesmud/spritekit/tile"
	"github.com/talesmud/spritekit/tilemap"
)

// ExtractOptions controls how a sprite sheet is sliced.
type ExtractOptions struct {
	// Input is the sprite sheet image
	Input string
	// TileWidth and TileHeight default to tile.DefaultSize
	TileWidth  int
	TileHeight int
	// Table names tiles; tiles it doesn't list, or all tiles if it's nil,
	// are uncategorized
	Table *tilemap.Table
	// Output defaults to DefaultOutput
	Output string
	// Prefix is prepended to generated names of uncategorized tiles
	Prefix string
	// Colors, if positive, reduces each tile to a palette of that size
	Colors int
	DryRun bool
}

// ExtractResult summarizes an extraction.
type ExtractResult struct {
	Cols      int
	Rows      int
	Extracted int
	Skipped   int
}

func (s *SpriteKit) writeTile(file string, m image.Image, e tilemap.Entry, opts ExtractOptions) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}

	b := new(bytes.Buffer)
	if err := tile.Encode(b, m, opts.Colors); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if err := os.WriteFile(file, b.Bytes(), 0644); err != nil {
		return err
	}

	return s.record(catalog.Record{
		Path:     file,
		Category: e.Category,
		Name:     e.Name,
		Source:   opts.Input,
		Row:      e.Row,
		Col:      e.Col,
		SHA1:     fmt.Sprintf("%X", sha1.Sum(b.Bytes())),
	})
}

// Extract slices the sprite sheet opts.Input into tiles and writes every tile
// that isn't fully transparent to the output catalog. Any error aborts the
// run; tiles already written stay on disk.
func (s *SpriteKit) Extract(opts ExtractOptions) (ExtractResult, error) {
	if opts.TileWidth == 0 {
		opts.TileWidth = tile.DefaultSize
	}
	if opts.TileHeight == 0 {
		opts.TileHeight = tile.DefaultSize
	}
	if opts.Output == "" {
		opts.Output = DefaultOutput
	}

	m, err := decodeFile(opts.Input)
	if err != nil {
		return ExtractResult{}, err
	}

	g, err := tile.NewGrid(m.Bounds(), opts.TileWidth, opts.TileHeight)
	if err != nil {
		return ExtractResult{}, err
	}

	result := ExtractResult{
		Cols: g.Cols(),
		Rows: g.Rows(),
	}

	s.logger.Printf("Image: %s\n", opts.Input)
	s.logger.Printf("Size: %dx%d\n", m.Bounds().Dx(), m.Bounds().Dy())
	s.logger.Printf("Grid: %d cols x %d rows = %d tiles\n", result.Cols, result.Rows, g.Len())
	s.logger.Printf("Output: %s\n", opts.Output)

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			t := tile.Crop(m, g.Rect(row, col))
			if tile.Empty(t) {
				result.Skipped++
				continue
			}

			e := opts.Table.Resolve(tilemap.Coord{Row: row, Col: col}, opts.Prefix)
			file := filepath.Join(opts.Output, e.Filename())

			if !opts.DryRun {
				if err := s.writeTile(file, t, e, opts); err != nil {
					return result, err
				}
			}
			s.logger.Printf("  [%d,%d] -> %s\n", row, col, file)

			result.Extracted++
		}
	}

	s.logger.Printf("Extracted: %d tiles\n", result.Extracted)
	s.logger.Printf("Skipped (empty): %d tiles\n", result.Skipped)

	return result, nil
}
