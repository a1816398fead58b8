package spritekit

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/talesmud/spritekit/tile"
)

const (
	// DefaultFactor is how much a sprite is enlarged unless told otherwise
	DefaultFactor = 2
	// DefaultMinSize is the width and height at or above which a sprite is
	// assumed to be already scaled
	DefaultMinSize = 32
)

// ErrNotDirectory is returned when the directory to scale doesn't exist.
var ErrNotDirectory = errors.New("not a directory")

// ScaleOptions controls how sprites are upscaled.
type ScaleOptions struct {
	Root string
	// Factor must be at least 1. The CLI passes DefaultFactor.
	Factor int
	// MinSize defaults to DefaultMinSize
	MinSize int
	DryRun  bool
}

// ScaleResult summarizes a scaling run.
type ScaleResult struct {
	Found   int
	Scaled  int
	Skipped int
	Errors  int
}

func findSprites(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Ignore anything that isn't a normal file
		if !info.Mode().IsRegular() {
			return nil
		}

		if strings.EqualFold(filepath.Ext(file), ".png") {
			files = append(files, file)
		}

		return nil
	})
	return files, err
}

// scaleFile reports whether file was, or in a dry run would be, scaled.
func (s *SpriteKit) scaleFile(file string, opts ScaleOptions) (bool, error) {
	m, err := decodeFile(file)
	if err != nil {
		return false, err
	}

	b := m.Bounds()
	if b.Dx() >= opts.MinSize && b.Dy() >= opts.MinSize {
		s.logger.Printf("  SKIP: %s already %dx%d\n", file, b.Dx(), b.Dy())
		return false, nil
	}

	r, err := tile.ScaledSize(b, opts.Factor)
	if err != nil {
		return false, err
	}

	if !opts.DryRun {
		scaled, err := tile.Scale(m, opts.Factor)
		if err != nil {
			return false, err
		}

		// Encode fully before touching the original
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, scaled); err != nil {
			return false, err
		}
		if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
			return false, err
		}
	}
	s.logger.Printf("  %s: %dx%d -> %dx%d\n", file, b.Dx(), b.Dy(), r.Dx(), r.Dy())

	return true, nil
}

// Scale enlarges every PNG under opts.Root smaller than opts.MinSize in either
// dimension by opts.Factor, overwriting it in place. A file that can't be
// read or written is logged and counted as an error but doesn't stop the
// run.
func (s *SpriteKit) Scale(opts ScaleOptions) (ScaleResult, error) {
	if opts.Factor < 1 {
		return ScaleResult{}, fmt.Errorf("%d: %w", opts.Factor, tile.ErrScaleFactor)
	}
	if opts.MinSize == 0 {
		opts.MinSize = DefaultMinSize
	}

	info, err := os.Stat(opts.Root)
	if err != nil || !info.IsDir() {
		return ScaleResult{}, fmt.Errorf("%s: %w", opts.Root, ErrNotDirectory)
	}

	files, err := findSprites(opts.Root)
	if err != nil {
		return ScaleResult{}, err
	}

	result := ScaleResult{
		Found: len(files),
	}
	s.logger.Printf("Found %d PNG files in %s\n", result.Found, opts.Root)

	for _, file := range files {
		scaled, err := s.scaleFile(file, opts)
		switch {
		case err != nil:
			s.logger.Printf("  ERROR: %s: %v\n", file, err)
			result.Errors++
		case scaled:
			result.Scaled++
		default:
			result.Skipped++
		}
	}

	s.logger.Printf("Scaled: %d\n", result.Scaled)
	s.logger.Printf("Skipped: %d\n", result.Skipped)
	s.logger.Printf("Errors: %d\n", result.Errors)

	return result, nil
}
