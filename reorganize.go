package spritekit

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/talesmud/spritekit/catalog"
	"github.com/talesmud/spritekit/tile"
	"github.com/talesmud/spritekit/tilemap"
)

const (
	// DefaultSource is where a previous extraction left uncategorized tiles
	DefaultSource = "public/assets/img/tiles/uncategorized"
	// DefaultSourcePrefix is the prefix those tiles were extracted with
	DefaultSourcePrefix = "darkicons-"
	// DefaultThreshold is the file size in bytes below which a tile is
	// assumed to be fully transparent. image/png writes a 32x32 transparent
	// tile in under 100 bytes.
	DefaultThreshold = 200
)

// ErrThreshold is returned for a negative size threshold.
var ErrThreshold = errors.New("threshold must not be negative")

// ReorganizeOptions controls how extracted tiles are moved into categories.
type ReorganizeOptions struct {
	Table *tilemap.Table
	// Source defaults to DefaultSource
	Source string
	// Target defaults to DefaultOutput
	Target string
	// SourcePrefix defaults to DefaultSourcePrefix
	SourcePrefix string
	// Threshold is the size in bytes below which a tile is empty, zero
	// turns the size check off. The CLI passes DefaultThreshold.
	Threshold int64
	// InspectAlpha also decodes each tile and treats it as empty if every
	// pixel is transparent
	InspectAlpha bool
	DryRun       bool
}

// ReorganizeResult summarizes a reorganization.
type ReorganizeResult struct {
	Moved   int
	Skipped int
	Empty   int
}

// copyFile copies src to dst, keeping the permission bits and modification
// time of src, and returns the SHA-1 of the contents.
func copyFile(src, dst string, info os.FileInfo) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", err
	}

	h := sha1.New()
	if _, err := io.Copy(io.MultiWriter(out, h), in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return "", err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", err
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (s *SpriteKit) isEmpty(file string, info os.FileInfo, opts ReorganizeOptions) (bool, error) {
	if info.Size() < opts.Threshold {
		return true, nil
	}
	if !opts.InspectAlpha {
		return false, nil
	}
	m, err := decodeFile(file)
	if err != nil {
		return false, err
	}
	return tile.Empty(m), nil
}

// Reorganize copies each tile listed in opts.Table from the uncategorized
// source directory to its category under the target directory. Tiles that
// were never extracted are skipped, and tiles that look empty aren't copied.
func (s *SpriteKit) Reorganize(opts ReorganizeOptions) (ReorganizeResult, error) {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Target == "" {
		opts.Target = DefaultOutput
	}
	if opts.SourcePrefix == "" {
		opts.SourcePrefix = DefaultSourcePrefix
	}
	if opts.Threshold < 0 {
		return ReorganizeResult{}, fmt.Errorf("%d: %w", opts.Threshold, ErrThreshold)
	}

	s.logger.Printf("Source: %s\n", opts.Source)
	s.logger.Printf("Target: %s\n", opts.Target)

	var result ReorganizeResult

	for _, e := range opts.Table.Entries() {
		name := tilemap.AutoName(opts.SourcePrefix, e.Row, e.Col) + ".png"
		src := filepath.Join(opts.Source, name)

		info, err := os.Stat(src)
		if err != nil {
			if os.IsNotExist(err) {
				s.logger.Printf("  SKIP: %s not found\n", name)
				result.Skipped++
				continue
			}
			return result, err
		}

		empty, err := s.isEmpty(src, info, opts)
		if err != nil {
			return result, err
		}
		if empty {
			s.logger.Printf("  EMPTY: %s (likely transparent)\n", name)
			result.Empty++
			continue
		}

		dst := filepath.Join(opts.Target, e.Filename())

		if !opts.DryRun {
			if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
				return result, err
			}
			sha, err := copyFile(src, dst, info)
			if err != nil {
				return result, err
			}
			if err := s.record(catalog.Record{
				Path:     dst,
				Category: e.Category,
				Name:     e.Name,
				Source:   src,
				Row:      e.Row,
				Col:      e.Col,
				SHA1:     sha,
			}); err != nil {
				return result, err
			}
		}
		s.logger.Printf("  %s -> %s\n", name, dst)

		result.Moved++
	}

	s.logger.Printf("Moved: %d\n", result.Moved)
	s.logger.Printf("Skipped: %d\n", result.Skipped)
	s.logger.Printf("Empty: %d\n", result.Empty)

	return result, nil
}
