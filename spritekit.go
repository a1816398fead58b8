/*
Package spritekit is a library for turning pixel-art sprite sheets into a
catalog of individual tile images.

It slices a sheet into a grid of tiles and files each one under a category
using a hand-authored table, moves previously extracted tiles into a corrected
category tree, and upscales small sprites without blurring their edges.
*/
package spritekit

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/talesmud/spritekit/catalog"
)

// DefaultOutput is where tiles end up unless told otherwise.
const DefaultOutput = "public/assets/img"

// Recorder is told about every tile file written to the output catalog.
type Recorder interface {
	Add(catalog.Record) error
}

type SpriteKit struct {
	logger   *log.Logger
	recorder Recorder
}

// New returns a SpriteKit reporting progress to logger. recorder may be nil.
func New(logger *log.Logger, recorder Recorder) *SpriteKit {
	return &SpriteKit{
		logger:   logger,
		recorder: recorder,
	}
}

func (s *SpriteKit) record(r catalog.Record) error {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Add(r)
}

func decodeFile(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, &os.PathError{Op: "decode", Path: file, Err: err}
	}
	return m, nil
}
